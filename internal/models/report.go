package models

import "time"

// ReportType represents the kind of stored financial report.
type ReportType string

const (
	ReportTypeProfitLoss   ReportType = "profit_loss"
	ReportTypeBalanceSheet ReportType = "balance_sheet"
	ReportTypeCashFlow     ReportType = "cash_flow"
	ReportTypeCustom       ReportType = "custom"
)

// Report is a stored snapshot of computed financial data for a period,
// optionally annotated with narrative insights. The system only stores and
// retrieves reports; it does not compute them.
type Report struct {
	Base
	UserID      string     `gorm:"type:uuid;not null;index:idx_reports_user_type;index:idx_reports_user_period" json:"user_id"`
	Title       string     `gorm:"not null" json:"title"`
	Type        ReportType `gorm:"not null;index:idx_reports_user_type" json:"type"`
	PeriodStart time.Time  `gorm:"type:date;not null;index:idx_reports_user_period" json:"period_start"`
	PeriodEnd   time.Time  `gorm:"type:date;not null;index:idx_reports_user_period" json:"period_end"`
	Data        JSONMap    `gorm:"type:json;not null" json:"data"`
	AIInsights  JSONMap    `gorm:"type:json" json:"ai_insights,omitempty"`
}
