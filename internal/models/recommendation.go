package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecommendationType represents the category of advice.
type RecommendationType string

const (
	RecommendationTypeCostOptimization RecommendationType = "cost_optimization"
	RecommendationTypeRevenueGrowth    RecommendationType = "revenue_growth"
	RecommendationTypeCashFlow         RecommendationType = "cash_flow"
	RecommendationTypeInvestment       RecommendationType = "investment"
	RecommendationTypeRiskManagement   RecommendationType = "risk_management"
)

// RecommendationPriority represents how urgent a recommendation is.
type RecommendationPriority string

const (
	RecommendationPriorityLow    RecommendationPriority = "low"
	RecommendationPriorityMedium RecommendationPriority = "medium"
	RecommendationPriorityHigh   RecommendationPriority = "high"
	RecommendationPriorityUrgent RecommendationPriority = "urgent"
)

// RecommendationStatus represents the lifecycle state of a recommendation.
type RecommendationStatus string

const (
	RecommendationStatusPending    RecommendationStatus = "pending"
	RecommendationStatusInProgress RecommendationStatus = "in_progress"
	RecommendationStatusCompleted  RecommendationStatus = "completed"
	RecommendationStatusDismissed  RecommendationStatus = "dismissed"
)

// Recommendation is an advisory record produced by the rule engine.
// A new recommendation of a given type is suppressed while a pending one of
// the same type created within the last 30 days exists for the user.
type Recommendation struct {
	Base
	UserID          string                 `gorm:"type:uuid;not null;index:idx_recommendations_user_status;index:idx_recommendations_user_type;index:idx_recommendations_user_priority" json:"user_id"`
	Title           string                 `gorm:"not null" json:"title"`
	Description     string                 `gorm:"not null" json:"description"`
	Type            RecommendationType     `gorm:"not null;index:idx_recommendations_user_type" json:"type"`
	Priority        RecommendationPriority `gorm:"not null;default:'medium';index:idx_recommendations_user_priority" json:"priority"`
	PotentialImpact *decimal.Decimal       `gorm:"type:decimal(15,2)" json:"potential_impact,omitempty"`
	ActionSteps     ActionSteps            `gorm:"type:json" json:"action_steps,omitempty"`
	Status          RecommendationStatus   `gorm:"not null;default:'pending';index:idx_recommendations_user_status" json:"status"`
	ImplementedAt   *time.Time             `json:"implemented_at,omitempty"`
}
