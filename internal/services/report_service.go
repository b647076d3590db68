package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "financeai/internal/errors"
	"financeai/internal/models"
	"financeai/internal/pagination"
)

// reportService stores and retrieves financial report snapshots.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// CreateReport stores a report snapshot for a period.
func (s *reportService) CreateReport(userID string, input CreateReportInput) (*models.Report, error) {
	if input.Title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "report title is required")
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "report period is required")
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period end must not precede period start")
	}
	if input.Data == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "report data is required")
	}

	report := &models.Report{
		UserID:      userID,
		Title:       input.Title,
		Type:        input.Type,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		Data:        input.Data,
		AIInsights:  input.AIInsights,
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return report, nil
}

// GetUserReports retrieves a paginated list of the user's reports, newest first.
func (s *reportService) GetUserReports(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Report], error) {
	page.Defaults()

	base := s.db.Model(&models.Report{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var reports []models.Report
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(reports, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetReportByID retrieves a report by ID for a specific user.
func (s *reportService) GetReportByID(userID, reportID string) (*models.Report, error) {
	var report models.Report
	if err := s.db.Where("id = ? AND user_id = ?", reportID, userID).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReportNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &report, nil
}
