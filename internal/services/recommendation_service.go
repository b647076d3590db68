package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "financeai/internal/errors"
	"financeai/internal/models"
	"financeai/internal/pagination"
)

// Rule thresholds and impact factors.
var (
	costShareThreshold  = decimal.RequireFromString("0.3")  // highest category vs income
	costSavingsFactor   = decimal.RequireFromString("0.15") // potential savings on that category
	cashFlowThreshold   = decimal.RequireFromString("0.2")  // minimum profit margin
	cashFlowImpact      = decimal.RequireFromString("0.1")
	revenueGrowthImpact = decimal.RequireFromString("0.25")
)

// dedupWindow suppresses repeat recommendations of the same type while a
// pending one created within this window exists.
const dedupWindow = 30 * 24 * time.Hour

// recommendationService generates and manages rule-based recommendations.
type recommendationService struct {
	db        *gorm.DB
	analytics AnalyticsServicer
}

// NewRecommendationService creates a new RecommendationServicer.
func NewRecommendationService(db *gorm.DB, analytics AnalyticsServicer) RecommendationServicer {
	return &recommendationService{db: db, analytics: analytics}
}

// GenerateRecommendations applies the three rules to the monthly aggregates.
// The rules are independent: each fires on its own condition regardless of
// the others.
func (s *recommendationService) GenerateRecommendations(spending []CategoryTotal, income decimal.Decimal) []RecommendationCandidate {
	var candidates []RecommendationCandidate

	// Cost optimization: flag the heaviest expense category when it eats more
	// than 30% of monthly income.
	if len(spending) > 0 {
		highest := spending[0]
		for _, entry := range spending[1:] {
			if entry.Total.GreaterThan(highest.Total) {
				highest = entry
			}
		}

		if highest.Total.GreaterThan(income.Mul(costShareThreshold)) {
			candidates = append(candidates, RecommendationCandidate{
				Type:            models.RecommendationTypeCostOptimization,
				Priority:        models.RecommendationPriorityHigh,
				Title:           fmt.Sprintf("Optimize %s Spending", highest.Category),
				Description:     fmt.Sprintf("Your %s expenses are high. Consider reviewing and optimizing costs in this area.", highest.Category),
				PotentialImpact: highest.Total.Mul(costSavingsFactor),
				ActionSteps: models.ActionSteps{
					"Review all expenses in this category",
					"Compare prices with alternative suppliers",
					"Negotiate better rates or terms",
					"Consider bulk purchasing discounts",
				},
			})
		}
	}

	// Cash flow: profit margin below 20%.
	totalExpenses := decimal.Zero
	for _, entry := range spending {
		totalExpenses = totalExpenses.Add(entry.Total)
	}
	cashFlowRatio := decimal.Zero
	if income.IsPositive() {
		cashFlowRatio = income.Sub(totalExpenses).Div(income)
	}
	if cashFlowRatio.LessThan(cashFlowThreshold) {
		candidates = append(candidates, RecommendationCandidate{
			Type:            models.RecommendationTypeCashFlow,
			Priority:        models.RecommendationPriorityHigh,
			Title:           "Improve Cash Flow Management",
			Description:     "Your profit margin is below recommended levels. Focus on improving cash flow.",
			PotentialImpact: income.Mul(cashFlowImpact),
			ActionSteps: models.ActionSteps{
				"Review payment terms with customers",
				"Implement faster invoicing processes",
				"Negotiate extended payment terms with suppliers",
				"Consider offering early payment discounts",
			},
		})
	}

	// Revenue growth: always suggested once there is any income this month.
	if income.IsPositive() {
		candidates = append(candidates, RecommendationCandidate{
			Type:            models.RecommendationTypeRevenueGrowth,
			Priority:        models.RecommendationPriorityMedium,
			Title:           "Expand Revenue Streams",
			Description:     "Diversify your income sources to reduce risk and increase growth potential.",
			PotentialImpact: income.Mul(revenueGrowthImpact),
			ActionSteps: models.ActionSteps{
				"Identify complementary products or services",
				"Explore new market segments",
				"Develop subscription or recurring revenue models",
				"Consider strategic partnerships",
			},
		})
	}

	return candidates
}

// CreateRecommendationsForUser runs the rules against the user's current
// monthly aggregates and persists each candidate unless a pending
// recommendation of the same type already exists within the dedup window.
// Returns the recommendations actually inserted.
func (s *recommendationService) CreateRecommendationsForUser(userID string, now time.Time) ([]models.Recommendation, error) {
	spending, err := s.analytics.MonthlyExpensesByCategory(userID, now)
	if err != nil {
		return nil, err
	}
	income, err := s.analytics.MonthlyIncome(userID, now)
	if err != nil {
		return nil, err
	}

	candidates := s.GenerateRecommendations(spending, income)

	created := make([]models.Recommendation, 0, len(candidates))
	cutoff := now.Add(-dedupWindow)
	for _, candidate := range candidates {
		var count int64
		if err := s.db.Model(&models.Recommendation{}).
			Where("user_id = ? AND type = ? AND status = ? AND created_at >= ?",
				userID, candidate.Type, models.RecommendationStatusPending, cutoff).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}

		impact := candidate.PotentialImpact
		recommendation := models.Recommendation{
			UserID:          userID,
			Title:           candidate.Title,
			Description:     candidate.Description,
			Type:            candidate.Type,
			Priority:        candidate.Priority,
			PotentialImpact: &impact,
			ActionSteps:     candidate.ActionSteps,
			Status:          models.RecommendationStatusPending,
		}
		if err := s.db.Create(&recommendation).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = append(created, recommendation)
	}

	return created, nil
}

// GetUserRecommendations retrieves a paginated, filtered list of the user's
// recommendations, newest first.
func (s *recommendationService) GetUserRecommendations(userID string, page pagination.PageRequest, filter RecommendationFilter) (*pagination.PageResponse[models.Recommendation], error) {
	page.Defaults()

	base := s.db.Model(&models.Recommendation{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		base = base.Where("priority = ?", *filter.Priority)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recommendations []models.Recommendation
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&recommendations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(recommendations, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateStatus moves a pending recommendation to in_progress, completed, or
// dismissed. Completing stamps implemented_at.
func (s *recommendationService) UpdateStatus(userID, recommendationID string, status models.RecommendationStatus, now time.Time) (*models.Recommendation, error) {
	switch status {
	case models.RecommendationStatusInProgress, models.RecommendationStatusCompleted, models.RecommendationStatusDismissed:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be in_progress, completed, or dismissed")
	}

	var recommendation models.Recommendation
	if err := s.db.Where("id = ? AND user_id = ?", recommendationID, userID).
		First(&recommendation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecommendationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if recommendation.Status != models.RecommendationStatusPending {
		return nil, apperrors.ErrInvalidStatusChange
	}

	updates := map[string]interface{}{"status": status}
	if status == models.RecommendationStatusCompleted {
		updates["implemented_at"] = now
	}
	if err := s.db.Model(&recommendation).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &recommendation, nil
}
