package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "financeai/internal/errors"
	"financeai/internal/models"
)

const recentTransactionLimit = 10

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// dashboardService assembles the financial overview snapshot.
type dashboardService struct {
	db        *gorm.DB
	analytics AnalyticsServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, analytics AnalyticsServicer) DashboardServicer {
	return &dashboardService{db: db, analytics: analytics}
}

// GetSnapshot combines account totals, monthly income/expense scalars, the
// ten most recent transactions, the top pending high/urgent recommendations,
// and the derived financial health score.
func (s *dashboardService) GetSnapshot(userID string, now time.Time) (*DashboardSnapshot, error) {
	accounts, err := s.analytics.AccountTotalsByType(userID)
	if err != nil {
		return nil, err
	}

	monthlyIncome, err := s.analytics.MonthlyIncome(userID, now)
	if err != nil {
		return nil, err
	}
	monthlyExpenses, err := s.analytics.MonthlyExpenses(userID, now)
	if err != nil {
		return nil, err
	}

	var recent []models.Transaction
	if err := s.db.Preload("FromAccount").Preload("ToAccount").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentTransactionLimit).
		Find(&recent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recommendations []models.Recommendation
	if err := s.db.Where("user_id = ? AND status = ? AND priority IN ?",
		userID, models.RecommendationStatusPending,
		[]models.RecommendationPriority{models.RecommendationPriorityHigh, models.RecommendationPriorityUrgent}).
		Order("created_at DESC").
		Limit(3).
		Find(&recommendations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalAssets := accounts[models.AccountTypeAsset].TotalBalance
	totalLiabilities := accounts[models.AccountTypeLiability].TotalBalance
	netWorth := totalAssets.Sub(totalLiabilities)

	return &DashboardSnapshot{
		Accounts:             accounts,
		MonthlyIncome:        monthlyIncome,
		MonthlyExpenses:      monthlyExpenses,
		NetWorth:             netWorth,
		FinancialHealthScore: healthScore(netWorth, totalAssets),
		RecentTransactions:   recent,
		Recommendations:      recommendations,
	}, nil
}

// healthScore is the dashboard heuristic: net worth as a share of total
// assets, scaled to 0-100 and rounded to one decimal. The denominator floors
// at 1 so an empty balance sheet scores 0 instead of dividing by zero.
func healthScore(netWorth, totalAssets decimal.Decimal) float64 {
	denominator := totalAssets
	if denominator.LessThan(decimalOne) {
		denominator = decimalOne
	}

	score := netWorth.Div(denominator).Mul(decimalHundred)
	if score.IsNegative() {
		score = decimal.Zero
	}
	if score.GreaterThan(decimalHundred) {
		score = decimalHundred
	}
	result, _ := score.Round(1).Float64()
	return result
}
