package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "financeai/internal/errors"
	"financeai/internal/models"
)

// analyticsService computes monthly income/expense aggregates and account
// totals. All functions take the evaluation instant explicitly so results are
// reproducible in tests; two calls straddling a month boundary intentionally
// disagree.
type analyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db}
}

// monthBounds returns the half-open interval covering the calendar month
// containing the given instant.
func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// MonthlyExpensesByCategory sums this month's expense transactions grouped by
// category label. A missing category groups under the empty label.
func (s *analyticsService) MonthlyExpensesByCategory(userID string, now time.Time) ([]CategoryTotal, error) {
	start, end := monthBounds(now)

	var totals []CategoryTotal
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(category, '') AS category, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND transaction_date >= ? AND transaction_date < ?",
			userID, models.TransactionTypeExpense, start, end).
		Group("category").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}

// MonthlyIncome sums this month's income transactions.
func (s *analyticsService) MonthlyIncome(userID string, now time.Time) (decimal.Decimal, error) {
	return s.monthlySum(userID, models.TransactionTypeIncome, now)
}

// MonthlyExpenses sums this month's expense transactions.
func (s *analyticsService) MonthlyExpenses(userID string, now time.Time) (decimal.Decimal, error) {
	return s.monthlySum(userID, models.TransactionTypeExpense, now)
}

func (s *analyticsService) monthlySum(userID string, transactionType models.TransactionType, now time.Time) (decimal.Decimal, error) {
	start, end := monthBounds(now)

	var total decimal.Decimal
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND transaction_date >= ? AND transaction_date < ?",
			userID, transactionType, start, end).
		Scan(&total).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// AccountTotalsByType counts active accounts and sums their balances, grouped
// by account type.
func (s *analyticsService) AccountTotalsByType(userID string) (map[models.AccountType]AccountTypeTotal, error) {
	var rows []struct {
		Type         models.AccountType
		Count        int
		TotalBalance decimal.Decimal
	}
	if err := s.db.Model(&models.Account{}).
		Select("type, COUNT(*) AS count, COALESCE(SUM(balance), 0) AS total_balance").
		Where("user_id = ? AND is_active = ?", userID, true).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[models.AccountType]AccountTypeTotal, len(rows))
	for _, row := range rows {
		totals[row.Type] = AccountTypeTotal{Count: row.Count, TotalBalance: row.TotalBalance}
	}
	return totals, nil
}
