package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financeai/internal/models"
	"financeai/internal/testutil"
)

func TestMonthBounds(t *testing.T) {
	now := time.Date(2025, time.January, 15, 13, 45, 0, 0, time.UTC)
	start, end := monthBounds(now)

	if !start.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected month start: %s", start)
	}
	if !end.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected month end: %s", end)
	}

	// December rolls over into the next year.
	start, end = monthBounds(time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC))
	if !start.Equal(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected December start: %s", start)
	}
	if !end.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected December end: %s", end)
	}
}

func TestMonthlyAggregates(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("sums_only_current_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(1000), "Sales", now)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(500), "Sales", now.AddDate(0, 0, 10))
		// Previous month, excluded.
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(9999), "Sales", now.AddDate(0, -1, 0))

		income, err := svc.MonthlyIncome(user.ID, now)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1500), income)
	})

	t.Run("income_and_expenses_are_separate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(1000), "Sales", now)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, decimal.NewFromInt(300), "Rent", now)

		income, err := svc.MonthlyIncome(user.ID, now)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1000), income)

		expenses, err := svc.MonthlyExpenses(user.ID, now)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(300), expenses)
	})

	t.Run("empty_month_sums_to_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)

		income, err := svc.MonthlyIncome(user.ID, now)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.Zero, income)
	})
}

func TestMonthlyExpensesByCategory(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("groups_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, decimal.NewFromInt(300), "Rent", now)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, decimal.NewFromInt(200), "Rent", now)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, decimal.NewFromInt(100), "Marketing", now)
		// Income does not count as spending.
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(5000), "Sales", now)

		totals, err := svc.MonthlyExpensesByCategory(user.ID, now)
		testutil.AssertNoError(t, err)
		if len(totals) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(totals))
		}

		byCategory := make(map[string]decimal.Decimal, len(totals))
		for _, entry := range totals {
			byCategory[entry.Category] = entry.Total
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(500), byCategory["Rent"])
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), byCategory["Marketing"])
	})

	t.Run("missing_category_groups_under_empty_label", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, decimal.NewFromInt(50), "", now)

		totals, err := svc.MonthlyExpensesByCategory(user.ID, now)
		testutil.AssertNoError(t, err)
		if len(totals) != 1 {
			t.Fatalf("expected 1 group, got %d", len(totals))
		}
		if totals[0].Category != "" {
			t.Errorf("expected empty category label, got %q", totals[0].Category)
		}
	})
}

func TestAccountTotalsByType(t *testing.T) {
	t.Run("groups_active_accounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestAccountWithBalance(t, db, user.ID, models.AccountTypeAsset, decimal.NewFromInt(100))
		testutil.CreateTestAccountWithBalance(t, db, user.ID, models.AccountTypeAsset, decimal.NewFromInt(200))
		testutil.CreateTestAccountWithBalance(t, db, user.ID, models.AccountTypeLiability, decimal.NewFromInt(50))

		totals, err := svc.AccountTotalsByType(user.ID)
		testutil.AssertNoError(t, err)

		assets := totals[models.AccountTypeAsset]
		if assets.Count != 2 {
			t.Errorf("expected 2 asset accounts, got %d", assets.Count)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(300), assets.TotalBalance)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(50), totals[models.AccountTypeLiability].TotalBalance)
	})

	t.Run("skips_inactive_accounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)

		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, models.AccountTypeAsset, decimal.NewFromInt(100))
		if err := db.Model(account).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate account: %v", err)
		}

		totals, err := svc.AccountTotalsByType(user.ID)
		testutil.AssertNoError(t, err)
		if _, ok := totals[models.AccountTypeAsset]; ok {
			t.Error("inactive accounts should not appear in totals")
		}
	})
}
