package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financeai/internal/models"
	"financeai/internal/pagination"
	"financeai/internal/testutil"
)

func findCandidate(candidates []RecommendationCandidate, recType models.RecommendationType) *RecommendationCandidate {
	for i := range candidates {
		if candidates[i].Type == recType {
			return &candidates[i]
		}
	}
	return nil
}

func TestGenerateRecommendations(t *testing.T) {
	svc := &recommendationService{}

	t.Run("cost_optimization_fires_above_threshold", func(t *testing.T) {
		income := decimal.NewFromInt(10_000_000)
		spending := []CategoryTotal{
			{Category: "Marketing", Total: decimal.NewFromInt(4_000_000)},
			{Category: "Rent", Total: decimal.NewFromInt(1_000_000)},
		}

		candidates := svc.GenerateRecommendations(spending, income)

		cost := findCandidate(candidates, models.RecommendationTypeCostOptimization)
		if cost == nil {
			t.Fatal("expected a cost optimization recommendation")
		}
		if cost.Priority != models.RecommendationPriorityHigh {
			t.Errorf("expected high priority, got %s", cost.Priority)
		}
		// 15% of the heaviest category.
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(600_000), cost.PotentialImpact)
		if len(cost.ActionSteps) != 4 {
			t.Errorf("expected 4 action steps, got %d", len(cost.ActionSteps))
		}
	})

	t.Run("cost_optimization_silent_below_threshold", func(t *testing.T) {
		income := decimal.NewFromInt(10_000_000)
		spending := []CategoryTotal{
			{Category: "Rent", Total: decimal.NewFromInt(1_000_000)},
		}

		candidates := svc.GenerateRecommendations(spending, income)

		if findCandidate(candidates, models.RecommendationTypeCostOptimization) != nil {
			t.Error("cost optimization should not fire when the top category is within budget")
		}
	})

	t.Run("cash_flow_fires_on_thin_margin", func(t *testing.T) {
		income := decimal.NewFromInt(10_000_000)
		spending := []CategoryTotal{
			{Category: "Operations", Total: decimal.NewFromInt(9_000_000)},
		}

		candidates := svc.GenerateRecommendations(spending, income)

		cashFlow := findCandidate(candidates, models.RecommendationTypeCashFlow)
		if cashFlow == nil {
			t.Fatal("expected a cash flow recommendation at 10% margin")
		}
		// 10% of monthly income.
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1_000_000), cashFlow.PotentialImpact)
	})

	t.Run("cash_flow_silent_on_healthy_margin", func(t *testing.T) {
		income := decimal.NewFromInt(10_000_000)
		spending := []CategoryTotal{
			{Category: "Operations", Total: decimal.NewFromInt(2_000_000)},
		}

		candidates := svc.GenerateRecommendations(spending, income)

		if findCandidate(candidates, models.RecommendationTypeCashFlow) != nil {
			t.Error("cash flow should not fire at an 80% margin")
		}
	})

	t.Run("cash_flow_fires_on_zero_income", func(t *testing.T) {
		// With zero income the ratio is defined as zero, below the threshold.
		candidates := svc.GenerateRecommendations(nil, decimal.Zero)

		if findCandidate(candidates, models.RecommendationTypeCashFlow) == nil {
			t.Error("cash flow should fire when there is no income")
		}
	})

	t.Run("revenue_growth_fires_on_any_income", func(t *testing.T) {
		income := decimal.NewFromInt(1_000_000)

		candidates := svc.GenerateRecommendations(nil, income)

		growth := findCandidate(candidates, models.RecommendationTypeRevenueGrowth)
		if growth == nil {
			t.Fatal("expected a revenue growth recommendation")
		}
		if growth.Priority != models.RecommendationPriorityMedium {
			t.Errorf("expected medium priority, got %s", growth.Priority)
		}
		// 25% of monthly income.
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(250_000), growth.PotentialImpact)
	})

	t.Run("revenue_growth_silent_without_income", func(t *testing.T) {
		candidates := svc.GenerateRecommendations(nil, decimal.Zero)

		if findCandidate(candidates, models.RecommendationTypeRevenueGrowth) != nil {
			t.Error("revenue growth should not fire without income")
		}
	})

	t.Run("rules_fire_independently", func(t *testing.T) {
		// Heavy top category and thin margin: all three rules should fire.
		income := decimal.NewFromInt(10_000_000)
		spending := []CategoryTotal{
			{Category: "Marketing", Total: decimal.NewFromInt(9_000_000)},
		}

		candidates := svc.GenerateRecommendations(spending, income)

		if len(candidates) != 3 {
			t.Fatalf("expected 3 candidates, got %d", len(candidates))
		}
	})
}

func TestCreateRecommendationsForUser(t *testing.T) {
	now := time.Now()

	t.Run("persists_candidates_as_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(10_000_000), "Sales", now)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, decimal.NewFromInt(9_000_000), "Marketing", now)

		created, err := svc.CreateRecommendationsForUser(user.ID, now)
		testutil.AssertNoError(t, err)
		if len(created) != 3 {
			t.Fatalf("expected 3 recommendations, got %d", len(created))
		}
		for _, rec := range created {
			if rec.Status != models.RecommendationStatusPending {
				t.Errorf("expected pending status, got %s", rec.Status)
			}
			if rec.PotentialImpact == nil {
				t.Error("expected a potential impact estimate")
			}
		}
	})

	t.Run("dedup_suppresses_repeat_within_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(5_000_000), "Sales", now)

		first, err := svc.CreateRecommendationsForUser(user.ID, now)
		testutil.AssertNoError(t, err)
		if len(first) == 0 {
			t.Fatal("expected recommendations on first run")
		}

		second, err := svc.CreateRecommendationsForUser(user.ID, now)
		testutil.AssertNoError(t, err)
		if len(second) != 0 {
			t.Errorf("expected repeat run to be suppressed, got %d new recommendations", len(second))
		}
	})

	t.Run("dedup_expires_after_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(5_000_000), "Sales", now)

		first, err := svc.CreateRecommendationsForUser(user.ID, now)
		testutil.AssertNoError(t, err)
		if len(first) == 0 {
			t.Fatal("expected recommendations on first run")
		}

		// 31 days later the pending rows are outside the 30-day window and
		// qualifying activity in the new month generates fresh ones.
		later := now.AddDate(0, 0, 31)
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(5_000_000), "Sales", later)

		second, err := svc.CreateRecommendationsForUser(user.ID, later)
		testutil.AssertNoError(t, err)
		if len(second) == 0 {
			t.Error("expected recommendations again once the window has passed")
		}
	})

	t.Run("dedup_ignores_resolved_recommendations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, decimal.NewFromInt(5_000_000), "Sales", now)

		// Same types already exist but are dismissed; generation proceeds.
		testutil.CreateTestRecommendation(t, db, user.ID, models.RecommendationTypeCashFlow, models.RecommendationStatusDismissed)
		testutil.CreateTestRecommendation(t, db, user.ID, models.RecommendationTypeRevenueGrowth, models.RecommendationStatusDismissed)

		created, err := svc.CreateRecommendationsForUser(user.ID, now)
		testutil.AssertNoError(t, err)
		if len(created) == 0 {
			t.Error("dismissed recommendations should not suppress new ones")
		}
	})

	t.Run("dedup_ignores_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		bobAccount := testutil.CreateTestAccount(t, db, bob.ID, models.AccountTypeAsset)

		testutil.CreateTestRecommendation(t, db, alice.ID, models.RecommendationTypeRevenueGrowth, models.RecommendationStatusPending)
		testutil.CreateTestTransaction(t, db, bob.ID, bobAccount.ID, models.TransactionTypeIncome, decimal.NewFromInt(5_000_000), "Sales", now)

		created, err := svc.CreateRecommendationsForUser(bob.ID, now)
		testutil.AssertNoError(t, err)
		if findCreated(created, models.RecommendationTypeRevenueGrowth) == nil {
			t.Error("another user's pending recommendation should not suppress generation")
		}
	})
}

func findCreated(recs []models.Recommendation, recType models.RecommendationType) *models.Recommendation {
	for i := range recs {
		if recs[i].Type == recType {
			return &recs[i]
		}
	}
	return nil
}

func TestUpdateRecommendationStatus(t *testing.T) {
	now := time.Now()

	t.Run("completes_and_stamps_implemented_at", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)
		rec := testutil.CreateTestRecommendation(t, db, user.ID, models.RecommendationTypeCashFlow, models.RecommendationStatusPending)

		_, err := svc.UpdateStatus(user.ID, rec.ID, models.RecommendationStatusCompleted, now)
		testutil.AssertNoError(t, err)

		var stored models.Recommendation
		if err := db.First(&stored, "id = ?", rec.ID).Error; err != nil {
			t.Fatalf("failed to reload recommendation: %v", err)
		}
		if stored.Status != models.RecommendationStatusCompleted {
			t.Errorf("expected completed status, got %s", stored.Status)
		}
		if stored.ImplementedAt == nil {
			t.Error("expected implemented_at to be set")
		}
	})

	t.Run("dismisses_without_implemented_at", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)
		rec := testutil.CreateTestRecommendation(t, db, user.ID, models.RecommendationTypeCashFlow, models.RecommendationStatusPending)

		_, err := svc.UpdateStatus(user.ID, rec.ID, models.RecommendationStatusDismissed, now)
		testutil.AssertNoError(t, err)

		var stored models.Recommendation
		if err := db.First(&stored, "id = ?", rec.ID).Error; err != nil {
			t.Fatalf("failed to reload recommendation: %v", err)
		}
		if stored.ImplementedAt != nil {
			t.Error("dismissing should not set implemented_at")
		}
	})

	t.Run("rejects_non_pending_transition", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)
		rec := testutil.CreateTestRecommendation(t, db, user.ID, models.RecommendationTypeCashFlow, models.RecommendationStatusCompleted)

		_, err := svc.UpdateStatus(user.ID, rec.ID, models.RecommendationStatusDismissed, now)
		testutil.AssertAppError(t, err, "INVALID_STATUS_CHANGE")
	})

	t.Run("rejects_reverting_to_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)
		rec := testutil.CreateTestRecommendation(t, db, user.ID, models.RecommendationTypeCashFlow, models.RecommendationStatusPending)

		_, err := svc.UpdateStatus(user.ID, rec.ID, models.RecommendationStatusPending, now)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found_for_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		rec := testutil.CreateTestRecommendation(t, db, owner.ID, models.RecommendationTypeCashFlow, models.RecommendationStatusPending)

		_, err := svc.UpdateStatus(other.ID, rec.ID, models.RecommendationStatusDismissed, now)
		testutil.AssertAppError(t, err, "RECOMMENDATION_NOT_FOUND")
	})
}

func TestGetUserRecommendations(t *testing.T) {
	t.Run("filters_by_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, NewAnalyticsService(db))
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestRecommendation(t, db, user.ID, models.RecommendationTypeCashFlow, models.RecommendationStatusPending)
		testutil.CreateTestRecommendation(t, db, user.ID, models.RecommendationTypeRevenueGrowth, models.RecommendationStatusDismissed)

		pending := models.RecommendationStatusPending
		result, err := svc.GetUserRecommendations(user.ID, pagination.PageRequest{}, RecommendationFilter{Status: &pending})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 pending recommendation, got %d", result.TotalItems)
		}
	})
}
