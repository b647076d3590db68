package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"financeai/internal/models"
	"financeai/internal/pagination"
	"financeai/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("creates_account_with_initial_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Bank BCA", models.AccountTypeAsset, "IDR", "Main account", decimal.NewFromInt(150_000_000))
		testutil.AssertNoError(t, err)

		if account.ID == "" {
			t.Fatal("expected non-empty account ID")
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(150_000_000), account.Balance)
		if !account.IsActive {
			t.Error("new accounts should be active")
		}
	})

	t.Run("defaults_currency_to_idr", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Cash", models.AccountTypeAsset, "", "", decimal.Zero)
		testutil.AssertNoError(t, err)
		if account.Currency != "IDR" {
			t.Errorf("expected IDR, got %s", account.Currency)
		}
	})

	t.Run("rejects_missing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateAccount(user.ID, "", models.AccountTypeAsset, "IDR", "", decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateAccount(user.ID, "Weird", models.AccountType("crypto"), "IDR", "", decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserAccounts(t *testing.T) {
	t.Run("lists_active_accounts_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)
		inactive := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)
		if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate account: %v", err)
		}

		result, err := svc.GetUserAccounts(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 active account, got %d", result.TotalItems)
		}
	})

	t.Run("tenant_isolation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)

		testutil.CreateTestAccount(t, db, alice.ID, models.AccountTypeAsset)

		result, err := svc.GetUserAccounts(bob.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no accounts for other user, got %d", result.TotalItems)
		}
	})
}

func TestUpdateAccount(t *testing.T) {
	t.Run("updates_mutable_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, models.AccountTypeAsset)

		name := "Renamed"
		description := "Updated description"
		inactive := false
		updated, err := svc.UpdateAccount(user.ID, account.ID, AccountUpdateFields{
			Name:        &name,
			Description: &description,
			IsActive:    &inactive,
		})
		testutil.AssertNoError(t, err)
		if updated.Name != "Renamed" || updated.Description != "Updated description" || updated.IsActive {
			t.Errorf("unexpected updated account: %+v", updated)
		}
	})

	t.Run("balance_is_not_mutable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, models.AccountTypeAsset, decimal.NewFromInt(777))

		name := "Renamed"
		updated, err := svc.UpdateAccount(user.ID, account.ID, AccountUpdateFields{Name: &name})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(777), updated.Balance)
	})

	t.Run("not_found_for_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, owner.ID, models.AccountTypeAsset)

		name := "Hijacked"
		_, err := svc.UpdateAccount(other.ID, account.ID, AccountUpdateFields{Name: &name})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestApplyPosting(t *testing.T) {
	t.Run("moves_balance_between_endpoints", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestAccountWithBalance(t, db, user.ID, models.AccountTypeAsset, decimal.NewFromInt(100))
		to := testutil.CreateTestAccountWithBalance(t, db, user.ID, models.AccountTypeAsset, decimal.NewFromInt(10))

		err := svc.ApplyPosting(db, &models.Transaction{
			Amount:        decimal.NewFromInt(40),
			FromAccountID: &from.ID,
			ToAccountID:   &to.ID,
		})
		testutil.AssertNoError(t, err)

		updatedFrom, err := svc.GetAccountByID(user.ID, from.ID)
		testutil.AssertNoError(t, err)
		updatedTo, err := svc.GetAccountByID(user.ID, to.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(60), updatedFrom.Balance)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(50), updatedTo.Balance)
	})
}
