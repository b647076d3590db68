package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"financeai/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an active account of the given type with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string, accountType models.AccountType) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, accountType, decimal.Zero)
}

// CreateTestAccountWithBalance creates an active account of the given type and balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID string, accountType models.AccountType, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     accountType,
		Balance:  balance,
		Currency: "IDR",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a transaction row directly, without posting
// it to account balances. The account reference used depends on the type:
// income sets to_account_id, expense sets from_account_id.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount decimal.Decimal, category string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		Amount:          amount,
		Currency:        "IDR",
		Description:     fmt.Sprintf("Test Transaction %d", nextID()),
		Type:            txType,
		TransactionDate: date,
	}
	if category != "" {
		tx.Category = &category
	}
	switch txType {
	case models.TransactionTypeIncome:
		tx.ToAccountID = &accountID
	case models.TransactionTypeExpense:
		tx.FromAccountID = &accountID
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRecommendation creates a recommendation with the given type and status.
func CreateTestRecommendation(t *testing.T, db *gorm.DB, userID string, recType models.RecommendationType, status models.RecommendationStatus) *models.Recommendation {
	t.Helper()

	impact := decimal.NewFromInt(1_000_000)
	rec := &models.Recommendation{
		UserID:          userID,
		Title:           fmt.Sprintf("Test Recommendation %d", nextID()),
		Description:     "Test recommendation description",
		Type:            recType,
		Priority:        models.RecommendationPriorityMedium,
		PotentialImpact: &impact,
		ActionSteps:     models.ActionSteps{"Step one", "Step two"},
		Status:          status,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create test recommendation: %v", err)
	}
	return rec
}

// CreateTestReport creates a stored report covering the given period.
func CreateTestReport(t *testing.T, db *gorm.DB, userID string, reportType models.ReportType, periodStart, periodEnd time.Time) *models.Report {
	t.Helper()

	report := &models.Report{
		UserID:      userID,
		Title:       fmt.Sprintf("Test Report %d", nextID()),
		Type:        reportType,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Data:        models.JSONMap{"total": 42},
	}
	if err := db.Create(report).Error; err != nil {
		t.Fatalf("failed to create test report: %v", err)
	}
	return report
}
