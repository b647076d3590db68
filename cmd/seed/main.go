package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"financeai/internal/database"
	apperrors "financeai/internal/errors"
	"financeai/internal/logger"
	"financeai/internal/models"
	"financeai/internal/services"
)

const (
	demoEmail    = "demo@financeai.com"
	demoPassword = "password"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, accountService)
	recommendationService := services.NewRecommendationService(db, services.NewAnalyticsService(db))

	user, err := userService.GetUserByEmail(demoEmail)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return fmt.Errorf("failed to look up demo user: %w", err)
		}
		user, err = userService.CreateUser(demoEmail, demoPassword, "Demo", "User")
		if err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
		log.Infof("Created demo user %s", demoEmail)
	} else {
		log.Infof("Demo user %s already exists, skipping seed", demoEmail)
		return nil
	}

	cash, err := accountService.CreateAccount(user.ID, "Cash", models.AccountTypeAsset, "IDR",
		"Cash on hand", decimal.NewFromInt(50_000_000))
	if err != nil {
		return fmt.Errorf("failed to create cash account: %w", err)
	}
	bank, err := accountService.CreateAccount(user.ID, "Bank BCA", models.AccountTypeAsset, "IDR",
		"Main business bank account", decimal.NewFromInt(150_000_000))
	if err != nil {
		return fmt.Errorf("failed to create bank account: %w", err)
	}
	if _, err := accountService.CreateAccount(user.ID, "Sales Revenue", models.AccountTypeRevenue, "IDR",
		"Revenue from sales", decimal.Zero); err != nil {
		return fmt.Errorf("failed to create revenue account: %w", err)
	}
	if _, err := accountService.CreateAccount(user.ID, "Operating Expenses", models.AccountTypeExpense, "IDR",
		"General business expenses", decimal.Zero); err != nil {
		return fmt.Errorf("failed to create expense account: %w", err)
	}

	now := time.Now()
	daysAgo := func(n int) time.Time {
		return now.AddDate(0, 0, -n)
	}
	category := func(s string) *string { return &s }

	seedTransactions := []services.CreateTransactionInput{
		{
			Amount:          decimal.NewFromInt(25_000_000),
			Description:     "Product sales - January",
			Category:        category("Sales"),
			Type:            models.TransactionTypeIncome,
			TransactionDate: daysAgo(5),
			ToAccountID:     &bank.ID,
		},
		{
			Amount:          decimal.NewFromInt(8_500_000),
			Description:     "Service revenue - Consulting",
			Category:        category("Service Revenue"),
			Type:            models.TransactionTypeIncome,
			TransactionDate: daysAgo(3),
			ToAccountID:     &cash.ID,
		},
		{
			Amount:          decimal.NewFromInt(15_000_000),
			Description:     "Online sales - E-commerce",
			Category:        category("Sales"),
			Type:            models.TransactionTypeIncome,
			TransactionDate: daysAgo(1),
			ToAccountID:     &bank.ID,
		},
		{
			Amount:          decimal.NewFromInt(5_000_000),
			Description:     "Office rent - January",
			Category:        category("Rent"),
			Type:            models.TransactionTypeExpense,
			TransactionDate: daysAgo(10),
			FromAccountID:   &bank.ID,
		},
		{
			Amount:          decimal.NewFromInt(2_500_000),
			Description:     "Marketing campaign - Social media ads",
			Category:        category("Marketing"),
			Type:            models.TransactionTypeExpense,
			TransactionDate: daysAgo(7),
			FromAccountID:   &cash.ID,
		},
		{
			Amount:          decimal.NewFromInt(1_200_000),
			Description:     "Office supplies and equipment",
			Category:        category("Office Supplies"),
			Type:            models.TransactionTypeExpense,
			TransactionDate: daysAgo(4),
			FromAccountID:   &bank.ID,
		},
		{
			Amount:          decimal.NewFromInt(800_000),
			Description:     "Internet and utilities",
			Category:        category("Utilities"),
			Type:            models.TransactionTypeExpense,
			TransactionDate: daysAgo(2),
			FromAccountID:   &bank.ID,
		},
		{
			Amount:          decimal.NewFromInt(5_000_000),
			Description:     "Cash withdrawal for petty cash",
			Category:        category("Account Transfer"),
			Type:            models.TransactionTypeTransfer,
			TransactionDate: daysAgo(6),
			FromAccountID:   &bank.ID,
			ToAccountID:     &cash.ID,
		},
	}

	for _, input := range seedTransactions {
		if _, err := transactionService.CreateTransaction(user.ID, input); err != nil {
			return fmt.Errorf("failed to seed transaction %q: %w", input.Description, err)
		}
	}
	log.Infof("Seeded %d transactions", len(seedTransactions))

	created, err := recommendationService.CreateRecommendationsForUser(user.ID, now)
	if err != nil {
		return fmt.Errorf("failed to seed recommendations: %w", err)
	}
	log.Infof("Seeded %d recommendations", len(created))

	log.Info("Seed completed successfully")
	return nil
}
