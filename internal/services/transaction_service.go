package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "financeai/internal/errors"
	"financeai/internal/models"
	"financeai/internal/pagination"
)

// minAmount is the smallest accepted transaction amount.
var minAmount = decimal.RequireFromString("0.01")

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateTransaction validates and posts a new transaction. The row insert and
// the balance updates on the referenced accounts commit as a single database
// transaction, so a failure leaves no partial ledger state.
func (s *transactionService) CreateTransaction(userID string, input CreateTransactionInput) (*models.Transaction, error) {
	if input.Amount.LessThan(minAmount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be at least 0.01")
	}
	if input.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.TransactionDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction date is required")
	}

	if err := s.validateAccountRefs(input.Type, input.FromAccountID, input.ToAccountID); err != nil {
		return nil, err
	}

	// Referenced accounts must exist, be active, and belong to the user.
	var fromAccount, toAccount *models.Account
	var err error
	if input.FromAccountID != nil {
		fromAccount, err = s.getActiveAccount(userID, *input.FromAccountID)
		if err != nil {
			return nil, err
		}
	}
	if input.ToAccountID != nil {
		toAccount, err = s.getActiveAccount(userID, *input.ToAccountID)
		if err != nil {
			return nil, err
		}
	}

	currency := input.Currency
	if currency == "" {
		// Inherit the posted account's currency, falling back to IDR.
		switch {
		case toAccount != nil:
			currency = toAccount.Currency
		case fromAccount != nil:
			currency = fromAccount.Currency
		default:
			currency = "IDR"
		}
	}

	transaction := &models.Transaction{
		UserID:          userID,
		FromAccountID:   input.FromAccountID,
		ToAccountID:     input.ToAccountID,
		Amount:          input.Amount,
		Currency:        currency,
		Description:     input.Description,
		Category:        input.Category,
		Type:            input.Type,
		TransactionDate: input.TransactionDate,
		Metadata:        input.Metadata,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.ApplyPosting(tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// validateAccountRefs enforces the account contract per transaction type:
// income posts to a destination only, expense draws from a source only, and a
// transfer needs both ends and they must differ.
func (s *transactionService) validateAccountRefs(transactionType models.TransactionType, fromID, toID *string) error {
	switch transactionType {
	case models.TransactionTypeIncome:
		if toID == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "income requires a destination account")
		}
		if fromID != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "income must not set a source account")
		}
	case models.TransactionTypeExpense:
		if fromID == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense requires a source account")
		}
		if toID != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense must not set a destination account")
		}
	case models.TransactionTypeTransfer:
		if fromID == nil || toID == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "transfer requires both source and destination accounts")
		}
		if *fromID == *toID {
			return apperrors.ErrSameAccountTransfer
		}
	default:
		return apperrors.ErrInvalidTransactionType
	}
	return nil
}

func (s *transactionService) getActiveAccount(userID, accountID string) (*models.Account, error) {
	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, most recent transaction date first, with both account
// references resolved.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("FromAccount").
		Preload("ToAccount").
		Order("transaction_date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user,
// with source and destination accounts resolved.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("FromAccount").Preload("ToAccount").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}
