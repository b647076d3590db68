package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType determines which account references a transaction carries:
// income posts to a destination account, expense draws from a source account,
// and a transfer does both.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a single financial event. Rows are immutable after
// creation; posting one mutates the referenced account balances exactly once.
type Transaction struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index:idx_transactions_user_type;index:idx_transactions_user_date;index:idx_transactions_user_category" json:"user_id"`
	FromAccountID   *string         `gorm:"type:uuid" json:"from_account_id,omitempty"`
	ToAccountID     *string         `gorm:"type:uuid" json:"to_account_id,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency        string          `gorm:"type:char(3);not null;default:'IDR'" json:"currency"`
	Description     string          `gorm:"not null" json:"description"`
	Category        *string         `gorm:"index:idx_transactions_user_category" json:"category,omitempty"`
	Type            TransactionType `gorm:"not null;index:idx_transactions_user_type" json:"type"`
	TransactionDate time.Time       `gorm:"type:date;not null;index:idx_transactions_user_date" json:"transaction_date"`
	Metadata        JSONMap         `gorm:"type:json" json:"metadata,omitempty"`

	FromAccount *Account `gorm:"foreignKey:FromAccountID" json:"from_account,omitempty"`
	ToAccount   *Account `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
}
