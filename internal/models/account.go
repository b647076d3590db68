package models

import "github.com/shopspring/decimal"

// AccountType classifies an account's role in the balance sheet.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Account represents a financial account in the system.
// The balance is always expressed in the account's own currency;
// no cross-currency arithmetic is ever performed on it.
// Accounts are deactivated rather than deleted so historical
// transactions keep valid references.
type Account struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index:idx_accounts_user_type;index:idx_accounts_user_active" json:"user_id"`
	Name        string          `gorm:"not null" json:"name"`
	Type        AccountType     `gorm:"not null;index:idx_accounts_user_type" json:"type"`
	Balance     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Currency    string          `gorm:"type:char(3);not null;default:'IDR'" json:"currency"`
	IsActive    bool            `gorm:"default:true;index:idx_accounts_user_active" json:"is_active"`
	Description string          `json:"description,omitempty"`

	FromTransactions []Transaction `gorm:"foreignKey:FromAccountID" json:"-"`
	ToTransactions   []Transaction `gorm:"foreignKey:ToAccountID" json:"-"`
}
