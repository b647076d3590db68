package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"financeai/internal/models"
	"financeai/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountUpdateFields holds the optional fields accepted by UpdateAccount.
// Accounts are never deleted; setting IsActive to false deactivates them
// while keeping historical transactions intact.
type AccountUpdateFields struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, currency, description string, initialBalance decimal.Decimal) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetActiveAccounts(userID string) ([]models.Account, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	ApplyPosting(tx *gorm.DB, transaction *models.Transaction) error
}

// CreateTransactionInput carries the validated fields for a new transaction.
type CreateTransactionInput struct {
	Amount          decimal.Decimal
	Currency        string
	Description     string
	Category        *string
	Type            models.TransactionType
	TransactionDate time.Time
	FromAccountID   *string
	ToAccountID     *string
	Metadata        models.JSONMap
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type     *models.TransactionType
	Category *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, input CreateTransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
}

// CategoryTotal is an expense sum for a single category label.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// AccountTypeTotal aggregates the active accounts of one type.
type AccountTypeTotal struct {
	Count        int             `json:"count"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// AnalyticsServicer computes monthly aggregates. The evaluation instant is
// passed explicitly; "the month" is the calendar month containing it.
type AnalyticsServicer interface {
	MonthlyExpensesByCategory(userID string, now time.Time) ([]CategoryTotal, error)
	MonthlyIncome(userID string, now time.Time) (decimal.Decimal, error)
	MonthlyExpenses(userID string, now time.Time) (decimal.Decimal, error)
	AccountTotalsByType(userID string) (map[models.AccountType]AccountTypeTotal, error)
}

// RecommendationCandidate is a rule result before persistence.
type RecommendationCandidate struct {
	Type            models.RecommendationType
	Priority        models.RecommendationPriority
	Title           string
	Description     string
	PotentialImpact decimal.Decimal
	ActionSteps     models.ActionSteps
}

// RecommendationFilter holds optional filter parameters for listing recommendations.
type RecommendationFilter struct {
	Status   *models.RecommendationStatus
	Priority *models.RecommendationPriority
}

// RecommendationServicer defines the contract for recommendation generation
// and lifecycle management.
type RecommendationServicer interface {
	GenerateRecommendations(spending []CategoryTotal, income decimal.Decimal) []RecommendationCandidate
	CreateRecommendationsForUser(userID string, now time.Time) ([]models.Recommendation, error)
	GetUserRecommendations(userID string, page pagination.PageRequest, filter RecommendationFilter) (*pagination.PageResponse[models.Recommendation], error)
	UpdateStatus(userID, recommendationID string, status models.RecommendationStatus, now time.Time) (*models.Recommendation, error)
}

// DashboardSnapshot is the assembled financial overview for one user.
type DashboardSnapshot struct {
	Accounts             map[models.AccountType]AccountTypeTotal `json:"accounts"`
	MonthlyIncome        decimal.Decimal                         `json:"monthly_income"`
	MonthlyExpenses      decimal.Decimal                         `json:"monthly_expenses"`
	NetWorth             decimal.Decimal                         `json:"net_worth"`
	FinancialHealthScore float64                                 `json:"financial_health_score"`
	RecentTransactions   []models.Transaction                    `json:"recent_transactions"`
	Recommendations      []models.Recommendation                 `json:"recommendations"`
}

// DashboardServicer assembles the dashboard snapshot.
type DashboardServicer interface {
	GetSnapshot(userID string, now time.Time) (*DashboardSnapshot, error)
}

// CreateReportInput carries the fields for a stored report.
type CreateReportInput struct {
	Title       string
	Type        models.ReportType
	PeriodStart time.Time
	PeriodEnd   time.Time
	Data        models.JSONMap
	AIInsights  models.JSONMap
}

// ReportServicer defines the contract for stored financial reports.
// Reports are storage only; no computation happens here.
type ReportServicer interface {
	CreateReport(userID string, input CreateReportInput) (*models.Report, error)
	GetUserReports(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Report], error)
	GetReportByID(userID, reportID string) (*models.Report, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
