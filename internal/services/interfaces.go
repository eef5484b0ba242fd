package services

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/pagination"
)

// Actor identifies who is performing an operation.
type Actor struct {
	UserID string
	Role   models.Role
}

// IsAdmin reports whether the actor holds the privileged role.
func (a Actor) IsAdmin() bool { return a.Role.IsPrivileged() }

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string, role models.Role) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	SetUserActive(actor Actor, id string, active bool) (*models.User, error)
}

// CompanyServicer defines the contract for company reference data.
type CompanyServicer interface {
	CreateCompany(name, description string) (*models.Company, error)
	ListCompanies(page pagination.PageRequest) (*pagination.PageResponse[models.Company], error)
	GetCompanyByID(id string) (*models.Company, error)
	UpdateCompany(id string, name, description *string) (*models.Company, error)
	DeleteCompany(id string) error
}

// CategoryServicer defines the contract for category reference data.
type CategoryServicer interface {
	CreateCategory(name, description string) (*models.Category, error)
	ListCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(id string) (*models.Category, error)
	UpdateCategory(id string, name, description *string) (*models.Category, error)
	DeleteCategory(id string) error
}

// ClientFields carries the editable attributes of a client. Nil fields are
// left unchanged on update.
type ClientFields struct {
	Name        *string
	Email       *string
	Phone       *string
	CompanyName *string
	Notes       *string
}

// ClientServicer defines the contract for client reference data.
type ClientServicer interface {
	CreateClient(fields ClientFields) (*models.Client, error)
	ListClients(page pagination.PageRequest, search string) (*pagination.PageResponse[models.Client], error)
	GetClientByID(id string) (*models.Client, error)
	UpdateClient(id string, fields ClientFields) (*models.Client, error)
	DeleteClient(id string) error
}

// BankAccountServicer defines the contract for bank accounts. Balances are
// read-only here; only the transaction lifecycle moves them.
type BankAccountServicer interface {
	CreateBankAccount(actor Actor, name string, initialBalance decimal.Decimal) (*models.BankAccount, error)
	ListBankAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error)
	GetBankAccountByID(id string) (*models.BankAccount, error)
	RenameBankAccount(id, name string) (*models.BankAccount, error)
	DeleteBankAccount(id string) error
}

// TransactionInput is a new transaction as submitted by a user.
type TransactionInput struct {
	Type              models.TransactionType
	Amount            decimal.Decimal
	Currency          money.Currency
	ConversionRate    *decimal.Decimal
	Description       string
	Date              *time.Time
	CompanyID         string
	CategoryID        *string
	ClientID          *string
	FromBankAccountID *string
	ToBankAccountID   *string
}

// TransactionUpdate holds the fields to change on a pending transaction.
// Nil means unchanged; an empty string clears an optional reference.
type TransactionUpdate struct {
	Type              *models.TransactionType
	Amount            *decimal.Decimal
	Currency          *money.Currency
	ConversionRate    *decimal.Decimal
	Description       *string
	Date              *time.Time
	CompanyID         *string
	CategoryID        *string
	ClientID          *string
	FromBankAccountID *string
	ToBankAccountID   *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	CompanyID *string
	Status    *models.TransactionStatus
	Type      *models.TransactionType
	FromDate  *time.Time
	ToDate    *time.Time
}

// TransactionServicer is the transaction lifecycle: submission, editing while
// pending, approval with balance posting, rejection and deletion.
type TransactionServicer interface {
	CreateTransaction(actor Actor, in TransactionInput) (*models.Transaction, error)
	UpdateTransaction(actor Actor, id string, in TransactionUpdate) (*models.Transaction, error)
	ApproveTransaction(actor Actor, id string) (*models.Transaction, error)
	RejectTransaction(actor Actor, id string) (*models.Transaction, error)
	DeleteTransaction(actor Actor, id string) (*models.Transaction, error)
	GetTransactionByID(actor Actor, id string) (*models.Transaction, error)
	ListTransactions(actor Actor, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// ReportFilter scopes a report. Nil fields are ignored; dates are inclusive.
type ReportFilter struct {
	CompanyID *string
	From      *time.Time
	To        *time.Time
}

// ProfitLoss is the overall income statement for a filter.
type ProfitLoss struct {
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	NetProfit decimal.Decimal `json:"net_profit"`
}

// DimensionRow is one line of a by-company, by-client or by-category report.
type DimensionRow struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	NetProfit decimal.Decimal `json:"net_profit"`
}

// BankAccountRow is one line of the by-bank-account report.
type BankAccountRow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	TransferIn  decimal.Decimal `json:"transfer_in"`
	TransferOut decimal.Decimal `json:"transfer_out"`
	Net         decimal.Decimal `json:"net"`
}

// ReportServicer aggregates approved transactions.
type ReportServicer interface {
	ProfitLoss(filter ReportFilter) (*ProfitLoss, error)
	ByCompany(filter ReportFilter) ([]DimensionRow, error)
	ByClient(filter ReportFilter) ([]DimensionRow, error)
	ByCategory(filter ReportFilter) ([]DimensionRow, error)
	ByBankAccount(filter ReportFilter) ([]BankAccountRow, error)
	ExportCSV(w io.Writer, filter ReportFilter) error
	ExportPDF(w io.Writer, filter ReportFilter) error
}

// BalanceDrift compares an account's stored balance with the balance implied
// by its opening balance and approved transactions.
type BalanceDrift struct {
	AccountID   string
	AccountName string
	Stored      decimal.Decimal
	Expected    decimal.Decimal
}

// Drift is Stored minus Expected.
func (d BalanceDrift) Drift() decimal.Decimal { return d.Stored.Sub(d.Expected) }

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
