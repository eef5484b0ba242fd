// Package store persists the ledger: bank accounts, transactions and the
// reference data transactions point at. Reads made inside InTx lock the rows
// they return until the surrounding database transaction ends.
package store

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrStatusConflict is returned by SetTransactionStatus when the row is no
	// longer in the expected status.
	ErrStatusConflict = errors.New("store: transaction status changed concurrently")
)

// TransactionFilter narrows ListTransactions. Nil fields are ignored.
// From and To are inclusive bounds on the transaction date.
type TransactionFilter struct {
	UserID         *string
	CompanyID      *string
	Status         *models.TransactionStatus
	Type           *models.TransactionType
	BankAccountID  *string
	From           *time.Time
	To             *time.Time
	OldestFirst    bool
	IncludeDeleted bool
}

// Names maps ids to display names for the dimensions reports group by.
type Names struct {
	Companies    map[string]string
	Categories   map[string]string
	Clients      map[string]string
	BankAccounts map[string]string
}

// LedgerStore is the persistence boundary of the lifecycle engine and the
// reporting aggregator.
type LedgerStore interface {
	// InTx runs fn against a store bound to a single database transaction.
	// Returning an error from fn rolls everything back.
	InTx(fn func(LedgerStore) error) error

	GetAccount(id string) (*models.BankAccount, error)
	SetAccountBalance(id string, balance decimal.Decimal) error
	ListAccounts() ([]models.BankAccount, error)

	GetTransaction(id string) (*models.Transaction, error)
	CreateTransaction(tx *models.Transaction) error
	UpdateTransaction(tx *models.Transaction) error
	SetTransactionStatus(id string, from, to models.TransactionStatus) error
	DeleteTransaction(id string) error
	ListTransactions(filter TransactionFilter, page *pagination.PageRequest) ([]models.Transaction, int64, error)

	GetCompany(id string) (*models.Company, error)
	GetCategory(id string) (*models.Category, error)
	GetClient(id string) (*models.Client, error)
	LookupNames() (*Names, error)
}
