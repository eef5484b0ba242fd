package store

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

type gormStore struct {
	db   *gorm.DB
	inTx bool
}

// New returns a LedgerStore backed by db.
func New(db *gorm.DB) LedgerStore {
	return &gormStore{db: db}
}

func (s *gormStore) InTx(fn func(LedgerStore) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, inTx: true})
	})
}

// locked returns a query that takes a row lock when running inside InTx.
// SQLite has no row locks; its single connection already serializes writers.
func (s *gormStore) locked() *gorm.DB {
	if s.inTx && s.db.Dialector.Name() != "sqlite" {
		return s.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return s.db
}

func first[T any](q *gorm.DB, id string) (*T, error) {
	var row T
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *gormStore) GetAccount(id string) (*models.BankAccount, error) {
	return first[models.BankAccount](s.locked(), id)
}

func (s *gormStore) SetAccountBalance(id string, balance decimal.Decimal) error {
	result := s.db.Model(&models.BankAccount{}).
		Where("id = ?", id).
		Update("current_balance", balance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListAccounts() ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	if err := s.db.Order("account_name ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *gormStore) GetTransaction(id string) (*models.Transaction, error) {
	return first[models.Transaction](s.locked(), id)
}

func (s *gormStore) CreateTransaction(tx *models.Transaction) error {
	return s.db.Create(tx).Error
}

func (s *gormStore) UpdateTransaction(tx *models.Transaction) error {
	return s.db.Save(tx).Error
}

// SetTransactionStatus moves a transaction from one status to another only if
// it is still in the from status.
func (s *gormStore) SetTransactionStatus(id string, from, to models.TransactionStatus) error {
	result := s.db.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (s *gormStore) DeleteTransaction(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTransactions returns the matching rows, newest first unless the filter
// asks otherwise, together with the total match count. A nil page returns all rows.
func (s *gormStore) ListTransactions(filter TransactionFilter, page *pagination.PageRequest) ([]models.Transaction, int64, error) {
	base := s.db.Model(&models.Transaction{})
	if filter.IncludeDeleted {
		base = base.Unscoped()
	}
	base = applyFilter(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "transaction_date DESC, id DESC"
	if filter.OldestFirst {
		order = "transaction_date ASC, id ASC"
	}
	q := base.Order(order)
	if page != nil {
		page.Defaults()
		q = q.Scopes(pagination.Paginate(*page))
	}

	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func applyFilter(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.CompanyID != nil {
		q = q.Where("company_id = ?", *f.CompanyID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.BankAccountID != nil {
		q = q.Where("(from_bank_account_id = ? OR to_bank_account_id = ?)", *f.BankAccountID, *f.BankAccountID)
	}
	if f.From != nil {
		q = q.Where("transaction_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("transaction_date <= ?", *f.To)
	}
	return q
}

func (s *gormStore) GetCompany(id string) (*models.Company, error) {
	return first[models.Company](s.db, id)
}

func (s *gormStore) GetCategory(id string) (*models.Category, error) {
	return first[models.Category](s.db, id)
}

func (s *gormStore) GetClient(id string) (*models.Client, error) {
	return first[models.Client](s.db, id)
}

type namedRow struct {
	ID   string
	Name string
}

func (s *gormStore) names(model any, column string) (map[string]string, error) {
	var rows []namedRow
	if err := s.db.Model(model).Unscoped().Select("id, " + column + " AS name").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Name
	}
	return out, nil
}

// LookupNames loads id-to-name maps for every reporting dimension, including
// soft-deleted rows so historical transactions still resolve.
func (s *gormStore) LookupNames() (*Names, error) {
	var (
		n   Names
		err error
	)
	if n.Companies, err = s.names(&models.Company{}, "name"); err != nil {
		return nil, err
	}
	if n.Categories, err = s.names(&models.Category{}, "name"); err != nil {
		return nil, err
	}
	if n.Clients, err = s.names(&models.Client{}, "name"); err != nil {
		return nil, err
	}
	if n.BankAccounts, err = s.names(&models.BankAccount{}, "account_name"); err != nil {
		return nil, err
	}
	return &n, nil
}
