package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/pagination"
)

// bankAccountService handles bank account records. It never changes a
// balance after creation.
type bankAccountService struct {
	db *gorm.DB
}

// NewBankAccountService creates a new BankAccountServicer.
func NewBankAccountService(db *gorm.DB) BankAccountServicer {
	return &bankAccountService{db: db}
}

// CreateBankAccount opens an account whose current balance starts at the
// initial balance.
func (s *bankAccountService) CreateBankAccount(actor Actor, name string, initialBalance decimal.Decimal) (*models.BankAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "account_name", "account name is required")
	}
	if money.HasExcessPlaces(initialBalance, money.AmountPlaces) {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "initial_balance", "initial balance must have at most 2 decimal places")
	}

	account := &models.BankAccount{
		AccountName:    name,
		InitialBalance: initialBalance,
		CurrentBalance: initialBalance,
		CreatedBy:      actor.UserID,
	}
	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Storage(err)
	}
	return account, nil
}

func (s *bankAccountService) ListBankAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error) {
	return listPage[models.BankAccount](s.db, page, "account_name ASC")
}

func (s *bankAccountService) GetBankAccountByID(id string) (*models.BankAccount, error) {
	return findByID[models.BankAccount](s.db, id, apperrors.ErrBankAccountNotFound)
}

// RenameBankAccount changes only the display name.
func (s *bankAccountService) RenameBankAccount(id, name string) (*models.BankAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "account_name", "account name is required")
	}

	account, err := s.GetBankAccountByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(account).Update("account_name", name).Error; err != nil {
		return nil, apperrors.Storage(err)
	}
	account.AccountName = name
	return account, nil
}

// DeleteBankAccount deletes an account no transaction references.
func (s *bankAccountService) DeleteBankAccount(id string) error {
	account, err := s.GetBankAccountByID(id)
	if err != nil {
		return err
	}
	if err := ensureUnreferenced(s.db, apperrors.ErrBankAccountInUse,
		"from_bank_account_id = ? OR to_bank_account_id = ?", id, id); err != nil {
		return err
	}
	return apperrors.Storage(s.db.Delete(account).Error)
}
