package models

import (
	"time"

	"github.com/shopspring/decimal"

	"bizledger/internal/money"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// TransactionStatus is the approval state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusRejected TransactionStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusApproved, TransactionStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusApproved || s == TransactionStatusRejected
}

// Transaction represents a financial transaction in the system.
// ConvertedAmount is always Amount expressed in the base currency.
type Transaction struct {
	Base
	Type            TransactionType   `gorm:"type:varchar(16);not null" json:"type"`
	Amount          decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency        money.Currency    `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	ConversionRate  *decimal.Decimal  `gorm:"type:decimal(10,4)" json:"conversion_rate,omitempty"`
	ConvertedAmount decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"converted_amount"`
	Status          TransactionStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	Description     string            `json:"description"`
	Date            time.Time         `gorm:"column:transaction_date;not null;index" json:"transaction_date"`

	CompanyID         string  `gorm:"type:uuid;not null;index" json:"company_id"`
	CategoryID        *string `gorm:"type:uuid;index" json:"category_id,omitempty"`
	ClientID          *string `gorm:"type:uuid;index" json:"client_id,omitempty"`
	FromBankAccountID *string `gorm:"type:uuid;index" json:"from_bank_account_id,omitempty"`
	ToBankAccountID   *string `gorm:"type:uuid;index" json:"to_bank_account_id,omitempty"`
	UserID            string  `gorm:"type:uuid;not null;index" json:"user_id"`
}

// IsPending reports whether the transaction can still be edited, approved or rejected.
func (t *Transaction) IsPending() bool { return t.Status == TransactionStatusPending }
