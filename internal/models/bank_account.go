package models

import "github.com/shopspring/decimal"

// BankAccount holds a running balance that only moves when a transaction is
// approved. InitialBalance is fixed at creation.
type BankAccount struct {
	Base
	AccountName    string          `gorm:"not null" json:"account_name"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"initial_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_balance"`
	CreatedBy      string          `gorm:"type:uuid;not null;index" json:"created_by"`
}
