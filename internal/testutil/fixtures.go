package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bizledger/internal/models"
	"bizledger/internal/money"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestUser creates an active team member with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleTeam)
}

// CreateTestAdmin creates an active admin with a unique email.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleAdmin)
}

// CreateTestUserWithRole creates an active user with the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Name:         fmt.Sprintf("User %d", n),
		Email:        fmt.Sprintf("user%d@test.com", n),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCompany creates a company with a unique name.
func CreateTestCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()

	company := &models.Company{Name: fmt.Sprintf("Company %d", nextID())}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}
	return company
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{Name: fmt.Sprintf("Category %d", nextID())}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestClient creates a client with a unique name.
func CreateTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()

	n := nextID()
	client := &models.Client{
		Name:  fmt.Sprintf("Client %d", n),
		Email: fmt.Sprintf("client%d@test.com", n),
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestBankAccount creates a bank account whose current balance equals
// the given opening balance.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, createdBy string, balance string) *models.BankAccount {
	t.Helper()

	opening := Dec(balance)
	account := &models.BankAccount{
		AccountName:    fmt.Sprintf("Account %d", nextID()),
		InitialBalance: opening,
		CurrentBalance: opening,
		CreatedBy:      createdBy,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// TransactionOption customizes a fixture transaction.
type TransactionOption func(*models.Transaction)

// WithStatus sets the fixture's status. Fixtures never post to balances.
func WithStatus(status models.TransactionStatus) TransactionOption {
	return func(tx *models.Transaction) { tx.Status = status }
}

// WithDate sets the fixture's transaction date.
func WithDate(date time.Time) TransactionOption {
	return func(tx *models.Transaction) { tx.Date = date }
}

// WithCategory attaches a category.
func WithCategory(id string) TransactionOption {
	return func(tx *models.Transaction) { tx.CategoryID = &id }
}

// WithClient attaches a client.
func WithClient(id string) TransactionOption {
	return func(tx *models.Transaction) { tx.ClientID = &id }
}

// WithToAccount sets the destination of a transfer.
func WithToAccount(id string) TransactionOption {
	return func(tx *models.Transaction) { tx.ToBankAccountID = &id }
}

// WithDescription sets the description.
func WithDescription(desc string) TransactionOption {
	return func(tx *models.Transaction) { tx.Description = desc }
}

// CreateTestTransaction inserts a base-currency transaction row directly,
// bypassing the lifecycle engine. It defaults to pending.
func CreateTestTransaction(
	t *testing.T,
	db *gorm.DB,
	userID, companyID, fromAccountID string,
	txType models.TransactionType,
	amount string,
	opts ...TransactionOption,
) *models.Transaction {
	t.Helper()

	value := Dec(amount)
	tx := &models.Transaction{
		Type:              txType,
		Amount:            value,
		Currency:          money.INR,
		ConvertedAmount:   value,
		Status:            models.TransactionStatusPending,
		Date:              time.Now(),
		CompanyID:         companyID,
		FromBankAccountID: &fromAccountID,
		UserID:            userID,
	}
	for _, opt := range opts {
		opt(tx)
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// ReloadBankAccount re-reads an account's stored balances.
func ReloadBankAccount(t *testing.T, db *gorm.DB, id string) *models.BankAccount {
	t.Helper()

	var account models.BankAccount
	if err := db.First(&account, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload bank account %s: %v", id, err)
	}
	return &account
}
