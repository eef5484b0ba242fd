package handlers

import (
	"time"

	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/services"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// BankAccountResponse represents a bank account. Balances are fixed 2-dp strings.
type BankAccountResponse struct {
	ID             string    `json:"id"`
	AccountName    string    `json:"account_name"`
	InitialBalance string    `json:"initial_balance"`
	CurrentBalance string    `json:"current_balance"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func newBankAccountResponse(a *models.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:             a.ID,
		AccountName:    a.AccountName,
		InitialBalance: money.Format(a.InitialBalance),
		CurrentBalance: money.Format(a.CurrentBalance),
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}

// TransactionResponse represents a transaction in the response
type TransactionResponse struct {
	ID                string                   `json:"id"`
	Type              models.TransactionType   `json:"type"`
	Amount            string                   `json:"amount"`
	Currency          money.Currency           `json:"currency"`
	ConversionRate    *string                  `json:"conversion_rate,omitempty"`
	ConvertedAmount   string                   `json:"converted_amount"`
	Status            models.TransactionStatus `json:"status"`
	Description       string                   `json:"description"`
	TransactionDate   time.Time                `json:"transaction_date"`
	CompanyID         string                   `json:"company_id"`
	CategoryID        *string                  `json:"category_id,omitempty"`
	ClientID          *string                  `json:"client_id,omitempty"`
	FromBankAccountID *string                  `json:"from_bank_account_id,omitempty"`
	ToBankAccountID   *string                  `json:"to_bank_account_id,omitempty"`
	UserID            string                   `json:"user_id"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

func newTransactionResponse(t *models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                t.ID,
		Type:              t.Type,
		Amount:            money.Format(t.Amount),
		Currency:          t.Currency,
		ConvertedAmount:   money.Format(t.ConvertedAmount),
		Status:            t.Status,
		Description:       t.Description,
		TransactionDate:   t.Date,
		CompanyID:         t.CompanyID,
		CategoryID:        t.CategoryID,
		ClientID:          t.ClientID,
		FromBankAccountID: t.FromBankAccountID,
		ToBankAccountID:   t.ToBankAccountID,
		UserID:            t.UserID,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
	if t.ConversionRate != nil {
		rate := t.ConversionRate.StringFixed(money.RatePlaces)
		resp.ConversionRate = &rate
	}
	return resp
}

// ProfitLossResponse is the overall income statement.
type ProfitLossResponse struct {
	Income    string `json:"income"`
	Expense   string `json:"expense"`
	NetProfit string `json:"net_profit"`
}

// DimensionRowResponse is one row of a by-company, by-client or by-category report.
type DimensionRowResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Income    string `json:"income"`
	Expense   string `json:"expense"`
	NetProfit string `json:"net_profit"`
}

// BankAccountRowResponse is one row of the by-bank-account report.
type BankAccountRowResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Income      string `json:"income"`
	Expense     string `json:"expense"`
	TransferIn  string `json:"transfer_in"`
	TransferOut string `json:"transfer_out"`
	Net         string `json:"net"`
}

func newDimensionRows(rows []services.DimensionRow) []DimensionRowResponse {
	out := make([]DimensionRowResponse, len(rows))
	for i, r := range rows {
		out[i] = DimensionRowResponse{
			ID:        r.ID,
			Name:      r.Name,
			Income:    money.Format(r.Income),
			Expense:   money.Format(r.Expense),
			NetProfit: money.Format(r.NetProfit),
		}
	}
	return out
}

func newBankAccountRows(rows []services.BankAccountRow) []BankAccountRowResponse {
	out := make([]BankAccountRowResponse, len(rows))
	for i, r := range rows {
		out[i] = BankAccountRowResponse{
			ID:          r.ID,
			Name:        r.Name,
			Income:      money.Format(r.Income),
			Expense:     money.Format(r.Expense),
			TransferIn:  money.Format(r.TransferIn),
			TransferOut: money.Format(r.TransferOut),
			Net:         money.Format(r.Net),
		}
	}
	return out
}
