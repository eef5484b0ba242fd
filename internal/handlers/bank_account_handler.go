package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// BankAccountHandler handles bank-account-related requests
type BankAccountHandler struct {
	bankAccountService services.BankAccountServicer
}

// NewBankAccountHandler creates a new BankAccountHandler
func NewBankAccountHandler(bankAccountService services.BankAccountServicer) *BankAccountHandler {
	return &BankAccountHandler{bankAccountService: bankAccountService}
}

// CreateBankAccountRequest represents the request body for creating a bank account
type CreateBankAccountRequest struct {
	AccountName    string `json:"account_name" binding:"required,max=100"`
	InitialBalance string `json:"initial_balance" binding:"omitempty,decimal_string=2"`
}

// RenameBankAccountRequest represents the request body for renaming a bank account
type RenameBankAccountRequest struct {
	AccountName string `json:"account_name" binding:"required,max=100"`
}

// CreateBankAccount handles the creation of a new bank account
// @Summary     Create bank account
// @Description The current balance starts at the initial balance and only moves when transactions are approved
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBankAccountRequest true "Bank account data"
// @Success     201 {object} BankAccountResponse "Bank account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /bank-accounts [post]
func (h *BankAccountHandler) CreateBankAccount(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	balance := decimal.Zero
	if req.InitialBalance != "" {
		balance, err = parseDecimal(req.InitialBalance, money.AmountPlaces, "initial_balance")
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	account, err := h.bankAccountService.CreateBankAccount(actor, req.AccountName, balance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bank_account": newBankAccountResponse(account)})
}

// ListBankAccounts returns bank accounts ordered by name
// @Summary     List bank accounts
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[BankAccountResponse] "Paginated bank accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /bank-accounts [get]
func (h *BankAccountHandler) ListBankAccounts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.bankAccountService.ListBankAccounts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, func(a models.BankAccount) BankAccountResponse {
		return newBankAccountResponse(&a)
	}))
}

// GetBankAccount returns a single bank account with its current balance
// @Summary     Get bank account
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank account ID"
// @Success     200 {object} BankAccountResponse "Bank account"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Router      /bank-accounts/{id} [get]
func (h *BankAccountHandler) GetBankAccount(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.bankAccountService.GetBankAccountByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_account": newBankAccountResponse(account)})
}

// RenameBankAccount changes a bank account's name. Balances cannot be edited.
// @Summary     Rename bank account
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Bank account ID"
// @Param       request body RenameBankAccountRequest true "New name"
// @Success     200 {object} BankAccountResponse "Bank account updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Router      /bank-accounts/{id} [put]
func (h *BankAccountHandler) RenameBankAccount(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	account, err := h.bankAccountService.RenameBankAccount(id, req.AccountName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_account": newBankAccountResponse(account)})
}

// DeleteBankAccount deletes a bank account not referenced by any transaction
// @Summary     Delete bank account
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank account ID"
// @Success     200 {object} map[string]string "Bank account deleted"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Failure     409 {object} ErrorResponse "Bank account in use"
// @Router      /bank-accounts/{id} [delete]
func (h *BankAccountHandler) DeleteBankAccount(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bankAccountService.DeleteBankAccount(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bank account deleted successfully"})
}
