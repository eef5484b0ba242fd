package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		auditService:       auditService,
	}
}

// CreateTransactionRequest represents the request body for submitting a transaction
type CreateTransactionRequest struct {
	Type              string  `json:"type" binding:"required,transaction_type"`
	Amount            string  `json:"amount" binding:"required"`
	Currency          string  `json:"currency" binding:"omitempty,currency_code"`
	ConversionRate    *string `json:"conversion_rate"`
	Description       string  `json:"description" binding:"max=500"`
	Date              *string `json:"transaction_date"`
	CompanyID         string  `json:"company_id" binding:"required,uuid"`
	CategoryID        *string `json:"category_id" binding:"omitnil,optional_uuid"`
	ClientID          *string `json:"client_id" binding:"omitnil,optional_uuid"`
	FromBankAccountID *string `json:"from_bank_account_id" binding:"omitnil,optional_uuid"`
	ToBankAccountID   *string `json:"to_bank_account_id" binding:"omitnil,optional_uuid"`
}

// UpdateTransactionRequest represents the request body for editing a pending
// transaction. Omitted fields are unchanged; an empty string clears an
// optional reference.
type UpdateTransactionRequest struct {
	Type              *string `json:"type" binding:"omitempty,transaction_type"`
	Amount            *string `json:"amount"`
	Currency          *string `json:"currency" binding:"omitempty,currency_code"`
	ConversionRate    *string `json:"conversion_rate"`
	Description       *string `json:"description" binding:"omitempty,max=500"`
	Date              *string `json:"transaction_date"`
	CompanyID         *string `json:"company_id" binding:"omitempty,uuid"`
	CategoryID        *string `json:"category_id" binding:"omitnil,optional_uuid"`
	ClientID          *string `json:"client_id" binding:"omitnil,optional_uuid"`
	FromBankAccountID *string `json:"from_bank_account_id" binding:"omitempty,uuid"`
	ToBankAccountID   *string `json:"to_bank_account_id" binding:"omitnil,optional_uuid"`
}

func (r CreateTransactionRequest) toInput() (services.TransactionInput, error) {
	amount, err := parseDecimal(r.Amount, money.AmountPlaces, "amount")
	if err != nil {
		return services.TransactionInput{}, err
	}
	rate, err := optionalRate(r.ConversionRate)
	if err != nil {
		return services.TransactionInput{}, err
	}
	date, err := optionalDate(r.Date)
	if err != nil {
		return services.TransactionInput{}, err
	}
	return services.TransactionInput{
		Type:              models.TransactionType(r.Type),
		Amount:            amount,
		Currency:          money.Currency(r.Currency),
		ConversionRate:    rate,
		Description:       r.Description,
		Date:              date,
		CompanyID:         r.CompanyID,
		CategoryID:        nonEmpty(r.CategoryID),
		ClientID:          nonEmpty(r.ClientID),
		FromBankAccountID: nonEmpty(r.FromBankAccountID),
		ToBankAccountID:   nonEmpty(r.ToBankAccountID),
	}, nil
}

func (r UpdateTransactionRequest) toUpdate() (services.TransactionUpdate, error) {
	var in services.TransactionUpdate
	if r.Type != nil {
		t := models.TransactionType(*r.Type)
		in.Type = &t
	}
	if r.Amount != nil {
		amount, err := parseDecimal(*r.Amount, money.AmountPlaces, "amount")
		if err != nil {
			return in, err
		}
		in.Amount = &amount
	}
	if r.Currency != nil {
		cur := money.Currency(*r.Currency)
		in.Currency = &cur
	}
	rate, err := optionalRate(r.ConversionRate)
	if err != nil {
		return in, err
	}
	in.ConversionRate = rate
	date, err := optionalDate(r.Date)
	if err != nil {
		return in, err
	}
	in.Date = date
	in.Description = r.Description
	in.CompanyID = r.CompanyID
	in.CategoryID = r.CategoryID
	in.ClientID = r.ClientID
	in.FromBankAccountID = r.FromBankAccountID
	in.ToBankAccountID = r.ToBankAccountID
	return in, nil
}

func optionalRate(s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	rate, err := parseDecimal(*s, money.RatePlaces, "conversion_rate")
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func optionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(*s)
	if err != nil {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "transaction_date", err.Error())
	}
	return &t, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// CreateTransaction handles the submission of a new transaction
// @Summary     Submit a transaction
// @Description Team members submit pending transactions. An admin's own submission is approved and posted immediately.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Referenced entity not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.CreateTransaction(actor, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, services.AuditCreateTransaction, "transaction", tx.ID, c.ClientIP(),
		map[string]interface{}{
			"type":             tx.Type,
			"amount":           money.Format(tx.Amount),
			"currency":         tx.Currency,
			"converted_amount": money.Format(tx.ConvertedAmount),
			"status":           tx.Status,
		})

	c.JSON(http.StatusCreated, gin.H{"transaction": newTransactionResponse(tx)})
}

// ListTransactions returns transactions visible to the caller
// @Summary     List transactions
// @Description Admins see every transaction; team members see their own. Newest first.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       company_id query string false "Filter by company ID"
// @Param       status     query string false "Filter by status (pending, approved, rejected)"
// @Param       type       query string false "Filter by type (income, expense, transfer)"
// @Param       start_date query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "Filter by end date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[TransactionResponse] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(actor, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, func(t models.Transaction) TransactionResponse {
		return newTransactionResponse(&t)
	}))
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	from, to, err := parseDateRange(c)
	if err != nil {
		return filter, err
	}
	filter.FromDate = from
	filter.ToDate = to

	if v := c.Query("status"); v != "" {
		status := models.TransactionStatus(v)
		if !status.Valid() {
			return filter, apperrors.WithField(apperrors.ErrInvalidInput, "status", "status must be pending, approved or rejected")
		}
		filter.Status = &status
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.Valid() {
			return filter, apperrors.WithField(apperrors.ErrInvalidInput, "type", "type must be income, expense or transfer")
		}
		filter.Type = &txType
	}

	filter.CompanyID, err = optionalIDQuery(c, "company_id")
	return filter, err
}

// GetTransaction returns a single transaction
// @Summary     Get transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransactionByID(actor, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(tx)})
}

// UpdateTransaction edits a pending transaction
// @Summary     Update transaction
// @Description Only pending transactions can be edited, by their submitter or an admin
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} TransactionResponse "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Transaction is not pending"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	in, err := req.toUpdate()
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.UpdateTransaction(actor, id, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, services.AuditUpdateTransaction, "transaction", tx.ID, c.ClientIP(),
		map[string]interface{}{
			"amount":           money.Format(tx.Amount),
			"currency":         tx.Currency,
			"converted_amount": money.Format(tx.ConvertedAmount),
		})

	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(tx)})
}

// DeleteTransaction soft-deletes a transaction
// @Summary     Delete transaction
// @Description Deleting an approved transaction does not reverse its balance changes
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.DeleteTransaction(actor, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, services.AuditDeleteTransaction, "transaction", tx.ID, c.ClientIP(),
		map[string]interface{}{"status": tx.Status})

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// ApproveTransaction approves a pending transaction and posts it to its bank accounts
// @Summary     Approve transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction approved"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Transaction or bank account not found"
// @Failure     409 {object} ErrorResponse "Transaction is not pending"
// @Router      /transactions/{id}/approve [post]
func (h *TransactionHandler) ApproveTransaction(c *gin.Context) {
	h.decide(c, h.transactionService.ApproveTransaction, services.AuditApproveTransaction)
}

// RejectTransaction rejects a pending transaction
// @Summary     Reject transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction rejected"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Transaction is not pending"
// @Router      /transactions/{id}/reject [post]
func (h *TransactionHandler) RejectTransaction(c *gin.Context) {
	h.decide(c, h.transactionService.RejectTransaction, services.AuditRejectTransaction)
}

func (h *TransactionHandler) decide(c *gin.Context, fn func(services.Actor, string) (*models.Transaction, error), action string) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := fn(actor, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, action, "transaction", tx.ID, c.ClientIP(),
		map[string]interface{}{
			"status":           tx.Status,
			"converted_amount": money.Format(tx.ConvertedAmount),
		})

	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(tx)})
}
