package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/logger"
	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/pagination"
	"bizledger/internal/store"
)

// transactionService runs the transaction lifecycle on top of a LedgerStore.
type transactionService struct {
	store store.LedgerStore
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(ledger store.LedgerStore) TransactionServicer {
	return &transactionService{store: ledger}
}

// CreateTransaction submits a transaction. Team submissions wait for approval;
// admin submissions are approved and posted in the same database transaction.
func (s *transactionService) CreateTransaction(actor Actor, in TransactionInput) (*models.Transaction, error) {
	tx := &models.Transaction{
		Type:              in.Type,
		Amount:            in.Amount,
		Currency:          in.Currency,
		ConversionRate:    in.ConversionRate,
		Description:       in.Description,
		CompanyID:         in.CompanyID,
		CategoryID:        optionalRef(in.CategoryID),
		ClientID:          optionalRef(in.ClientID),
		FromBankAccountID: optionalRef(in.FromBankAccountID),
		ToBankAccountID:   optionalRef(in.ToBankAccountID),
		Status:            models.TransactionStatusPending,
		UserID:            actor.UserID,
	}
	if tx.Currency == "" {
		tx.Currency = money.Base
	}
	if in.Date != nil && !in.Date.IsZero() {
		tx.Date = in.Date.UTC()
	} else {
		tx.Date = time.Now().UTC()
	}

	if err := validateTransaction(tx); err != nil {
		return nil, err
	}

	err := s.store.InTx(func(st store.LedgerStore) error {
		if err := checkReferences(st, tx); err != nil {
			return err
		}
		if actor.IsAdmin() {
			tx.Status = models.TransactionStatusApproved
		}
		if err := st.CreateTransaction(tx); err != nil {
			return apperrors.Storage(err)
		}
		if tx.Status == models.TransactionStatusApproved {
			return post(st, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("transaction created",
		"transaction_id", tx.ID,
		"user_id", actor.UserID,
		"status", tx.Status,
		"converted_amount", money.Format(tx.ConvertedAmount),
	)
	return tx, nil
}

// UpdateTransaction edits a pending transaction and recomputes its converted
// amount. Balances are never touched.
func (s *transactionService) UpdateTransaction(actor Actor, id string, in TransactionUpdate) (*models.Transaction, error) {
	var tx *models.Transaction
	err := s.store.InTx(func(st store.LedgerStore) error {
		var err error
		tx, err = loadVisible(st, actor, id)
		if err != nil {
			return err
		}
		if !tx.IsPending() {
			return apperrors.ErrNotPending
		}

		applyUpdate(tx, in)
		if err := validateTransaction(tx); err != nil {
			return err
		}
		if err := checkReferences(st, tx); err != nil {
			return err
		}
		return apperrors.Storage(st.UpdateTransaction(tx))
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ApproveTransaction moves a pending transaction to approved and posts it.
// The status flip is conditional on the row still being pending, so of two
// concurrent approvals exactly one posts.
func (s *transactionService) ApproveTransaction(actor Actor, id string) (*models.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminRequired
	}

	var tx *models.Transaction
	err := s.store.InTx(func(st store.LedgerStore) error {
		var err error
		tx, err = transition(st, id, models.TransactionStatusApproved)
		if err != nil {
			return err
		}
		return post(st, tx)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("transaction approved",
		"transaction_id", tx.ID,
		"approved_by", actor.UserID,
		"type", tx.Type,
		"converted_amount", money.Format(tx.ConvertedAmount),
	)
	return tx, nil
}

// RejectTransaction moves a pending transaction to rejected. No balance changes.
func (s *transactionService) RejectTransaction(actor Actor, id string) (*models.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminRequired
	}

	var tx *models.Transaction
	err := s.store.InTx(func(st store.LedgerStore) error {
		var err error
		tx, err = transition(st, id, models.TransactionStatusRejected)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("transaction rejected", "transaction_id", tx.ID, "rejected_by", actor.UserID)
	return tx, nil
}

// DeleteTransaction removes a transaction in any status. Deleting an approved
// transaction leaves its posting in place.
func (s *transactionService) DeleteTransaction(actor Actor, id string) (*models.Transaction, error) {
	var tx *models.Transaction
	err := s.store.InTx(func(st store.LedgerStore) error {
		var err error
		tx, err = loadVisible(st, actor, id)
		if err != nil {
			return err
		}
		if err := st.DeleteTransaction(id); err != nil {
			return mapStoreErr(err, apperrors.ErrTransactionNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tx.Status == models.TransactionStatusApproved {
		logger.Get().Warnw("approved transaction deleted; balances keep its posting",
			"transaction_id", tx.ID,
			"deleted_by", actor.UserID,
			"converted_amount", money.Format(tx.ConvertedAmount),
		)
	}
	return tx, nil
}

// GetTransactionByID returns a transaction. Team members only see their own.
func (s *transactionService) GetTransactionByID(actor Actor, id string) (*models.Transaction, error) {
	return loadVisible(s.store, actor, id)
}

// ListTransactions returns a filtered page of transactions, newest first.
// Team members are always restricted to their own submissions.
func (s *transactionService) ListTransactions(actor Actor, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	f := store.TransactionFilter{
		CompanyID: filter.CompanyID,
		Status:    filter.Status,
		Type:      filter.Type,
		From:      filter.FromDate,
		To:        filter.ToDate,
	}
	if !actor.IsAdmin() {
		f.UserID = &actor.UserID
	}

	rows, total, err := s.store.ListTransactions(f, &page)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	result := pagination.NewPageResponse(rows, page.Page, page.PageSize, total)
	return &result, nil
}

// transition locks a transaction, checks it is pending and flips its status.
func transition(st store.LedgerStore, id string, to models.TransactionStatus) (*models.Transaction, error) {
	tx, err := st.GetTransaction(id)
	if err != nil {
		return nil, mapStoreErr(err, apperrors.ErrTransactionNotFound)
	}
	if !tx.IsPending() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidState, "only pending transactions can be "+string(to))
	}
	if err := st.SetTransactionStatus(id, models.TransactionStatusPending, to); err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidState, "transaction was already processed")
		}
		return nil, apperrors.Storage(err)
	}
	tx.Status = to
	return tx, nil
}

// leg is one balance movement of a posting.
type leg struct {
	accountID string
	delta     decimal.Decimal
}

// post applies an approved transaction's converted amount to its bank
// accounts. It is the only code path that moves balances. Accounts are
// locked in id order so two transfers over the same pair cannot deadlock.
func post(st store.LedgerStore, tx *models.Transaction) error {
	legs, err := postingLegs(tx)
	if err != nil {
		return err
	}
	sort.Slice(legs, func(i, j int) bool { return legs[i].accountID < legs[j].accountID })

	for _, l := range legs {
		account, err := st.GetAccount(l.accountID)
		if err != nil {
			return mapStoreErr(err, apperrors.ErrBankAccountNotFound)
		}
		balance := account.CurrentBalance.Add(l.delta)
		if err := st.SetAccountBalance(account.ID, balance); err != nil {
			return mapStoreErr(err, apperrors.ErrBankAccountNotFound)
		}
	}
	return nil
}

func postingLegs(tx *models.Transaction) ([]leg, error) {
	amount := tx.ConvertedAmount
	if tx.FromBankAccountID == nil {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "from_bank_account_id", "bank account is required")
	}
	from := *tx.FromBankAccountID

	switch tx.Type {
	case models.TransactionTypeIncome:
		return []leg{{from, amount}}, nil
	case models.TransactionTypeExpense:
		return []leg{{from, amount.Neg()}}, nil
	case models.TransactionTypeTransfer:
		if tx.ToBankAccountID == nil {
			return nil, apperrors.WithField(apperrors.ErrInvalidInput, "to_bank_account_id", "destination account is required for transfers")
		}
		return []leg{{from, amount.Neg()}, {*tx.ToBankAccountID, amount}}, nil
	}
	return nil, apperrors.WithField(apperrors.ErrInvalidInput, "type", "invalid transaction type")
}

// validateTransaction checks a transaction's shape and sets its converted amount.
func validateTransaction(tx *models.Transaction) error {
	if !tx.Type.Valid() {
		return apperrors.WithField(apperrors.ErrInvalidInput, "type", "type must be income, expense or transfer")
	}
	if !tx.Amount.IsPositive() {
		return apperrors.WithField(apperrors.ErrInvalidInput, "amount", "amount must be greater than zero")
	}
	if money.HasExcessPlaces(tx.Amount, money.AmountPlaces) {
		return apperrors.WithField(apperrors.ErrInvalidInput, "amount", "amount must have at most 2 decimal places")
	}
	if !tx.Currency.Valid() {
		return apperrors.WithField(apperrors.ErrInvalidInput, "currency", "unsupported currency")
	}
	if tx.Currency.IsBase() && tx.ConversionRate != nil {
		return apperrors.WithField(apperrors.ErrInvalidInput, "conversion_rate", "conversion rate is only allowed for foreign currency")
	}
	if !tx.Currency.IsBase() {
		if tx.ConversionRate == nil || !tx.ConversionRate.IsPositive() {
			return apperrors.ErrRateRequired
		}
		if money.HasExcessPlaces(*tx.ConversionRate, money.RatePlaces) {
			return apperrors.WithField(apperrors.ErrInvalidInput, "conversion_rate", "conversion rate must have at most 4 decimal places")
		}
	}
	if tx.CompanyID == "" {
		return apperrors.WithField(apperrors.ErrInvalidInput, "company_id", "company is required")
	}
	if tx.FromBankAccountID == nil {
		return apperrors.WithField(apperrors.ErrInvalidInput, "from_bank_account_id", "bank account is required")
	}

	if tx.Type == models.TransactionTypeTransfer {
		if tx.ToBankAccountID == nil {
			return apperrors.WithField(apperrors.ErrInvalidInput, "to_bank_account_id", "destination account is required for transfers")
		}
		if *tx.ToBankAccountID == *tx.FromBankAccountID {
			return apperrors.ErrSameAccountTransfer
		}
	} else if tx.ToBankAccountID != nil {
		return apperrors.WithField(apperrors.ErrInvalidInput, "to_bank_account_id", "destination account is only allowed for transfers")
	}

	converted, err := money.Convert(tx.Amount, tx.Currency, tx.ConversionRate)
	if err != nil {
		if errors.Is(err, money.ErrInvalidRate) {
			return apperrors.Wrap(apperrors.ErrRateRequired, err)
		}
		return apperrors.WithField(apperrors.ErrInvalidInput, "currency", err.Error())
	}
	tx.ConvertedAmount = converted
	return nil
}

// checkReferences verifies every id the transaction points at exists.
func checkReferences(st store.LedgerStore, tx *models.Transaction) error {
	if _, err := st.GetCompany(tx.CompanyID); err != nil {
		return mapStoreErr(err, apperrors.ErrCompanyNotFound)
	}
	if tx.CategoryID != nil {
		if _, err := st.GetCategory(*tx.CategoryID); err != nil {
			return mapStoreErr(err, apperrors.ErrCategoryNotFound)
		}
	}
	if tx.ClientID != nil {
		if _, err := st.GetClient(*tx.ClientID); err != nil {
			return mapStoreErr(err, apperrors.ErrClientNotFound)
		}
	}
	for _, id := range []*string{tx.FromBankAccountID, tx.ToBankAccountID} {
		if id == nil {
			continue
		}
		if _, err := st.GetAccount(*id); err != nil {
			return mapStoreErr(err, apperrors.ErrBankAccountNotFound)
		}
	}
	return nil
}

// loadVisible fetches a transaction the actor is allowed to see. Other users'
// transactions look missing to team members.
func loadVisible(st store.LedgerStore, actor Actor, id string) (*models.Transaction, error) {
	tx, err := st.GetTransaction(id)
	if err != nil {
		return nil, mapStoreErr(err, apperrors.ErrTransactionNotFound)
	}
	if !actor.IsAdmin() && tx.UserID != actor.UserID {
		return nil, apperrors.ErrTransactionNotFound
	}
	return tx, nil
}

func applyUpdate(tx *models.Transaction, in TransactionUpdate) {
	if in.Type != nil {
		tx.Type = *in.Type
	}
	if in.Amount != nil {
		tx.Amount = *in.Amount
	}
	if in.Currency != nil {
		tx.Currency = *in.Currency
		if tx.Currency.IsBase() && in.ConversionRate == nil {
			tx.ConversionRate = nil
		}
	}
	if in.ConversionRate != nil {
		rate := *in.ConversionRate
		tx.ConversionRate = &rate
	}
	if in.Description != nil {
		tx.Description = *in.Description
	}
	if in.Date != nil && !in.Date.IsZero() {
		tx.Date = in.Date.UTC()
	}
	if in.CompanyID != nil {
		tx.CompanyID = *in.CompanyID
	}
	if in.CategoryID != nil {
		tx.CategoryID = optionalRef(in.CategoryID)
	}
	if in.ClientID != nil {
		tx.ClientID = optionalRef(in.ClientID)
	}
	if in.FromBankAccountID != nil {
		tx.FromBankAccountID = optionalRef(in.FromBankAccountID)
	}
	if in.ToBankAccountID != nil {
		tx.ToBankAccountID = optionalRef(in.ToBankAccountID)
	}
}

// optionalRef treats an empty id as absent.
func optionalRef(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}

// mapStoreErr turns store.ErrNotFound into the given not-found error and any
// other failure into a storage error.
func mapStoreErr(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return apperrors.Storage(err)
}
