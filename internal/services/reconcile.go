package services

import (
	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/store"
)

// Reconcile recomputes every bank account's balance from its opening balance
// and all approved transactions, soft-deleted ones included since deletion
// does not reverse a posting. It returns only the accounts that drifted.
func Reconcile(ledger store.LedgerStore) ([]BalanceDrift, error) {
	accounts, err := ledger.ListAccounts()
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	status := models.TransactionStatusApproved
	txs, _, err := ledger.ListTransactions(store.TransactionFilter{Status: &status, IncludeDeleted: true}, nil)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	expected := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		expected[a.ID] = a.InitialBalance
	}
	for i := range txs {
		legs, err := postingLegs(&txs[i])
		if err != nil {
			continue
		}
		for _, l := range legs {
			if bal, ok := expected[l.accountID]; ok {
				expected[l.accountID] = bal.Add(l.delta)
			}
		}
	}

	var drifts []BalanceDrift
	for _, a := range accounts {
		if !a.CurrentBalance.Equal(expected[a.ID]) {
			drifts = append(drifts, BalanceDrift{
				AccountID:   a.ID,
				AccountName: a.AccountName,
				Stored:      a.CurrentBalance,
				Expected:    expected[a.ID],
			})
		}
	}
	return drifts, nil
}
