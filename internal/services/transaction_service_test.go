package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/pagination"
	"bizledger/internal/store"
	"bizledger/internal/testutil"
)

// ledgerFixture is the reference data most lifecycle tests need.
type ledgerFixture struct {
	db      *gorm.DB
	svc     TransactionServicer
	admin   Actor
	member  Actor
	company *models.Company
	acctX   *models.BankAccount
	acctY   *models.BankAccount
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	admin := testutil.CreateTestAdmin(t, db)
	member := testutil.CreateTestUser(t, db)
	return &ledgerFixture{
		db:      db,
		svc:     NewTransactionService(store.New(db)),
		admin:   Actor{UserID: admin.ID, Role: models.RoleAdmin},
		member:  Actor{UserID: member.ID, Role: models.RoleTeam},
		company: testutil.CreateTestCompany(t, db),
		acctX:   testutil.CreateTestBankAccount(t, db, admin.ID, "1000"),
		acctY:   testutil.CreateTestBankAccount(t, db, admin.ID, "500"),
	}
}

func (f *ledgerFixture) input(txType models.TransactionType, amount string) TransactionInput {
	in := TransactionInput{
		Type:              txType,
		Amount:            testutil.Dec(amount),
		Currency:          money.INR,
		CompanyID:         f.company.ID,
		FromBankAccountID: &f.acctX.ID,
	}
	if txType == models.TransactionTypeTransfer {
		in.ToBankAccountID = &f.acctY.ID
	}
	return in
}

func (f *ledgerFixture) balance(t *testing.T, acct *models.BankAccount) decimal.Decimal {
	t.Helper()
	return testutil.ReloadBankAccount(t, f.db, acct.ID).CurrentBalance
}

func decPtr(s string) *decimal.Decimal {
	d := testutil.Dec(s)
	return &d
}

func TestCreateTransaction(t *testing.T) {
	t.Run("team_member_creates_pending", func(t *testing.T) {
		f := newLedgerFixture(t)

		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "250"))
		testutil.AssertNoError(t, err)

		if tx.Status != models.TransactionStatusPending {
			t.Errorf("expected pending, got %s", tx.Status)
		}
		if tx.UserID != f.member.UserID {
			t.Errorf("expected submitter %s, got %s", f.member.UserID, tx.UserID)
		}
		testutil.AssertDecimal(t, "converted", tx.ConvertedAmount, "250")
		testutil.AssertDecimal(t, "untouched balance", f.balance(t, f.acctX), "1000")
	})

	t.Run("admin_creates_approved_and_posted", func(t *testing.T) {
		f := newLedgerFixture(t)

		tx, err := f.svc.CreateTransaction(f.admin, f.input(models.TransactionTypeExpense, "200"))
		testutil.AssertNoError(t, err)

		if tx.Status != models.TransactionStatusApproved {
			t.Errorf("expected approved, got %s", tx.Status)
		}
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "800")

		stored, err := f.svc.GetTransactionByID(f.admin, tx.ID)
		testutil.AssertNoError(t, err)
		if stored.Status != models.TransactionStatusApproved {
			t.Errorf("stored status should be approved, got %s", stored.Status)
		}
	})

	t.Run("foreign_currency_converted", func(t *testing.T) {
		f := newLedgerFixture(t)
		in := f.input(models.TransactionTypeIncome, "100")
		in.Currency = money.USD
		in.ConversionRate = decPtr("83.50")

		tx, err := f.svc.CreateTransaction(f.member, in)
		testutil.AssertNoError(t, err)

		if got := money.Format(tx.ConvertedAmount); got != "8350.00" {
			t.Errorf("expected 8350.00, got %s", got)
		}
	})

	t.Run("date_defaults_to_now", func(t *testing.T) {
		f := newLedgerFixture(t)
		before := time.Now().Add(-time.Second)

		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "1"))
		testutil.AssertNoError(t, err)

		if tx.Date.Before(before) {
			t.Errorf("expected date near now, got %v", tx.Date)
		}
	})

	t.Run("validation", func(t *testing.T) {
		f := newLedgerFixture(t)
		missing := "00000000-0000-0000-0000-000000000000"
		same := f.acctX.ID

		tests := []struct {
			name   string
			mutate func(*TransactionInput)
			code   string
			field  string
		}{
			{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }, "INVALID_INPUT", "amount"},
			{"negative amount", func(in *TransactionInput) { in.Amount = testutil.Dec("-5") }, "INVALID_INPUT", "amount"},
			{"three decimals", func(in *TransactionInput) { in.Amount = testutil.Dec("1.005") }, "INVALID_INPUT", "amount"},
			{"unknown type", func(in *TransactionInput) { in.Type = "refund" }, "INVALID_INPUT", "type"},
			{"unknown currency", func(in *TransactionInput) { in.Currency = "EUR" }, "INVALID_INPUT", "currency"},
			{"foreign without rate", func(in *TransactionInput) { in.Currency = money.USD }, "INVALID_INPUT", "conversion_rate"},
			{"foreign zero rate", func(in *TransactionInput) {
				in.Currency = money.USD
				in.ConversionRate = decPtr("0")
			}, "INVALID_INPUT", "conversion_rate"},
			{"rate with base currency", func(in *TransactionInput) { in.ConversionRate = decPtr("83.5") }, "INVALID_INPUT", "conversion_rate"},
			{"rate with five decimals", func(in *TransactionInput) {
				in.Currency = money.USD
				in.ConversionRate = decPtr("83.12345")
			}, "INVALID_INPUT", "conversion_rate"},
			{"missing company", func(in *TransactionInput) { in.CompanyID = "" }, "INVALID_INPUT", "company_id"},
			{"missing from account", func(in *TransactionInput) { in.FromBankAccountID = nil }, "INVALID_INPUT", "from_bank_account_id"},
			{"transfer without destination", func(in *TransactionInput) {
				in.Type = models.TransactionTypeTransfer
				in.ToBankAccountID = nil
			}, "INVALID_INPUT", "to_bank_account_id"},
			{"transfer to same account", func(in *TransactionInput) {
				in.Type = models.TransactionTypeTransfer
				in.ToBankAccountID = &same
			}, "INVALID_INPUT", "to_bank_account_id"},
			{"income with destination", func(in *TransactionInput) { in.ToBankAccountID = &f.acctY.ID }, "INVALID_INPUT", "to_bank_account_id"},
			{"unknown company", func(in *TransactionInput) { in.CompanyID = missing }, "COMPANY_NOT_FOUND", ""},
			{"unknown category", func(in *TransactionInput) { in.CategoryID = &missing }, "CATEGORY_NOT_FOUND", ""},
			{"unknown client", func(in *TransactionInput) { in.ClientID = &missing }, "CLIENT_NOT_FOUND", ""},
			{"unknown account", func(in *TransactionInput) { in.FromBankAccountID = &missing }, "BANK_ACCOUNT_NOT_FOUND", ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := f.input(models.TransactionTypeIncome, "100")
				tt.mutate(&in)

				_, err := f.svc.CreateTransaction(f.member, in)
				testutil.AssertAppError(t, err, tt.code)
				if tt.field != "" {
					testutil.AssertErrorField(t, err, tt.field)
				}
			})
		}

		var count int64
		f.db.Model(&models.Transaction{}).Count(&count)
		if count != 0 {
			t.Errorf("invalid submissions must not be stored, found %d", count)
		}
	})

	t.Run("admin_missing_destination_posts_nothing", func(t *testing.T) {
		f := newLedgerFixture(t)
		in := f.input(models.TransactionTypeTransfer, "100")
		gone := testutil.CreateTestBankAccount(t, f.db, f.admin.UserID, "0")
		in.ToBankAccountID = &gone.ID
		testutil.AssertNoError(t, f.db.Delete(gone).Error)

		_, err := f.svc.CreateTransaction(f.admin, in)
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_NOT_FOUND")
		testutil.AssertDecimal(t, "source untouched", f.balance(t, f.acctX), "1000")
	})
}

func TestApproveTransaction(t *testing.T) {
	t.Run("income_credits_account", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "250"))
		testutil.AssertNoError(t, err)

		approved, err := f.svc.ApproveTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)

		if approved.Status != models.TransactionStatusApproved {
			t.Errorf("expected approved, got %s", approved.Status)
		}
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1250")
	})

	t.Run("expense_debits_account", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeExpense, "99.99"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.ApproveTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "900.01")
	})

	t.Run("transfer_conserves_total", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeTransfer, "300"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.ApproveTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)

		x, y := f.balance(t, f.acctX), f.balance(t, f.acctY)
		testutil.AssertDecimal(t, "source", x, "700")
		testutil.AssertDecimal(t, "destination", y, "800")
		testutil.AssertDecimal(t, "total", x.Add(y), "1500")
	})

	t.Run("foreign_currency_posts_converted_amount", func(t *testing.T) {
		f := newLedgerFixture(t)
		in := f.input(models.TransactionTypeIncome, "10")
		in.Currency = money.USD
		in.ConversionRate = decPtr("83.3333")
		tx, err := f.svc.CreateTransaction(f.member, in)
		testutil.AssertNoError(t, err)

		_, err = f.svc.ApproveTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1833.33")
	})

	t.Run("team_member_forbidden", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "250"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.ApproveTransaction(f.member, tx.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1000")
	})

	t.Run("not_found", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := f.svc.ApproveTransaction(f.admin, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("twice_posts_once", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "250"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.ApproveTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)
		_, err = f.svc.ApproveTransaction(f.admin, tx.ID)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_STATE")

		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1250")
	})

	t.Run("rejected_cannot_be_approved", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "250"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.RejectTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)
		_, err = f.svc.ApproveTransaction(f.admin, tx.ID)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_STATE")

		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1000")
	})

	t.Run("missing_account_rolls_back", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeTransfer, "300"))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, f.db.Delete(&models.BankAccount{}, "id = ?", f.acctY.ID).Error)

		_, err = f.svc.ApproveTransaction(f.admin, tx.ID)
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_NOT_FOUND")

		testutil.AssertDecimal(t, "source untouched", f.balance(t, f.acctX), "1000")
		stored, err := f.svc.GetTransactionByID(f.admin, tx.ID)
		testutil.AssertNoError(t, err)
		if stored.Status != models.TransactionStatusPending {
			t.Errorf("status should roll back to pending, got %s", stored.Status)
		}
	})

	t.Run("concurrent_approvals_post_once", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "250"))
		testutil.AssertNoError(t, err)

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			conflicts int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.ApproveTransaction(f.admin, tx.ID)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					succeeded++
				} else if errors.Is(err, apperrors.ErrInvalidState) {
					conflicts++
				}
			}()
		}
		wg.Wait()

		if succeeded != 1 || conflicts != workers-1 {
			t.Errorf("expected 1 success and %d conflicts, got %d and %d", workers-1, succeeded, conflicts)
		}
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1250")
	})
}

func TestRejectTransaction(t *testing.T) {
	t.Run("pending_to_rejected_without_posting", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeExpense, "100"))
		testutil.AssertNoError(t, err)

		rejected, err := f.svc.RejectTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)

		if rejected.Status != models.TransactionStatusRejected {
			t.Errorf("expected rejected, got %s", rejected.Status)
		}
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1000")
	})

	t.Run("approved_cannot_be_rejected", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.admin, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.RejectTransaction(f.admin, tx.ID)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_STATE")
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1100")
	})

	t.Run("team_member_forbidden", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.RejectTransaction(f.member, tx.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("recomputes_converted_amount", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		usd := money.USD
		updated, err := f.svc.UpdateTransaction(f.member, tx.ID, TransactionUpdate{
			Currency:       &usd,
			ConversionRate: decPtr("80"),
		})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, "converted", updated.ConvertedAmount, "8000")
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1000")
	})

	t.Run("switch_to_base_clears_rate", func(t *testing.T) {
		f := newLedgerFixture(t)
		in := f.input(models.TransactionTypeIncome, "100")
		in.Currency = money.USD
		in.ConversionRate = decPtr("83.5")
		tx, err := f.svc.CreateTransaction(f.member, in)
		testutil.AssertNoError(t, err)

		inr := money.INR
		updated, err := f.svc.UpdateTransaction(f.member, tx.ID, TransactionUpdate{Currency: &inr})
		testutil.AssertNoError(t, err)

		if updated.ConversionRate != nil {
			t.Errorf("expected rate cleared, got %s", updated.ConversionRate)
		}
		testutil.AssertDecimal(t, "converted", updated.ConvertedAmount, "100")
	})

	t.Run("approved_is_immutable", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.admin, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		amount := testutil.Dec("5")
		_, err = f.svc.UpdateTransaction(f.admin, tx.ID, TransactionUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_STATE")
	})

	t.Run("rejected_is_immutable", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)
		_, err = f.svc.RejectTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)

		desc := "late edit"
		_, err = f.svc.UpdateTransaction(f.member, tx.ID, TransactionUpdate{Description: &desc})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_STATE")
	})

	t.Run("revalidates_merged_shape", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		transfer := models.TransactionTypeTransfer
		_, err = f.svc.UpdateTransaction(f.member, tx.ID, TransactionUpdate{Type: &transfer})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		testutil.AssertErrorField(t, err, "to_bank_account_id")
	})

	t.Run("transfer_becomes_expense", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeTransfer, "100"))
		testutil.AssertNoError(t, err)

		expense := models.TransactionTypeExpense
		empty := ""
		_, err = f.svc.UpdateTransaction(f.member, tx.ID, TransactionUpdate{Type: &expense, ToBankAccountID: &empty})
		testutil.AssertNoError(t, err)

		var stored models.Transaction
		if err := f.db.First(&stored, "id = ?", tx.ID).Error; err != nil {
			t.Fatalf("failed to reload transaction: %v", err)
		}
		if stored.Type != models.TransactionTypeExpense || stored.ToBankAccountID != nil {
			t.Errorf("expected expense without destination, got %s to %v", stored.Type, stored.ToBankAccountID)
		}
	})

	t.Run("clear_optional_reference", func(t *testing.T) {
		f := newLedgerFixture(t)
		category := testutil.CreateTestCategory(t, f.db)
		in := f.input(models.TransactionTypeIncome, "100")
		in.CategoryID = &category.ID
		tx, err := f.svc.CreateTransaction(f.member, in)
		testutil.AssertNoError(t, err)

		empty := ""
		updated, err := f.svc.UpdateTransaction(f.member, tx.ID, TransactionUpdate{CategoryID: &empty})
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil {
			t.Errorf("expected category cleared, got %s", *updated.CategoryID)
		}
	})

	t.Run("other_members_cannot_see_it", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		other := testutil.CreateTestUser(t, f.db)
		desc := "hijack"
		_, err = f.svc.UpdateTransaction(Actor{UserID: other.ID, Role: models.RoleTeam}, tx.ID, TransactionUpdate{Description: &desc})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("owner_deletes_pending", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.DeleteTransaction(f.member, tx.ID)
		testutil.AssertNoError(t, err)

		_, err = f.svc.GetTransactionByID(f.member, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("approved_keeps_posting", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.admin, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		deleted, err := f.svc.DeleteTransaction(f.admin, tx.ID)
		testutil.AssertNoError(t, err)
		if deleted.Status != models.TransactionStatusApproved {
			t.Errorf("expected the deleted row's status, got %s", deleted.Status)
		}
		testutil.AssertDecimal(t, "balance", f.balance(t, f.acctX), "1100")
	})

	t.Run("other_member_cannot_delete", func(t *testing.T) {
		f := newLedgerFixture(t)
		tx, err := f.svc.CreateTransaction(f.admin, f.input(models.TransactionTypeIncome, "100"))
		testutil.AssertNoError(t, err)

		_, err = f.svc.DeleteTransaction(f.member, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestListTransactions(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeIncome, "10"))
	testutil.AssertNoError(t, err)
	_, err = f.svc.CreateTransaction(f.member, f.input(models.TransactionTypeExpense, "20"))
	testutil.AssertNoError(t, err)
	_, err = f.svc.CreateTransaction(f.admin, f.input(models.TransactionTypeIncome, "30"))
	testutil.AssertNoError(t, err)

	t.Run("member_sees_own", func(t *testing.T) {
		page, err := f.svc.ListTransactions(f.member, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2, got %d", page.TotalItems)
		}
	})

	t.Run("admin_sees_all", func(t *testing.T) {
		page, err := f.svc.ListTransactions(f.admin, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("expected 3, got %d", page.TotalItems)
		}
	})

	t.Run("status_filter", func(t *testing.T) {
		pending := models.TransactionStatusPending
		page, err := f.svc.ListTransactions(f.admin, pagination.PageRequest{}, TransactionFilter{Status: &pending})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 pending, got %d", page.TotalItems)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := f.svc.ListTransactions(f.admin, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d items, %d pages", len(page.Data), page.TotalPages)
		}
	})
}
