package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/store"
)

// CSVHeader is the first line of every transaction export.
const CSVHeader = "Date,Type,Company,Category,Client,Amount,Currency,INR Amount,Description"

// pdfRowLimit caps the transaction table of a PDF statement.
const pdfRowLimit = 500

// reportService aggregates approved transactions read from the ledger store.
type reportService struct {
	store store.LedgerStore
}

// NewReportService creates a new ReportServicer.
func NewReportService(ledger store.LedgerStore) ReportServicer {
	return &reportService{store: ledger}
}

// approved loads every approved transaction matching the filter, oldest first.
func (s *reportService) approved(filter ReportFilter) ([]models.Transaction, error) {
	status := models.TransactionStatusApproved
	rows, _, err := s.store.ListTransactions(store.TransactionFilter{
		Status:      &status,
		CompanyID:   filter.CompanyID,
		From:        filter.From,
		To:          filter.To,
		OldestFirst: true,
	}, nil)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return rows, nil
}

func (s *reportService) load(filter ReportFilter) ([]models.Transaction, *store.Names, error) {
	txs, err := s.approved(filter)
	if err != nil {
		return nil, nil, err
	}
	names, err := s.store.LookupNames()
	if err != nil {
		return nil, nil, apperrors.Storage(err)
	}
	return txs, names, nil
}

// ProfitLoss totals income and expense. Transfers move money between
// accounts and do not count.
func (s *reportService) ProfitLoss(filter ReportFilter) (*ProfitLoss, error) {
	txs, err := s.approved(filter)
	if err != nil {
		return nil, err
	}
	pl := summarize(txs)
	return &pl, nil
}

func summarize(txs []models.Transaction) ProfitLoss {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			income = income.Add(tx.ConvertedAmount)
		case models.TransactionTypeExpense:
			expense = expense.Add(tx.ConvertedAmount)
		}
	}
	return ProfitLoss{Income: income, Expense: expense, NetProfit: income.Sub(expense)}
}

// ByCompany groups income and expense by company.
func (s *reportService) ByCompany(filter ReportFilter) ([]DimensionRow, error) {
	txs, names, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return groupBy(txs, names.Companies, func(tx *models.Transaction) *string { return &tx.CompanyID }), nil
}

// ByClient groups income and expense by client. Transactions without a
// client are left out.
func (s *reportService) ByClient(filter ReportFilter) ([]DimensionRow, error) {
	txs, names, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return groupBy(txs, names.Clients, func(tx *models.Transaction) *string { return tx.ClientID }), nil
}

// ByCategory groups income and expense by category.
func (s *reportService) ByCategory(filter ReportFilter) ([]DimensionRow, error) {
	txs, names, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return groupBy(txs, names.Categories, func(tx *models.Transaction) *string { return tx.CategoryID }), nil
}

func groupBy(txs []models.Transaction, names map[string]string, key func(*models.Transaction) *string) []DimensionRow {
	rows := make(map[string]*DimensionRow)
	for i := range txs {
		tx := &txs[i]
		id := key(tx)
		if id == nil || *id == "" {
			continue
		}
		row, ok := rows[*id]
		if !ok {
			row = &DimensionRow{ID: *id, Name: names[*id], Income: decimal.Zero, Expense: decimal.Zero}
			rows[*id] = row
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			row.Income = row.Income.Add(tx.ConvertedAmount)
		case models.TransactionTypeExpense:
			row.Expense = row.Expense.Add(tx.ConvertedAmount)
		}
	}

	out := make([]DimensionRow, 0, len(rows))
	for _, row := range rows {
		if row.Income.IsZero() && row.Expense.IsZero() {
			continue
		}
		row.NetProfit = row.Income.Sub(row.Expense)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return byName(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return out
}

// ByBankAccount reports every movement per account, transfers included.
func (s *reportService) ByBankAccount(filter ReportFilter) ([]BankAccountRow, error) {
	txs, names, err := s.load(filter)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*BankAccountRow)
	get := func(id string) *BankAccountRow {
		row, ok := rows[id]
		if !ok {
			row = &BankAccountRow{
				ID: id, Name: names.BankAccounts[id],
				Income: decimal.Zero, Expense: decimal.Zero,
				TransferIn: decimal.Zero, TransferOut: decimal.Zero,
			}
			rows[id] = row
		}
		return row
	}

	for _, tx := range txs {
		if tx.FromBankAccountID == nil {
			continue
		}
		from := get(*tx.FromBankAccountID)
		switch tx.Type {
		case models.TransactionTypeIncome:
			from.Income = from.Income.Add(tx.ConvertedAmount)
		case models.TransactionTypeExpense:
			from.Expense = from.Expense.Add(tx.ConvertedAmount)
		case models.TransactionTypeTransfer:
			from.TransferOut = from.TransferOut.Add(tx.ConvertedAmount)
			if tx.ToBankAccountID != nil {
				to := get(*tx.ToBankAccountID)
				to.TransferIn = to.TransferIn.Add(tx.ConvertedAmount)
			}
		}
	}

	out := make([]BankAccountRow, 0, len(rows))
	for _, row := range rows {
		if row.Income.IsZero() && row.Expense.IsZero() && row.TransferIn.IsZero() && row.TransferOut.IsZero() {
			continue
		}
		row.Net = row.Income.Sub(row.Expense).Add(row.TransferIn).Sub(row.TransferOut)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return byName(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return out, nil
}

func byName(nameA, idA, nameB, idB string) bool {
	a, b := strings.ToLower(nameA), strings.ToLower(nameB)
	if a != b {
		return a < b
	}
	return idA < idB
}

// ExportCSV writes one line per approved transaction. The description column
// is always quoted; other text columns are quoted only when they need it.
func (s *reportService) ExportCSV(w io.Writer, filter ReportFilter) error {
	txs, names, err := s.load(filter)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteString("\n")
	for _, tx := range txs {
		fields := []string{
			tx.Date.UTC().Format("2006-01-02"),
			string(tx.Type),
			csvField(names.Companies[tx.CompanyID]),
			csvField(lookup(names.Categories, tx.CategoryID)),
			csvField(lookup(names.Clients, tx.ClientID)),
			money.Format(tx.Amount),
			string(tx.Currency),
			money.Format(tx.ConvertedAmount),
			quote(tx.Description),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func lookup(names map[string]string, id *string) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

// ExportPDF renders a profit and loss statement: the totals followed by the
// approved transactions in date order.
func (s *reportService) ExportPDF(w io.Writer, filter ReportFilter) error {
	txs, names, err := s.load(filter)
	if err != nil {
		return err
	}
	pl := summarize(txs)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Profit & Loss Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+periodLabel(filter))
	pdf.Ln(5)
	if filter.CompanyID != nil {
		pdf.Cell(0, 6, "Company: "+names.Companies[*filter.CompanyID])
		pdf.Ln(5)
	}
	pdf.Ln(5)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	base := string(money.Base)
	sumW := []float64{60, 61, 61}
	pdf.CellFormat(sumW[0], 10, "Income ("+base+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Expense ("+base+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Net Profit ("+base+")", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, money.Format(pl.Income), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, money.Format(pl.Expense), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, money.Format(pl.NetProfit), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	colW := []float64{24, 22, 56, 46, 34}
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "TYPE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], 8, "COMPANY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[4], 8, base+" AMOUNT", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	for i, tx := range txs {
		if i >= pdfRowLimit {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, fmt.Sprintf("%d more transactions not shown", len(txs)-pdfRowLimit), "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}

		amount := money.Format(tx.ConvertedAmount)
		if tx.Type == models.TransactionTypeExpense {
			amount = "-" + amount
		}
		pdf.CellFormat(colW[0], 8, tx.Date.UTC().Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, strings.ToUpper(string(tx.Type)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(names.Companies[tx.CompanyID], 30), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, trimTo(tx.Description, 26), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[4], 8, amount, "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+time.Now().UTC().Format(time.RFC3339), "", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func periodLabel(filter ReportFilter) string {
	from, to := "beginning", "today"
	if filter.From != nil {
		from = filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		to = filter.To.Format("2006-01-02")
	}
	return from + " to " + to
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
