package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizledger/internal/money"
	"bizledger/internal/services"
)

// ReportHandler serves the financial reports built from approved transactions
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func parseReportFilter(c *gin.Context) (services.ReportFilter, error) {
	var filter services.ReportFilter
	from, to, err := parseDateRange(c)
	if err != nil {
		return filter, err
	}
	filter.From = from
	filter.To = to
	filter.CompanyID, err = optionalIDQuery(c, "company_id")
	return filter, err
}

// ProfitLoss returns total income, expense and net profit
// @Summary     Profit and loss
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       company_id query string false "Filter by company ID"
// @Param       start_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} ProfitLossResponse "Profit and loss"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/profit-loss [get]
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	filter, err := parseReportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pl, err := h.reportService.ProfitLoss(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfitLossResponse{
		Income:    money.Format(pl.Income),
		Expense:   money.Format(pl.Expense),
		NetProfit: money.Format(pl.NetProfit),
	})
}

// ByCompany returns income and expense per company
// @Summary     Report by company
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       company_id query string false "Filter by company ID"
// @Param       start_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} []DimensionRowResponse "Rows ordered by name"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/by-company [get]
func (h *ReportHandler) ByCompany(c *gin.Context) {
	h.dimension(c, h.reportService.ByCompany)
}

// ByClient returns income and expense per client
// @Summary     Report by client
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       company_id query string false "Filter by company ID"
// @Param       start_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} []DimensionRowResponse "Rows ordered by name"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/by-client [get]
func (h *ReportHandler) ByClient(c *gin.Context) {
	h.dimension(c, h.reportService.ByClient)
}

// ByCategory returns income and expense per category
// @Summary     Report by category
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       company_id query string false "Filter by company ID"
// @Param       start_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} []DimensionRowResponse "Rows ordered by name"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/by-category [get]
func (h *ReportHandler) ByCategory(c *gin.Context) {
	h.dimension(c, h.reportService.ByCategory)
}

func (h *ReportHandler) dimension(c *gin.Context, fn func(services.ReportFilter) ([]services.DimensionRow, error)) {
	filter, err := parseReportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := fn(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": newDimensionRows(rows)})
}

// ByBankAccount returns income, expense and transfers per bank account
// @Summary     Report by bank account
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       company_id query string false "Filter by company ID"
// @Param       start_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} []BankAccountRowResponse "Rows ordered by name"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/by-bank-account [get]
func (h *ReportHandler) ByBankAccount(c *gin.Context) {
	filter, err := parseReportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.reportService.ByBankAccount(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": newBankAccountRows(rows)})
}

// ExportCSV downloads approved transactions as CSV
// @Summary     Export transactions as CSV
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       company_id query string false "Filter by company ID"
// @Param       start_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {file} file "transactions.csv"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/export-csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	h.export(c, h.reportService.ExportCSV, "text/csv; charset=utf-8", "transactions.csv")
}

// ExportPDF downloads a profit and loss statement as PDF
// @Summary     Export profit and loss as PDF
// @Tags        reports
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       company_id query string false "Filter by company ID"
// @Param       start_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       end_date   query string false "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {file} file "profit-loss.pdf"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/export-pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	h.export(c, h.reportService.ExportPDF, "application/pdf", "profit-loss.pdf")
}

// export renders into a buffer first so a failure still produces a JSON error.
func (h *ReportHandler) export(c *gin.Context, render func(io.Writer, services.ReportFilter) error, contentType, filename string) {
	filter, err := parseReportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, filter); err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
