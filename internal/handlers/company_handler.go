package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// CompanyHandler handles company-related requests
type CompanyHandler struct {
	companyService services.CompanyServicer
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService services.CompanyServicer) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// CreateCompanyRequest represents the request body for creating a company
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateCompanyRequest represents the request body for updating a company
type UpdateCompanyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CreateCompany handles the creation of a new company
// @Summary     Create company
// @Tags        companies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCompanyRequest true "Company data"
// @Success     201 {object} models.Company "Company created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	company, err := h.companyService.CreateCompany(req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// ListCompanies returns companies ordered by name
// @Summary     List companies
// @Tags        companies
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Company] "Paginated companies"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.companyService.ListCompanies(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCompany returns a single company
// @Summary     Get company
// @Tags        companies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Company ID"
// @Success     200 {object} models.Company "Company"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	company, err := h.companyService.GetCompanyByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

// UpdateCompany updates a company's name or description
// @Summary     Update company
// @Tags        companies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Company ID"
// @Param       request body UpdateCompanyRequest true "Fields to update"
// @Success     200 {object} models.Company "Company updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	company, err := h.companyService.UpdateCompany(id, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

// DeleteCompany deletes a company not referenced by any transaction
// @Summary     Delete company
// @Tags        companies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Company ID"
// @Success     200 {object} map[string]string "Company deleted"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Failure     409 {object} ErrorResponse "Company in use"
// @Router      /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.companyService.DeleteCompany(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
