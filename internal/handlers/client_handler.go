package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// ClientHandler handles client-related requests
type ClientHandler struct {
	clientService services.ClientServicer
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService services.ClientServicer) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// ClientRequest is the body for creating or updating a client. On update,
// omitted fields keep their current value.
type ClientRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	CompanyName *string `json:"company_name" binding:"omitempty,max=100"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
}

func (r ClientRequest) fields() services.ClientFields {
	return services.ClientFields{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		CompanyName: r.CompanyName,
		Notes:       r.Notes,
	}
}

// CreateClient handles the creation of a new client
// @Summary     Create client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ClientRequest true "Client data"
// @Success     201 {object} models.Client "Client created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	client, err := h.clientService.CreateClient(req.fields())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// ListClients returns clients, optionally filtered by a search term
// @Summary     List clients
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       search    query string false "Match name, email or company name"
// @Success     200 {object} pagination.PageResponse[models.Client] "Paginated clients"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.clientService.ListClients(page, c.Query("search"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetClient returns a single client
// @Summary     Get client
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Client ID"
// @Success     200 {object} models.Client "Client"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	client, err := h.clientService.GetClientByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// UpdateClient updates a client
// @Summary     Update client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Client ID"
// @Param       request body ClientRequest true "Fields to update"
// @Success     200 {object} models.Client "Client updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	client, err := h.clientService.UpdateClient(id, req.fields())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// DeleteClient deletes a client not referenced by any transaction
// @Summary     Delete client
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Client ID"
// @Success     200 {object} map[string]string "Client deleted"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     409 {object} ErrorResponse "Client in use"
// @Router      /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.clientService.DeleteClient(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
