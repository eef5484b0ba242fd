package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizledger/internal/models"
	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// UserHandler handles user administration
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// CreateUserRequest represents the admin user creation payload
type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required,max=100"`
	Email    string      `json:"email" binding:"required,email,max=255"`
	Password string      `json:"password" binding:"required,min=8,max=128"`
	Role     models.Role `json:"role" binding:"omitempty,user_role"`
}

// SetUserStatusRequest activates or deactivates a user
type SetUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ListUsers returns all users
// @Summary     List users
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[UserResponse] "Paginated users"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.userService.ListUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, func(u models.User) UserResponse {
		return newUserResponse(&u)
	}))
}

// CreateUser creates a user with an explicit role
// @Summary     Create a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.CreateUser(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, services.AuditCreateUser, "user", user.ID, c.ClientIP(),
		map[string]interface{}{
			"email": user.Email,
			"role":  user.Role,
		})

	c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(user)})
}

// SetUserStatus activates or deactivates a user
// @Summary     Activate or deactivate a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "User ID"
// @Param       request body SetUserStatusRequest true "New status"
// @Success     200 {object} UserResponse "User updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id}/status [put]
func (h *UserHandler) SetUserStatus(c *gin.Context) {
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

	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.SetUserActive(actor, id, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, services.AuditSetUserStatus, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"is_active": user.IsActive})

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}
