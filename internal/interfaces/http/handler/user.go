package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/paydesk/backend/internal/application/identity"
	"github.com/paydesk/backend/internal/domain/shared"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
)

// UserHandler serves user management endpoints
type UserHandler struct {
	users *identityapp.UserService
}

// NewUserHandler creates a user handler
func NewUserHandler(users *identityapp.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /api/users. Results are scoped to the caller's
// company.
func (h *UserHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	filter := parseFilter(c)
	if role := c.Query("role"); role != "" {
		filter.Filters["role"] = role
	}

	page, err := h.users.ListUsers(c.Request.Context(), claims.CompanyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	// Users are only visible within their own company
	if claims := middleware.GetClaims(c); user.CompanyID != claims.CompanyID {
		respondError(c, shared.ErrNotFound)
		return
	}
	respond(c, http.StatusOK, user)
}

// Create handles POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var input identityapp.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	// New accounts always join the caller's company
	input.CompanyID = claims.CompanyID

	user, err := h.users.CreateUser(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, user)
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input identityapp.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	user, err := h.users.UpdateUser(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// Deactivate handles DELETE /api/users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	if err := h.users.DeactivateUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "User deactivated"})
}
