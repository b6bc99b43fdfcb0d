package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identityapp "github.com/paydesk/backend/internal/application/identity"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves sign-in and account endpoints
type AuthHandler struct {
	auth  *identityapp.AuthService
	users *identityapp.UserService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth *identityapp.AuthService, users *identityapp.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	user, err := h.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var input identityapp.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), claims.UserID, input); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Password changed"})
}
