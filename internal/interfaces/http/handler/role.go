package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/paydesk/backend/internal/application/identity"
	"github.com/paydesk/backend/internal/domain/shared"
)

// RoleHandler serves role management endpoints
type RoleHandler struct {
	roles *identityapp.RoleService
}

// NewRoleHandler creates a role handler
func NewRoleHandler(roles *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List handles GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, roles)
}

// Get handles GET /api/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	role, err := h.roles.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, role)
}

// Create handles POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var input identityapp.CreateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	role, err := h.roles.CreateRole(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, role)
}

// Update handles PUT /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input identityapp.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	role, err := h.roles.UpdateRole(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, role)
}

// Delete handles DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	if err := h.roles.DeleteRole(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Role deleted"})
}

// Permissions handles GET /api/roles/permissions
func (h *RoleHandler) Permissions(c *gin.Context) {
	respond(c, http.StatusOK, h.roles.PermissionCatalog())
}

// assignRolesRequest is the body of the role assignment endpoint
type assignRolesRequest struct {
	RoleIDs []uuid.UUID `json:"role_ids" binding:"required"`
}

// AssignToUser handles PUT /api/users/:id/roles
func (h *RoleHandler) AssignToUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input assignRolesRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	if err := h.roles.AssignRolesToUser(c.Request.Context(), userID, input.RoleIDs); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Roles assigned"})
}

// UserRoles handles GET /api/users/:id/roles
func (h *RoleHandler) UserRoles(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	roles, err := h.roles.GetUserRoles(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, roles)
}
