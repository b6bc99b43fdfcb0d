package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	expenseapp "github.com/paydesk/backend/internal/application/expense"
	"github.com/paydesk/backend/internal/domain/expense"
	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
)

// ExpenseRequestHandler serves expense request endpoints
type ExpenseRequestHandler struct {
	expenses *expenseapp.ExpenseService
	checker  middleware.PermissionChecker
}

// NewExpenseRequestHandler creates an expense request handler
func NewExpenseRequestHandler(expenses *expenseapp.ExpenseService, checker middleware.PermissionChecker) *ExpenseRequestHandler {
	return &ExpenseRequestHandler{expenses: expenses, checker: checker}
}

var expenseReadAll = identity.NewPermission(identity.ResourceExpenseRequest, identity.ActionReadAll)

func (h *ExpenseRequestHandler) actor(c *gin.Context) expenseapp.Actor {
	claims := middleware.GetClaims(c)
	readAll, err := h.checker.CheckPermission(c.Request.Context(), claims.UserID, expenseReadAll)
	if err != nil {
		readAll = false
	}
	return expenseapp.Actor{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		ReadAll:   readAll,
	}
}

// List handles GET /api/expense-requests
func (h *ExpenseRequestHandler) List(c *gin.Context) {
	filter := parseFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}

	page, err := h.expenses.List(c.Request.Context(), h.actor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// Get handles GET /api/expense-requests/:id
func (h *ExpenseRequestHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	er, err := h.expenses.Get(c.Request.Context(), h.actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, er)
}

// Create handles POST /api/expense-requests
func (h *ExpenseRequestHandler) Create(c *gin.Context) {
	var input expenseapp.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	er, err := h.expenses.Create(c.Request.Context(), h.actor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, er)
}

// Update handles PUT /api/expense-requests/:id
func (h *ExpenseRequestHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input expenseapp.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	er, err := h.expenses.Update(c.Request.Context(), h.actor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, er)
}

// expenseStatusRequest is the body of the status endpoint
type expenseStatusRequest struct {
	Status expense.Status `json:"status" binding:"required"`
	Notes  string         `json:"notes"`
}

// ChangeStatus handles PATCH /api/expense-requests/:id/status
func (h *ExpenseRequestHandler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input expenseStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	if rule, privileged := expenseTransitionRules[input.Status]; privileged {
		if !requireTransition(c, h.checker, rule) {
			return
		}
	}
	er, err := h.expenses.ChangeStatus(c.Request.Context(), h.actor(c), id, input.Status, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, er)
}

// Delete handles DELETE /api/expense-requests/:id
func (h *ExpenseRequestHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), h.actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Expense request deleted"})
}

// Categories handles GET /api/expense-requests/categories
func (h *ExpenseRequestHandler) Categories(c *gin.Context) {
	respond(c, http.StatusOK, h.expenses.Categories())
}
