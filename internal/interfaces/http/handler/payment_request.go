package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/paydesk/backend/internal/application/billing"
	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
)

// PaymentRequestHandler serves payment request endpoints
type PaymentRequestHandler struct {
	payments *billingapp.PaymentService
	checker  middleware.PermissionChecker
}

// NewPaymentRequestHandler creates a payment request handler
func NewPaymentRequestHandler(payments *billingapp.PaymentService, checker middleware.PermissionChecker) *PaymentRequestHandler {
	return &PaymentRequestHandler{payments: payments, checker: checker}
}

var paymentReadAll = identity.NewPermission(identity.ResourcePaymentRequest, identity.ActionReadAll)

func (h *PaymentRequestHandler) actor(c *gin.Context) billingapp.Actor {
	claims := middleware.GetClaims(c)
	readAll, err := h.checker.CheckPermission(c.Request.Context(), claims.UserID, paymentReadAll)
	if err != nil {
		readAll = false
	}
	return billingapp.Actor{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		ReadAll:   readAll,
	}
}

// List handles GET /api/payment-requests
func (h *PaymentRequestHandler) List(c *gin.Context) {
	filter := parseFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	page, err := h.payments.List(c.Request.Context(), h.actor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// Get handles GET /api/payment-requests/:id
func (h *PaymentRequestHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	pr, err := h.payments.Get(c.Request.Context(), h.actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pr)
}

// Create handles POST /api/payment-requests
func (h *PaymentRequestHandler) Create(c *gin.Context) {
	var input billingapp.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	pr, err := h.payments.Create(c.Request.Context(), h.actor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, pr)
}

// Update handles PUT /api/payment-requests/:id
func (h *PaymentRequestHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input billingapp.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	pr, err := h.payments.Update(c.Request.Context(), h.actor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pr)
}

// changeStatusRequest is the body of the status endpoint
type changeStatusRequest struct {
	Status billing.Status `json:"status" binding:"required"`
	Notes  string         `json:"notes"`
}

// ChangeStatus handles PATCH /api/payment-requests/:id/status
func (h *PaymentRequestHandler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input changeStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	if rule, privileged := paymentTransitionRules[input.Status]; privileged {
		if !requireTransition(c, h.checker, rule) {
			return
		}
	}
	pr, err := h.payments.ChangeStatus(c.Request.Context(), h.actor(c), id, input.Status, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pr)
}

// ProcessPayment handles POST /api/payment-requests/:id/payments
func (h *PaymentRequestHandler) ProcessPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input billingapp.ProcessPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	pr, err := h.payments.ProcessPayment(c.Request.Context(), h.actor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pr)
}

// paymentURLRequest is the body of the payment URL endpoint
type paymentURLRequest struct {
	PaymentMethod billing.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
	ReturnURL     string                `json:"return_url" binding:"required,url"`
}

// PaymentURL handles POST /api/payment-requests/:id/payment-url
func (h *PaymentRequestHandler) PaymentURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	var input paymentURLRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	checkoutURL, err := h.payments.PaymentURL(c.Request.Context(), h.actor(c), id, input.PaymentMethod, input.ReturnURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"payment_url": checkoutURL})
}

// Delete handles DELETE /api/payment-requests/:id
func (h *PaymentRequestHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	if err := h.payments.Delete(c.Request.Context(), h.actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Payment request deleted"})
}

// Statistics handles GET /api/payment-requests/statistics
func (h *PaymentRequestHandler) Statistics(c *gin.Context) {
	claims := middleware.GetClaims(c)
	stats, err := h.payments.Statistics(c.Request.Context(), claims.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}
