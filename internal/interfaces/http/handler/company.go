package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identityapp "github.com/paydesk/backend/internal/application/identity"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
)

// CompanyHandler serves company and department endpoints. All
// operations act on the caller's own company.
type CompanyHandler struct {
	companies *identityapp.CompanyService
}

// NewCompanyHandler creates a company handler
func NewCompanyHandler(companies *identityapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Get handles GET /api/company
func (h *CompanyHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	company, err := h.companies.GetCompany(c.Request.Context(), claims.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, company)
}

// Update handles PUT /api/company
func (h *CompanyHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var input identityapp.UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	company, err := h.companies.UpdateCompany(c.Request.Context(), claims.CompanyID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, company)
}

// ListDepartments handles GET /api/company/departments
func (h *CompanyHandler) ListDepartments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	departments, err := h.companies.ListDepartments(c.Request.Context(), claims.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, departments)
}

// CreateDepartment handles POST /api/company/departments
func (h *CompanyHandler) CreateDepartment(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var input identityapp.CreateDepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}
	department, err := h.companies.CreateDepartment(c.Request.Context(), claims.CompanyID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, department)
}
