package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
)

// CompanyService manages companies and their departments
type CompanyService struct {
	companyRepo    identity.CompanyRepository
	departmentRepo identity.DepartmentRepository
	logger         *zap.Logger
}

// NewCompanyService creates a company service
func NewCompanyService(companyRepo identity.CompanyRepository, departmentRepo identity.DepartmentRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companyRepo:    companyRepo,
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

// CreateCompanyInput carries the data to register a company
type CreateCompanyInput struct {
	Name         string           `json:"name" binding:"required"`
	TaxCode      string           `json:"tax_code" binding:"required"`
	ContactEmail string           `json:"contact_email" binding:"required,email"`
	ContactPhone string           `json:"contact_phone"`
	Address      identity.Address `json:"address"`
}

// CreateCompany registers a company with a unique tax code
func (s *CompanyService) CreateCompany(ctx context.Context, input CreateCompanyInput) (*identity.Company, error) {
	existing, err := s.companyRepo.FindByTaxCode(ctx, input.TaxCode)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, identity.ErrDuplicateTaxCode
	}

	company, err := identity.NewCompany(input.Name, input.TaxCode, input.ContactEmail, input.Address)
	if err != nil {
		return nil, err
	}
	company.ContactPhone = input.ContactPhone

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	s.logger.Info("company created", zap.String("company_id", company.ID.String()))
	return company, nil
}

// GetCompany returns a single company
func (s *CompanyService) GetCompany(ctx context.Context, companyID uuid.UUID) (*identity.Company, error) {
	return s.companyRepo.FindByID(ctx, companyID)
}

// UpdateCompanyInput carries company profile changes
type UpdateCompanyInput struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Website      string `json:"website"`
	Industry     string `json:"industry"`
}

// UpdateCompany updates a company's profile
func (s *CompanyService) UpdateCompany(ctx context.Context, companyID uuid.UUID, input UpdateCompanyInput) (*identity.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := company.UpdateDetails(input.Name, input.ContactEmail, input.ContactPhone, input.Website, input.Industry); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// CreateDepartmentInput carries the data to create a department
type CreateDepartmentInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateDepartment adds a department to a company
func (s *CompanyService) CreateDepartment(ctx context.Context, companyID uuid.UUID, input CreateDepartmentInput) (*identity.Department, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	department, err := identity.NewDepartment(companyID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.departmentRepo.Save(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// ListDepartments returns all departments of a company
func (s *CompanyService) ListDepartments(ctx context.Context, companyID uuid.UUID) ([]*identity.Department, error) {
	return s.departmentRepo.FindByCompany(ctx, companyID)
}
