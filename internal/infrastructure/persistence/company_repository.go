package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

var _ identity.CompanyRepository = (*GormCompanyRepository)(nil)

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Save creates a new company
func (r *GormCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// Update updates an existing company
func (r *GormCompanyRepository) Update(ctx context.Context, company *identity.Company) error {
	result := r.db.WithContext(ctx).Save(company)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	var company identity.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByTaxCode finds a company by its unique tax code
func (r *GormCompanyRepository) FindByTaxCode(ctx context.Context, taxCode string) (*identity.Company, error) {
	var company identity.Company
	if err := r.db.WithContext(ctx).
		Where("tax_code = ?", strings.TrimSpace(taxCode)).
		First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindAll returns a page of companies
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*identity.Company], error) {
	query := r.db.WithContext(ctx).Model(&identity.Company{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return paginate[*identity.Company](query, filter)
}

// GormDepartmentRepository implements DepartmentRepository using GORM
type GormDepartmentRepository struct {
	db *gorm.DB
}

var _ identity.DepartmentRepository = (*GormDepartmentRepository)(nil)

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// Save creates a new department
func (r *GormDepartmentRepository) Save(ctx context.Context, department *identity.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

// Update updates an existing department
func (r *GormDepartmentRepository) Update(ctx context.Context, department *identity.Department) error {
	result := r.db.WithContext(ctx).Save(department)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Department, error) {
	var department identity.Department
	if err := r.db.WithContext(ctx).First(&department, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &department, nil
}

// FindByCompany returns all departments of a company
func (r *GormDepartmentRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*identity.Department, error) {
	var departments []*identity.Department
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// Delete deletes a department by ID
func (r *GormDepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Department{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
