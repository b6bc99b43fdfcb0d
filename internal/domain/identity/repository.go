package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/paydesk/backend/internal/domain/shared"
)

// UserRepository persists user accounts
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[*User], error)
	FindByAccountRoles(ctx context.Context, companyID uuid.UUID, roles []AccountRole) ([]*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoleRepository persists roles and user role assignments
type RoleRepository interface {
	Save(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	FindAll(ctx context.Context) ([]*Role, error)
	// Seed inserts the given roles, skipping any whose name already
	// exists, atomically
	Seed(ctx context.Context, roles []*Role) error
	// DeleteIfUnreferenced deletes a role unless a user still has it
	// assigned; the check and the delete are atomic
	DeleteIfUnreferenced(ctx context.Context, id uuid.UUID) error
}

// CompanyRepository persists companies
type CompanyRepository interface {
	Save(ctx context.Context, company *Company) error
	Update(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByTaxCode(ctx context.Context, taxCode string) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Company], error)
}

// DepartmentRepository persists departments
type DepartmentRepository interface {
	Save(ctx context.Context, department *Department) error
	Update(ctx context.Context, department *Department) error
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
