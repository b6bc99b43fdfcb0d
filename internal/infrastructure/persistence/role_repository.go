package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Save creates a new role
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// Update updates an existing role
func (r *GormRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	result := r.db.WithContext(ctx).Save(role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByIDs finds all roles with the given IDs
func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []*identity.Role
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindByName finds a role by its unique name
func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindAll returns every role, system roles first
func (r *GormRoleRepository) FindAll(ctx context.Context) ([]*identity.Role, error) {
	var roles []*identity.Role
	if err := r.db.WithContext(ctx).
		Order("is_system_role DESC, name ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Seed inserts the given roles unless a role with the same name is
// already present. The whole batch runs in one transaction, so a seed
// that was interrupted halfway completes on the next start.
func (r *GormRoleRepository) Seed(ctx context.Context, roles []*identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, role := range roles {
			var count int64
			if err := tx.Model(&identity.Role{}).
				Where("name = ?", role.Name).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(role).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteIfUnreferenced deletes a role unless any user still has it
// assigned. The role row is locked while the reference count runs, so
// a concurrent assignment cannot slip in between check and delete.
func (r *GormRoleRepository) DeleteIfUnreferenced(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role identity.Role
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&role, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		var assigned int64
		if err := tx.Model(&identity.User{}).
			Where("role_ids LIKE ?", "%"+id.String()+"%").
			Count(&assigned).Error; err != nil {
			return err
		}
		if assigned > 0 {
			return identity.ErrRoleInUse
		}
		return tx.Delete(&role).Error
	})
}
