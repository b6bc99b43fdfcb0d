package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
)

// RoleService manages roles and user role assignments
type RoleService struct {
	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewRoleService creates a role service
func NewRoleService(roleRepo identity.RoleRepository, userRepo identity.UserRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// RoleDTO is the read model for roles
type RoleDTO struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Permissions  []identity.Permission `json:"permissions"`
	IsSystemRole bool                  `json:"is_system_role"`
	Version      int                   `json:"version"`
}

func toRoleDTO(role *identity.Role) *RoleDTO {
	return &RoleDTO{
		ID:           role.ID,
		Name:         role.Name,
		Description:  role.Description,
		Permissions:  role.Permissions,
		IsSystemRole: role.IsSystemRole,
		Version:      role.GetVersion(),
	}
}

// InitializeSystemRoles seeds the built-in roles. Each role is checked
// by name and inserted only when missing, so an interrupted earlier
// seed completes on the next start.
func (s *RoleService) InitializeSystemRoles(ctx context.Context) error {
	defs := identity.SystemRoleDefinitions()
	roles := make([]*identity.Role, 0, len(defs))
	for _, def := range defs {
		role, err := identity.NewSystemRole(def.Name, def.Description, def.Permissions)
		if err != nil {
			return err
		}
		roles = append(roles, role)
	}

	if err := s.roleRepo.Seed(ctx, roles); err != nil {
		return err
	}
	s.logger.Info("system roles ensured", zap.Int("count", len(roles)))
	return nil
}

// CreateRoleInput carries the data to create a custom role
type CreateRoleInput struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description" binding:"required"`
	Permissions []identity.Permission `json:"permissions"`
}

// CreateRole creates a custom role with a unique name
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	existing, err := s.roleRepo.FindByName(ctx, input.Name)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, identity.ErrDuplicateRoleName
	}

	role, err := identity.NewRole(input.Name, input.Description, input.Permissions)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("role created", zap.String("role_id", role.ID.String()), zap.String("name", role.Name))
	return toRoleDTO(role), nil
}

// UpdateRoleInput carries the data to update a role. Nil fields are
// left unchanged.
type UpdateRoleInput struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Permissions *[]identity.Permission `json:"permissions"`
}

// UpdateRole updates a role. System roles keep their name but may
// have their description and permissions adjusted.
func (s *RoleService) UpdateRole(ctx context.Context, roleID uuid.UUID, input UpdateRoleInput) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != role.Name {
		existing, err := s.roleRepo.FindByName(ctx, *input.Name)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return nil, identity.ErrDuplicateRoleName
		}
		if err := role.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if err := role.UpdateDescription(*input.Description); err != nil {
			return nil, err
		}
	}
	if input.Permissions != nil {
		if err := role.ReplacePermissions(*input.Permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("role updated", zap.String("role_id", role.ID.String()))
	return toRoleDTO(role), nil
}

// DeleteRole deletes a custom role that is not assigned to any user.
// The in-use check and the delete run atomically in the repository.
func (s *RoleService) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return err
	}
	if err := role.CanDelete(); err != nil {
		return err
	}

	if err := s.roleRepo.DeleteIfUnreferenced(ctx, roleID); err != nil {
		return err
	}
	s.logger.Info("role deleted", zap.String("role_id", roleID.String()))
	return nil
}

// GetRole returns a single role
func (s *RoleService) GetRole(ctx context.Context, roleID uuid.UUID) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return toRoleDTO(role), nil
}

// ListRoles returns all roles, system roles first
func (s *RoleService) ListRoles(ctx context.Context) ([]*RoleDTO, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*RoleDTO, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleDTO(role))
	}
	return out, nil
}

// PermissionCatalog returns every permission grouped by resource
func (s *RoleService) PermissionCatalog() []identity.PermissionGroup {
	return identity.PermissionsByResource()
}

// AssignRolesToUser replaces a user's role assignments
func (s *RoleService) AssignRolesToUser(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return shared.NewDomainError("NOT_FOUND", "One or more roles not found")
	}

	user.AssignRoles(roleIDs)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("roles assigned",
		zap.String("user_id", userID.String()),
		zap.Int("role_count", len(roleIDs)))
	return nil
}

// GetUserRoles returns the roles assigned to a user
func (s *RoleService) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*RoleDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.roleRepo.FindByIDs(ctx, user.RoleIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*RoleDTO, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleDTO(role))
	}
	return out, nil
}
