package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paydesk/backend/internal/domain/shared"
)

// System role names seeded at startup
const (
	SystemRoleAdministrator = "ADMINISTRATOR"
	SystemRoleManager       = "MANAGER"
	SystemRoleAccountant    = "ACCOUNTANT"
	SystemRoleEmployee      = "EMPLOYEE"
)

// Role is a named set of permissions that can be assigned to users.
// Roles are global: they are shared across companies.
type Role struct {
	shared.BaseAggregateRoot
	Name         string       `gorm:"uniqueIndex;not null;size:100"`
	Description  string       `gorm:"not null;size:500"`
	Permissions  []Permission `gorm:"serializer:json;type:text"`
	IsSystemRole bool         `gorm:"not null;default:false"`
}

// Role domain errors
var (
	ErrRoleNameRequired       = shared.NewDomainError("VALIDATION_ERROR", "Role name is required")
	ErrRoleDescriptionMissing = shared.NewDomainError("VALIDATION_ERROR", "Role description is required")
	ErrInvalidPermission      = shared.NewDomainError("VALIDATION_ERROR", "Unknown permission")
	ErrDuplicateRoleName      = shared.NewDomainError("DUPLICATE_ROLE_NAME", "Role with this name already exists")
	ErrSystemRoleImmutable    = shared.NewDomainError("SYSTEM_ROLE_IMMUTABLE", "System roles cannot be deleted")
	ErrSystemRoleRename       = shared.NewDomainError("SYSTEM_ROLE_RENAME_FORBIDDEN", "Cannot change the name of a system role")
	ErrRoleInUse              = shared.NewDomainError("ROLE_IN_USE", "Role is assigned to one or more users")
)

// RoleCreatedEvent is published when a role is created
type RoleCreatedEvent struct {
	shared.BaseDomainEvent
	Name         string `json:"name"`
	IsSystemRole bool   `json:"is_system_role"`
}

// RoleUpdatedEvent is published when a role is modified
type RoleUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewRole creates a custom role. Custom roles are never system roles.
func NewRole(name, description string, permissions []Permission) (*Role, error) {
	return newRole(name, description, permissions, false)
}

// NewSystemRole creates a seeded system role
func NewSystemRole(name, description string, permissions []Permission) (*Role, error) {
	return newRole(name, description, permissions, true)
}

func newRole(name, description string, permissions []Permission, system bool) (*Role, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return nil, ErrRoleNameRequired
	}
	if description == "" {
		return nil, ErrRoleDescriptionMissing
	}
	if err := validatePermissions(permissions); err != nil {
		return nil, err
	}

	role := &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Permissions:       dedupePermissions(permissions),
		IsSystemRole:      system,
	}

	role.AddDomainEvent(&RoleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("role.created", "Role", role.ID, uuid.Nil),
		Name:            role.Name,
		IsSystemRole:    role.IsSystemRole,
	})

	return role, nil
}

// Rename changes the role name. System role names are fixed.
func (r *Role) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrRoleNameRequired
	}
	if name == r.Name {
		return nil
	}
	if r.IsSystemRole {
		return ErrSystemRoleRename
	}
	r.Name = name
	r.touch()
	return nil
}

// UpdateDescription changes the role description
func (r *Role) UpdateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return ErrRoleDescriptionMissing
	}
	r.Description = description
	r.touch()
	return nil
}

// ReplacePermissions replaces the full permission set of the role
func (r *Role) ReplacePermissions(permissions []Permission) error {
	if err := validatePermissions(permissions); err != nil {
		return err
	}
	r.Permissions = dedupePermissions(permissions)
	r.touch()
	return nil
}

// HasPermission reports whether the role grants the given permission
func (r *Role) HasPermission(p Permission) bool {
	for _, granted := range r.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}

// CanDelete reports whether the role may be deleted
func (r *Role) CanDelete() error {
	if r.IsSystemRole {
		return ErrSystemRoleImmutable
	}
	return nil
}

func (r *Role) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(&RoleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("role.updated", "Role", r.ID, uuid.Nil),
		Name:            r.Name,
	})
}

func validatePermissions(permissions []Permission) error {
	for _, p := range permissions {
		if !p.IsValid() {
			return ErrInvalidPermission
		}
	}
	return nil
}

func dedupePermissions(permissions []Permission) []Permission {
	seen := make(map[Permission]struct{}, len(permissions))
	out := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SystemRoleDefinition describes one of the roles seeded at startup
type SystemRoleDefinition struct {
	Name        string
	Description string
	Permissions []Permission
}

// SystemRoleDefinitions returns the four built-in roles in seed order
func SystemRoleDefinitions() []SystemRoleDefinition {
	return []SystemRoleDefinition{
		{
			Name:        SystemRoleAdministrator,
			Description: "Full system access with all permissions",
			Permissions: DefaultRolePermissions[AccountRoleAdmin],
		},
		{
			Name:        SystemRoleManager,
			Description: "Department management and approval capabilities",
			Permissions: DefaultRolePermissions[AccountRoleManager],
		},
		{
			Name:        SystemRoleAccountant,
			Description: "Financial operations and reporting",
			Permissions: DefaultRolePermissions[AccountRoleAccountant],
		},
		{
			Name:        SystemRoleEmployee,
			Description: "Basic user with limited permissions",
			Permissions: DefaultRolePermissions[AccountRoleUser],
		},
	}
}
