package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		name        string
		roleName    string
		description string
		permissions []Permission
		wantErr     error
	}{
		{
			name:        "valid custom role",
			roleName:    "Finance Lead",
			description: "Approves payments",
			permissions: []Permission{NewPermission(ResourcePaymentRequest, ActionApprove)},
		},
		{
			name:        "empty name",
			roleName:    "  ",
			description: "desc",
			wantErr:     ErrRoleNameRequired,
		},
		{
			name:        "empty description",
			roleName:    "Auditor",
			description: "",
			wantErr:     ErrRoleDescriptionMissing,
		},
		{
			name:        "unknown permission rejected",
			roleName:    "Auditor",
			description: "Audits",
			permissions: []Permission{"report:launch"},
			wantErr:     ErrInvalidPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := NewRole(tt.roleName, tt.description, tt.permissions)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, role.IsSystemRole)
			assert.Equal(t, 1, role.GetVersion())
			assert.Len(t, role.GetDomainEvents(), 1)
		})
	}
}

func TestNewRole_DeduplicatesPermissions(t *testing.T) {
	p := NewPermission(ResourceUser, ActionRead)
	role, err := NewRole("Viewer", "Read only", []Permission{p, p, p})
	require.NoError(t, err)
	assert.Len(t, role.Permissions, 1)
}

func TestRole_Rename(t *testing.T) {
	custom, err := NewRole("Old Name", "desc", nil)
	require.NoError(t, err)
	require.NoError(t, custom.Rename("New Name"))
	assert.Equal(t, "New Name", custom.Name)
	assert.Equal(t, 2, custom.GetVersion())

	system, err := NewSystemRole(SystemRoleManager, "desc", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, system.Rename("Boss"), ErrSystemRoleRename)

	// Renaming to the same name is a no-op even for system roles
	require.NoError(t, system.Rename(SystemRoleManager))
}

func TestRole_CanDelete(t *testing.T) {
	system, err := NewSystemRole(SystemRoleEmployee, "desc", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, system.CanDelete(), ErrSystemRoleImmutable)

	custom, err := NewRole("Temp", "desc", nil)
	require.NoError(t, err)
	assert.NoError(t, custom.CanDelete())
}

func TestRole_ReplacePermissions(t *testing.T) {
	role, err := NewRole("Ops", "desc", nil)
	require.NoError(t, err)

	perms := []Permission{
		NewPermission(ResourceExpenseRequest, ActionApprove),
		NewPermission(ResourceExpenseRequest, ActionReject),
	}
	require.NoError(t, role.ReplacePermissions(perms))
	assert.True(t, role.HasPermission(NewPermission(ResourceExpenseRequest, ActionApprove)))
	assert.False(t, role.HasPermission(NewPermission(ResourceUser, ActionDelete)))

	assert.ErrorIs(t, role.ReplacePermissions([]Permission{"bogus"}), ErrInvalidPermission)
}

func TestSystemRoleDefinitions(t *testing.T) {
	defs := SystemRoleDefinitions()
	require.Len(t, defs, 4)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
		assert.NotEmpty(t, d.Description)
		assert.NotEmpty(t, d.Permissions)
		for _, p := range d.Permissions {
			assert.True(t, p.IsValid(), "permission %s not in catalog", p)
		}
	}
	assert.Equal(t, []string{
		SystemRoleAdministrator, SystemRoleManager, SystemRoleAccountant, SystemRoleEmployee,
	}, names)

	// The administrator role carries the full catalog
	assert.Len(t, defs[0].Permissions, len(AllPermissions()))
}

func TestPermission_Parts(t *testing.T) {
	p := NewPermission(ResourcePaymentRequest, ActionApprove)
	assert.Equal(t, Permission("payment_request:approve"), p)
	assert.Equal(t, ResourcePaymentRequest, p.Resource())
	assert.Equal(t, ActionApprove, p.Action())
	assert.True(t, p.IsValid())
	assert.False(t, Permission("payment_request:fly").IsValid())
}

func TestPermissionsByResource(t *testing.T) {
	groups := PermissionsByResource()
	require.Len(t, groups, 9)
	total := 0
	for _, g := range groups {
		total += len(g.Permissions)
	}
	assert.Equal(t, len(AllPermissions()), total)
}
