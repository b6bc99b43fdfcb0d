package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, role AccountRole) *User {
	t.Helper()
	user, err := NewUser("worker@example.com", "hashed", "Binh", "Tran", role, uuid.New())
	require.NoError(t, err)
	return user
}

func TestEffectivePermissions_FallsBackToAccountRole(t *testing.T) {
	user := newTestUser(t, AccountRoleAccountant)

	perms := EffectivePermissions(user, nil)
	assert.ElementsMatch(t, DefaultRolePermissions[AccountRoleAccountant], perms)
}

func TestEffectivePermissions_AssignedRolesWin(t *testing.T) {
	user := newTestUser(t, AccountRoleUser)

	role, err := NewRole("Approver", "Approves expenses", []Permission{
		NewPermission(ResourceExpenseRequest, ActionApprove),
	})
	require.NoError(t, err)

	perms := EffectivePermissions(user, []*Role{role})
	assert.Equal(t, []Permission{NewPermission(ResourceExpenseRequest, ActionApprove)}, perms)
	// Account role defaults are not mixed in once roles are assigned
	assert.NotContains(t, perms, NewPermission(ResourceExpenseRequest, ActionCreate))
}

func TestEffectivePermissions_UnionAcrossRoles(t *testing.T) {
	user := newTestUser(t, AccountRoleUser)

	read := NewPermission(ResourceReport, ActionRead)
	create := NewPermission(ResourceReport, ActionCreate)

	r1, err := NewRole("Reader", "d", []Permission{read})
	require.NoError(t, err)
	r2, err := NewRole("Writer", "d", []Permission{create, read})
	require.NoError(t, err)

	perms := EffectivePermissions(user, []*Role{r1, r2})
	assert.ElementsMatch(t, []Permission{read, create}, perms)
}

func TestHasPermission(t *testing.T) {
	approve := NewPermission(ResourcePaymentRequest, ActionApprove)
	del := NewPermission(ResourceUser, ActionDelete)

	tests := []struct {
		name     string
		role     AccountRole
		required Permission
		want     bool
	}{
		{"admin always passes", AccountRoleAdmin, del, true},
		{"manager can approve payments", AccountRoleManager, approve, true},
		{"accountant cannot approve payments", AccountRoleAccountant, approve, false},
		{"regular user cannot delete users", AccountRoleUser, del, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := newTestUser(t, tt.role)
			assert.Equal(t, tt.want, HasPermission(user, nil, tt.required))
		})
	}
}

func TestHasPermission_ManageImpliesResourceActions(t *testing.T) {
	user := newTestUser(t, AccountRoleUser)

	role, err := NewRole("User Admin", "d", []Permission{
		NewPermission(ResourceUser, ActionManage),
	})
	require.NoError(t, err)

	assert.True(t, HasPermission(user, []*Role{role}, NewPermission(ResourceUser, ActionDelete)))
	assert.False(t, HasPermission(user, []*Role{role}, NewPermission(ResourceRole, ActionDelete)))
}

func TestNewUser_Validation(t *testing.T) {
	companyID := uuid.New()

	_, err := NewUser("not-an-email", "h", "A", "B", AccountRoleUser, companyID)
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = NewUser("a@b.com", "h", "", "B", AccountRoleUser, companyID)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = NewUser("a@b.com", "h", "A", "B", "chief", companyID)
	assert.ErrorIs(t, err, ErrInvalidAccountRole)

	user, err := NewUser("  Mixed@Example.COM ", "h", "A", "B", "", companyID)
	require.NoError(t, err)
	assert.Equal(t, "mixed@example.com", user.Email)
	assert.Equal(t, AccountRoleUser, user.Role)
	assert.True(t, user.IsActive)
}

func TestUser_AssignRolesDeduplicates(t *testing.T) {
	user := newTestUser(t, AccountRoleUser)
	id := uuid.New()
	user.AssignRoles([]uuid.UUID{id, id, uuid.New()})
	assert.Len(t, user.RoleIDs, 2)
	assert.Equal(t, 2, user.GetVersion())
}
