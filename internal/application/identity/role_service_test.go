package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
)

// MockRoleRepository is a mock implementation of RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context) ([]*identity.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) Seed(ctx context.Context, roles []*identity.Role) error {
	args := m.Called(ctx, roles)
	return args.Error(0)
}

func (m *MockRoleRepository) DeleteIfUnreferenced(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[*identity.User], error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(shared.Paginated[*identity.User]), args.Error(1)
}

func (m *MockUserRepository) FindByAccountRoles(ctx context.Context, companyID uuid.UUID, roles []identity.AccountRole) ([]*identity.User, error) {
	args := m.Called(ctx, companyID, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestRoleService_InitializeSystemRoles(t *testing.T) {
	t.Run("ensures all four built-in roles", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		svc := NewRoleService(roleRepo, new(MockUserRepository), zap.NewNop())

		roleRepo.On("Seed", mock.Anything, mock.MatchedBy(func(roles []*identity.Role) bool {
			if len(roles) != 4 {
				return false
			}
			for _, r := range roles {
				if !r.IsSystemRole {
					return false
				}
			}
			return true
		})).Return(nil)

		require.NoError(t, svc.InitializeSystemRoles(context.Background()))
		roleRepo.AssertExpectations(t)
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		svc := NewRoleService(roleRepo, new(MockUserRepository), zap.NewNop())

		roleRepo.On("Seed", mock.Anything, mock.Anything).Return(shared.ErrConcurrencyConflict)

		assert.Error(t, svc.InitializeSystemRoles(context.Background()))
	})
}

func TestRoleService_CreateRole_RejectsDuplicateName(t *testing.T) {
	roleRepo := new(MockRoleRepository)
	svc := NewRoleService(roleRepo, new(MockUserRepository), zap.NewNop())

	existing, err := identity.NewRole("Auditors", "Read-only finance access", nil)
	require.NoError(t, err)
	roleRepo.On("FindByName", mock.Anything, "Auditors").Return(existing, nil)

	_, err = svc.CreateRole(context.Background(), CreateRoleInput{
		Name:        "Auditors",
		Description: "Another role with the same name",
	})

	assert.ErrorIs(t, err, identity.ErrDuplicateRoleName)
	roleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoleService_DeleteRole(t *testing.T) {
	t.Run("system roles cannot be deleted", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		svc := NewRoleService(roleRepo, new(MockUserRepository), zap.NewNop())

		role, err := identity.NewSystemRole(identity.SystemRoleAdministrator, "Full system access", identity.AllPermissions())
		require.NoError(t, err)
		roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)

		err = svc.DeleteRole(context.Background(), role.ID)
		assert.Error(t, err)
		roleRepo.AssertNotCalled(t, "DeleteIfUnreferenced", mock.Anything, mock.Anything)
	})

	t.Run("roles still assigned to users cannot be deleted", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		svc := NewRoleService(roleRepo, new(MockUserRepository), zap.NewNop())

		role, err := identity.NewRole("Auditors", "Read-only finance access", nil)
		require.NoError(t, err)
		roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		roleRepo.On("DeleteIfUnreferenced", mock.Anything, role.ID).Return(identity.ErrRoleInUse)

		err = svc.DeleteRole(context.Background(), role.ID)
		assert.ErrorIs(t, err, identity.ErrRoleInUse)
	})

	t.Run("unused custom role is deleted", func(t *testing.T) {
		roleRepo := new(MockRoleRepository)
		svc := NewRoleService(roleRepo, new(MockUserRepository), zap.NewNop())

		role, err := identity.NewRole("Auditors", "Read-only finance access", nil)
		require.NoError(t, err)
		roleRepo.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		roleRepo.On("DeleteIfUnreferenced", mock.Anything, role.ID).Return(nil)

		assert.NoError(t, svc.DeleteRole(context.Background(), role.ID))
		roleRepo.AssertExpectations(t)
	})
}

func TestRoleService_AssignRolesToUser_RejectsUnknownRole(t *testing.T) {
	roleRepo := new(MockRoleRepository)
	userRepo := new(MockUserRepository)
	svc := NewRoleService(roleRepo, userRepo, zap.NewNop())

	user, err := identity.NewUser("a@b.com", "hash", "An", "Nguyen", identity.AccountRoleUser, uuid.New())
	require.NoError(t, err)
	known, err := identity.NewRole("Auditors", "Read-only finance access", nil)
	require.NoError(t, err)
	unknown := uuid.New()

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	roleRepo.On("FindByIDs", mock.Anything, []uuid.UUID{known.ID, unknown}).
		Return([]*identity.Role{known}, nil)

	err = svc.AssignRolesToUser(context.Background(), user.ID, []uuid.UUID{known.ID, unknown})
	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
