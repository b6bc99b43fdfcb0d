package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/notification"
	"github.com/paydesk/backend/internal/domain/shared"
)

// MockNotificationRepository is a mock implementation of Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) SaveAll(ctx context.Context, batch []*notification.Notification) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) (shared.Paginated[*notification.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, filter)
	return args.Get(0).(shared.Paginated[*notification.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
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

func newTestUser(t *testing.T, companyID uuid.UUID, role identity.AccountRole) *identity.User {
	t.Helper()
	user, err := identity.NewUser(uuid.NewString()+"@example.com", "hash", "Test", "User", role, companyID)
	require.NoError(t, err)
	return user
}

func TestService_NotifyAccountRoles(t *testing.T) {
	companyID := uuid.New()
	roles := []identity.AccountRole{identity.AccountRoleAdmin, identity.AccountRoleManager}

	t.Run("fans out to matching users and skips the actor", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := NewService(repo, userRepo, zap.NewNop())

		actor := newTestUser(t, companyID, identity.AccountRoleManager)
		admin := newTestUser(t, companyID, identity.AccountRoleAdmin)
		manager := newTestUser(t, companyID, identity.AccountRoleManager)

		userRepo.On("FindByAccountRoles", mock.Anything, companyID, roles).
			Return([]*identity.User{actor, admin, manager}, nil)
		repo.On("SaveAll", mock.Anything, mock.MatchedBy(func(batch []*notification.Notification) bool {
			if len(batch) != 2 {
				return false
			}
			for _, n := range batch {
				if n.UserID == actor.ID {
					return false
				}
			}
			return true
		})).Return(nil)

		err := svc.NotifyAccountRoles(context.Background(), companyID, roles,
			notification.TypePaymentRequestCreated, "New Payment Request", "A new payment request has been created.",
			nil, &actor.ID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("writes nothing when only the actor matches", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := NewService(repo, userRepo, zap.NewNop())

		actor := newTestUser(t, companyID, identity.AccountRoleAdmin)
		userRepo.On("FindByAccountRoles", mock.Anything, companyID, roles).
			Return([]*identity.User{actor}, nil)

		err := svc.NotifyAccountRoles(context.Background(), companyID, roles,
			notification.TypeSystem, "Title", "Message", nil, &actor.ID)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("owner can delete", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewService(repo, new(MockUserRepository), zap.NewNop())

		owner := uuid.New()
		n, err := notification.New(owner, uuid.New(), notification.TypeSystem, "Title", "Message", nil)
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)
		repo.On("Delete", mock.Anything, n.ID).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), owner, n.ID))
		repo.AssertExpectations(t)
	})

	t.Run("other users cannot", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewService(repo, new(MockUserRepository), zap.NewNop())

		n, err := notification.New(uuid.New(), uuid.New(), notification.TypeSystem, "Title", "Message", nil)
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

		err = svc.Delete(context.Background(), uuid.New(), n.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestService_MarkRead_OwnershipEnforced(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, new(MockUserRepository), zap.NewNop())

	owner := uuid.New()
	n, err := notification.New(owner, uuid.New(), notification.TypeSystem, "Title", "Message", nil)
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

	err = svc.MarkRead(context.Background(), uuid.New(), n.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
