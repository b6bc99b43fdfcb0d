package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydesk/backend/internal/domain/identity"
)

func TestJWTManager_IssueAndVerify(t *testing.T) {
	manager := NewJWTManager("test-secret", "paydesk", time.Hour)
	userID := uuid.New()
	companyID := uuid.New()

	token, err := manager.IssueToken(userID, companyID, identity.AccountRoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.Equal(t, identity.AccountRoleManager, claims.Role)
	assert.Equal(t, "paydesk", claims.Issuer)
}

func TestJWTManager_VerifyToken_Rejects(t *testing.T) {
	manager := NewJWTManager("test-secret", "paydesk", time.Hour)
	userID := uuid.New()

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", "paydesk", time.Hour)
		token, err := other.IssueToken(userID, uuid.New(), identity.AccountRoleUser)
		require.NoError(t, err)

		_, err = manager.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token from another issuer", func(t *testing.T) {
		other := NewJWTManager("test-secret", "someone-else", time.Hour)
		token, err := other.IssueToken(userID, uuid.New(), identity.AccountRoleUser)
		require.NoError(t, err)

		_, err = manager.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret", "paydesk", -time.Minute)
		token, err := expired.IssueToken(userID, uuid.New(), identity.AccountRoleUser)
		require.NoError(t, err)

		_, err = manager.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := manager.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
