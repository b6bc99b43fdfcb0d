package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	userID, companyID := uuid.New(), uuid.New()

	n, err := New(userID, companyID, TypePaymentOverdue, "Payment Overdue", "PR-26-08-0001 is overdue", &RelatedDocument{
		Model:      "PaymentRequest",
		DocumentID: uuid.New(),
	})
	require.NoError(t, err)
	assert.False(t, n.IsRead)
	assert.Equal(t, userID, n.UserID)

	_, err = New(userID, companyID, "broadcast", "t", "m", nil)
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = New(userID, companyID, TypeSystem, "", "m", nil)
	assert.ErrorIs(t, err, ErrMessageRequired)
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := New(uuid.New(), uuid.New(), TypeSystem, "t", "m", nil)
	require.NoError(t, err)

	n.MarkRead()
	assert.True(t, n.IsRead)

	stamp := n.UpdatedAt
	n.MarkRead()
	assert.Equal(t, stamp, n.UpdatedAt)
}
