package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/paydesk/backend/internal/domain/shared"
)

// Repository persists notifications
type Repository interface {
	Save(ctx context.Context, n *Notification) error
	SaveAll(ctx context.Context, ns []*Notification) error
	Update(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) (shared.Paginated[*Notification], error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
