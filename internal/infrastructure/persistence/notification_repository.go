package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paydesk/backend/internal/domain/notification"
	"github.com/paydesk/backend/internal/domain/shared"
)

// GormNotificationRepository implements notification.Repository using
// GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

var _ notification.Repository = (*GormNotificationRepository)(nil)

// NewGormNotificationRepository creates a new repository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save creates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// SaveAll creates a batch of notifications in one transaction
func (r *GormNotificationRepository) SaveAll(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

// Update updates a notification
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	result := r.db.WithContext(ctx).Save(n)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindByUser returns a page of the user's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) (shared.Paginated[*notification.Notification], error) {
	query := r.db.WithContext(ctx).Model(&notification.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	return paginate[*notification.Notification](query, filter)
}

// CountUnread counts the user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead flags every unread notification of the user as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// Delete deletes a notification by ID
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&notification.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
