package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/notification"
	"github.com/paydesk/backend/internal/domain/shared"
)

// Service creates and delivers in-app notifications
type Service struct {
	repo     notification.Repository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewService creates a notification service
func NewService(repo notification.Repository, userRepo identity.UserRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, userRepo: userRepo, logger: logger}
}

// Notify creates a notification for one user
func (s *Service) Notify(ctx context.Context, userID, companyID uuid.UUID, notifType notification.Type, title, message string, relatedTo *notification.RelatedDocument) error {
	n, err := notification.New(userID, companyID, notifType, title, message, relatedTo)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, n)
}

// NotifyAccountRoles fans a notification out to every active user of
// the company whose account role matches. The actor, when given, is
// skipped so users are not notified about their own actions.
func (s *Service) NotifyAccountRoles(
	ctx context.Context,
	companyID uuid.UUID,
	roles []identity.AccountRole,
	notifType notification.Type,
	title, message string,
	relatedTo *notification.RelatedDocument,
	actorID *uuid.UUID,
) error {
	users, err := s.userRepo.FindByAccountRoles(ctx, companyID, roles)
	if err != nil {
		return err
	}

	batch := make([]*notification.Notification, 0, len(users))
	for _, user := range users {
		if actorID != nil && user.ID == *actorID {
			continue
		}
		n, err := notification.New(user.ID, companyID, notifType, title, message, relatedTo)
		if err != nil {
			return err
		}
		batch = append(batch, n)
	}
	if len(batch) == 0 {
		return nil
	}
	if err := s.repo.SaveAll(ctx, batch); err != nil {
		return err
	}

	s.logger.Debug("notifications fanned out",
		zap.String("company_id", companyID.String()),
		zap.String("type", string(notifType)),
		zap.Int("recipients", len(batch)))
	return nil
}

// ListForUser returns a page of the user's notifications
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) (shared.Paginated[*notification.Notification], error) {
	return s.repo.FindByUser(ctx, userID, unreadOnly, filter)
}

// UnreadCount returns the user's unread notification count
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flags one notification as read. Users may only mark their
// own notifications.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return shared.ErrForbidden
	}
	n.MarkRead()
	return s.repo.Update(ctx, n)
}

// MarkAllRead flags every unread notification of the user as read and
// returns how many were updated
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// Delete removes one notification. Users may only delete their own.
func (s *Service) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return shared.ErrForbidden
	}
	return s.repo.Delete(ctx, notificationID)
}
