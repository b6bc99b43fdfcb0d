package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	notificationapp "github.com/paydesk/backend/internal/application/notification"
	"github.com/paydesk/backend/internal/domain/shared"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
)

// NotificationHandler serves the caller's in-app notifications
type NotificationHandler struct {
	notifications *notificationapp.Service
}

// NewNotificationHandler creates a notification handler
func NewNotificationHandler(notifications *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	unreadOnly := c.Query("unread_only") == "true"
	page, err := h.notifications.ListForUser(c.Request.Context(), claims.UserID, unreadOnly, parseFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	claims := middleware.GetClaims(c)

	count, err := h.notifications.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead handles PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.notifications.MarkRead(c.Request.Context(), claims.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims := middleware.GetClaims(c)

	updated, err := h.notifications.MarkAllRead(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"updated": updated})
}

// Delete handles DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, shared.ErrNotFound)
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.notifications.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Notification deleted"})
}
