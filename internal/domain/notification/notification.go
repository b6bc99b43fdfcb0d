package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paydesk/backend/internal/domain/shared"
)

// Type classifies a notification
type Type string

const (
	TypePaymentRequestCreated Type = "payment_request_created"
	TypePaymentRequestUpdated Type = "payment_request_updated"
	TypePaymentReceived       Type = "payment_received"
	TypePaymentOverdue        Type = "payment_overdue"
	TypePaymentReminder       Type = "payment_reminder"
	TypeSystem                Type = "system"
)

// IsValid reports whether the notification type is known
func (t Type) IsValid() bool {
	switch t {
	case TypePaymentRequestCreated, TypePaymentRequestUpdated, TypePaymentReceived,
		TypePaymentOverdue, TypePaymentReminder, TypeSystem:
		return true
	}
	return false
}

// RelatedDocument points at the record the notification is about
type RelatedDocument struct {
	Model      string    `json:"model"`
	DocumentID uuid.UUID `json:"document_id"`
}

// Notification is an in-app message delivered to one user
type Notification struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      Type      `gorm:"not null;size:40"`
	Title     string    `gorm:"not null;size:255"`
	Message   string    `gorm:"not null;size:1000"`
	IsRead    bool      `gorm:"not null;default:false;index"`
	RelatedTo *RelatedDocument `gorm:"serializer:json;type:text"`
}

// Notification domain errors
var (
	ErrInvalidType     = shared.NewDomainError("VALIDATION_ERROR", "Unknown notification type")
	ErrMessageRequired = shared.NewDomainError("VALIDATION_ERROR", "Notification title and message are required")
)

// New creates a notification for a user
func New(userID, companyID uuid.UUID, notifType Type, title, message string, relatedTo *RelatedDocument) (*Notification, error) {
	if !notifType.IsValid() {
		return nil, ErrInvalidType
	}
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" || message == "" {
		return nil, ErrMessageRequired
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		CompanyID:  companyID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		RelatedTo:  relatedTo,
	}, nil
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.UpdatedAt = time.Now()
}
