package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/notification"
	"github.com/paydesk/backend/internal/domain/shared"
)

// Actor identifies who is performing an operation and how wide their
// read access is. ReadAll is true when the user holds the read_all
// permission on payment requests.
type Actor struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	ReadAll   bool
}

// Notifier delivers in-app notifications to company users
type Notifier interface {
	NotifyAccountRoles(
		ctx context.Context,
		companyID uuid.UUID,
		roles []identity.AccountRole,
		notifType notification.Type,
		title, message string,
		relatedTo *notification.RelatedDocument,
		actorID *uuid.UUID,
	) error
}

// backOfficeRoles receive notifications about payment activity
var backOfficeRoles = []identity.AccountRole{
	identity.AccountRoleAdmin,
	identity.AccountRoleManager,
	identity.AccountRoleAccountant,
}

// PaymentService manages payment requests and payment processing
type PaymentService struct {
	repo      billing.PaymentRequestRepository
	numbers   billing.RequestNumberGenerator
	urls      billing.PaymentURLBuilder
	notifier  Notifier
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a payment service
func NewPaymentService(
	repo billing.PaymentRequestRepository,
	numbers billing.RequestNumberGenerator,
	urls billing.PaymentURLBuilder,
	notifier Notifier,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		repo:      repo,
		numbers:   numbers,
		urls:      urls,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// LineItemInput is one billable line in a create or update request
type LineItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

func toLineItems(inputs []LineItemInput) []billing.LineItem {
	items := make([]billing.LineItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, billing.LineItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     in.TaxRate,
		})
	}
	return items
}

// CreateInput carries the data to create a payment request
type CreateInput struct {
	Client         billing.Client  `json:"client" binding:"required"`
	Description    string          `json:"description" binding:"required"`
	Items          []LineItemInput `json:"items" binding:"required,min=1"`
	Currency       string          `json:"currency"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DueDate        time.Time       `json:"due_date" binding:"required"`
}

// Create creates a payment request in draft status and notifies the
// company's back-office users
func (s *PaymentService) Create(ctx context.Context, actor Actor, input CreateInput) (*billing.PaymentRequest, error) {
	number, err := s.numbers.NextPaymentRequestNumber(ctx, actor.CompanyID, time.Now())
	if err != nil {
		return nil, err
	}

	pr, err := billing.NewPaymentRequest(
		actor.CompanyID, actor.UserID, number,
		input.Client, input.Description, toLineItems(input.Items),
		input.Currency, input.DiscountAmount, input.DueDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, pr); err != nil {
		return nil, err
	}
	s.publish(ctx, pr)

	s.notify(ctx, pr, notification.TypePaymentRequestCreated, "New Payment Request",
		fmt.Sprintf("A new payment request (%s) has been created for %s.", pr.RequestNumber, pr.Client.Name),
		&actor.UserID)

	s.logger.Info("payment request created",
		zap.String("request_number", pr.RequestNumber),
		zap.String("company_id", pr.CompanyID.String()))
	return pr, nil
}

// UpdateInput carries the editable fields of a payment request
type UpdateInput struct {
	Client         billing.Client  `json:"client" binding:"required"`
	Description    string          `json:"description"`
	Items          []LineItemInput `json:"items" binding:"required,min=1"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DueDate        time.Time       `json:"due_date" binding:"required"`
	Notes          string          `json:"notes"`
}

// Update edits a draft or pending payment request
func (s *PaymentService) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateInput) (*billing.PaymentRequest, error) {
	pr, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := pr.UpdateDetails(
		input.Client, input.Description, toLineItems(input.Items),
		input.DiscountAmount, input.DueDate, input.Notes, actor.UserID,
	); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, pr); err != nil {
		return nil, err
	}
	s.publish(ctx, pr)

	s.notify(ctx, pr, notification.TypePaymentRequestUpdated, "Payment Request Updated",
		fmt.Sprintf("Payment request %s has been updated.", pr.RequestNumber),
		&actor.UserID)
	return pr, nil
}

// ChangeStatus moves a payment request through its lifecycle
func (s *PaymentService) ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, target billing.Status, notes string) (*billing.PaymentRequest, error) {
	pr, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := pr.TransitionTo(target, notes, actor.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, pr); err != nil {
		return nil, err
	}
	s.publish(ctx, pr)

	s.notify(ctx, pr, notification.TypePaymentRequestUpdated, "Payment Request Status Updated",
		fmt.Sprintf("Payment request %s status has been updated to %s.", pr.RequestNumber, target),
		&actor.UserID)
	return pr, nil
}

// ProcessPaymentInput carries a payment to apply to a request
type ProcessPaymentInput struct {
	PaymentMethod billing.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
	PaidAmount    decimal.Decimal       `json:"paid_amount" binding:"required"`
	TransactionID string                `json:"transaction_id"`
	PaymentDate   *time.Time            `json:"payment_date"`
	Notes         string                `json:"notes"`
}

// ProcessPayment applies a payment to the request. Payments
// accumulate until the total is covered.
func (s *PaymentService) ProcessPayment(ctx context.Context, actor Actor, id uuid.UUID, input ProcessPaymentInput) (*billing.PaymentRequest, error) {
	pr, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := pr.ApplyPayment(
		input.PaymentMethod, input.PaidAmount,
		input.TransactionID, input.PaymentDate, input.Notes, actor.UserID,
	); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, pr); err != nil {
		return nil, err
	}
	s.publish(ctx, pr)

	s.notify(ctx, pr, notification.TypePaymentReceived, "Payment Received",
		fmt.Sprintf("Payment of %s %s received for payment request %s", input.PaidAmount, pr.Currency, pr.RequestNumber),
		&actor.UserID)

	s.logger.Info("payment processed",
		zap.String("request_number", pr.RequestNumber),
		zap.String("status", string(pr.Status)),
		zap.String("paid", input.PaidAmount.String()))
	return pr, nil
}

// PaymentURL builds a hosted checkout URL for an online payment method
func (s *PaymentService) PaymentURL(ctx context.Context, actor Actor, id uuid.UUID, method billing.PaymentMethod, returnURL string) (string, error) {
	pr, err := s.load(ctx, actor, id)
	if err != nil {
		return "", err
	}
	if !pr.Status.CanAcceptPayment() {
		return "", billing.ErrNotPayable
	}
	return s.urls.BuildPaymentURL(pr, method, returnURL)
}

// Get returns a payment request. Users without read_all may only see
// requests they created.
func (s *PaymentService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*billing.PaymentRequest, error) {
	return s.load(ctx, actor, id)
}

// List returns a page of the company's payment requests. Users
// without read_all only see their own.
func (s *PaymentService) List(ctx context.Context, actor Actor, filter shared.Filter) (shared.Paginated[*billing.PaymentRequest], error) {
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	if !actor.ReadAll {
		filter.Filters["created_by"] = actor.UserID
	}
	return s.repo.FindByCompany(ctx, actor.CompanyID, filter)
}

// Delete removes a payment request. Requests that have been approved
// or carry payments are kept for the audit trail.
func (s *PaymentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	pr, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !pr.Status.Deletable() {
		return shared.NewDomainError("IMMUTABLE_STATUS", "Payment request cannot be deleted in its current status")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("payment request deleted", zap.String("request_number", pr.RequestNumber))
	return nil
}

// Statistics summarizes the company's payment requests
func (s *PaymentService) Statistics(ctx context.Context, companyID uuid.UUID) (*billing.Statistics, error) {
	return s.repo.Statistics(ctx, companyID)
}

// CheckOverdue flips every past-due request awaiting payment to
// overdue and notifies the back office. It returns how many requests
// were flipped.
func (s *PaymentService) CheckOverdue(ctx context.Context) (int, error) {
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	candidates, err := s.repo.FindPastDue(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	flipped := 0
	for _, pr := range candidates {
		if !pr.MarkOverdue() {
			continue
		}
		if err := s.repo.Update(ctx, pr); err != nil {
			s.logger.Error("failed to mark request overdue",
				zap.String("request_number", pr.RequestNumber), zap.Error(err))
			continue
		}
		s.publish(ctx, pr)
		flipped++

		s.notify(ctx, pr, notification.TypePaymentOverdue, "Payment Overdue",
			fmt.Sprintf("Payment request %s is overdue. Due date was %s.",
				pr.RequestNumber, pr.DueDate.Format("02/01/2006")),
			nil)
	}

	if flipped > 0 {
		s.logger.Info("overdue sweep complete", zap.Int("flipped", flipped))
	}
	return flipped, nil
}

func (s *PaymentService) load(ctx context.Context, actor Actor, id uuid.UUID) (*billing.PaymentRequest, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr.CompanyID != actor.CompanyID {
		return nil, shared.ErrNotFound
	}
	if !actor.ReadAll && (pr.CreatedBy == nil || *pr.CreatedBy != actor.UserID) {
		return nil, shared.ErrForbidden
	}
	return pr, nil
}

func (s *PaymentService) publish(ctx context.Context, pr *billing.PaymentRequest) {
	if events := pr.GetDomainEvents(); len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish domain events", zap.Error(err))
		}
		pr.ClearDomainEvents()
	}
}

func (s *PaymentService) notify(ctx context.Context, pr *billing.PaymentRequest, notifType notification.Type, title, message string, actorID *uuid.UUID) {
	related := &notification.RelatedDocument{Model: "PaymentRequest", DocumentID: pr.ID}
	if err := s.notifier.NotifyAccountRoles(ctx, pr.CompanyID, backOfficeRoles, notifType, title, message, related, actorID); err != nil {
		s.logger.Warn("failed to send notifications",
			zap.String("request_number", pr.RequestNumber), zap.Error(err))
	}
}
