package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/expense"
	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/notification"
	"github.com/paydesk/backend/internal/domain/shared"
)

// Actor identifies who is performing an operation. ReadAll is true
// when the user holds the read_all permission on expense requests.
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

var backOfficeRoles = []identity.AccountRole{
	identity.AccountRoleAdmin,
	identity.AccountRoleManager,
	identity.AccountRoleAccountant,
}

// ExpenseService manages employee expense requests
type ExpenseService struct {
	repo      expense.ExpenseRequestRepository
	numbers   expense.RequestNumberGenerator
	notifier  Notifier
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewExpenseService creates an expense service
func NewExpenseService(
	repo expense.ExpenseRequestRepository,
	numbers expense.RequestNumberGenerator,
	notifier Notifier,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		repo:      repo,
		numbers:   numbers,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateInput carries the data to create an expense request
type CreateInput struct {
	Title        string           `json:"title" binding:"required"`
	ExpenseDate  time.Time        `json:"expense_date" binding:"required"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	Currency     string           `json:"currency"`
	ExchangeRate decimal.Decimal  `json:"exchange_rate"`
	VendorName   string           `json:"vendor_name"`
	Category     expense.Category `json:"category" binding:"required,expense_category"`
	Description  string           `json:"description"`
}

// Create creates an expense request in draft status
func (s *ExpenseService) Create(ctx context.Context, actor Actor, input CreateInput) (*expense.ExpenseRequest, error) {
	number, err := s.numbers.NextExpenseRequestNumber(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	er, err := expense.NewExpenseRequest(
		actor.CompanyID, actor.UserID, number,
		input.Title, input.ExpenseDate, input.Amount,
		input.Currency, input.ExchangeRate,
		input.VendorName, input.Category, input.Description,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, er); err != nil {
		return nil, err
	}
	s.publish(ctx, er)

	s.logger.Info("expense request created",
		zap.String("request_number", er.RequestNumber),
		zap.String("user_id", actor.UserID.String()))
	return er, nil
}

// UpdateInput carries the editable fields of an expense request
type UpdateInput struct {
	Title        string           `json:"title" binding:"required"`
	ExpenseDate  time.Time        `json:"expense_date" binding:"required"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	Currency     string           `json:"currency"`
	ExchangeRate decimal.Decimal  `json:"exchange_rate"`
	VendorName   string           `json:"vendor_name"`
	Category     expense.Category `json:"category" binding:"required,expense_category"`
	Description  string           `json:"description"`
	Notes        string           `json:"notes"`
}

// Update edits a draft or rejected expense request. Only the owner
// may edit their request.
func (s *ExpenseService) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateInput) (*expense.ExpenseRequest, error) {
	er, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !er.IsOwnedBy(actor.UserID) {
		return nil, expense.ErrNotOwner
	}

	if err := er.UpdateDetails(
		input.Title, input.ExpenseDate, input.Amount,
		input.Currency, input.ExchangeRate,
		input.VendorName, input.Category, input.Description, input.Notes,
	); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, er); err != nil {
		return nil, err
	}
	s.publish(ctx, er)
	return er, nil
}

// ChangeStatus moves an expense request through its lifecycle and
// notifies the back office
func (s *ExpenseService) ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, target expense.Status, notes string) (*expense.ExpenseRequest, error) {
	er, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := er.TransitionTo(target, notes, actor.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, er); err != nil {
		return nil, err
	}
	s.publish(ctx, er)

	related := &notification.RelatedDocument{Model: "ExpenseRequest", DocumentID: er.ID}
	if err := s.notifier.NotifyAccountRoles(ctx, er.CompanyID, backOfficeRoles,
		notification.TypeSystem, "Expense Request Status Updated",
		fmt.Sprintf("Expense request %s status has been updated to %s.", er.RequestNumber, target),
		related, &actor.UserID); err != nil {
		s.logger.Warn("failed to send notifications",
			zap.String("request_number", er.RequestNumber), zap.Error(err))
	}
	return er, nil
}

// Get returns an expense request. Users without read_all only see
// their own requests.
func (s *ExpenseService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*expense.ExpenseRequest, error) {
	return s.load(ctx, actor, id)
}

// List returns a page of expense requests. Users without read_all
// only see their own.
func (s *ExpenseService) List(ctx context.Context, actor Actor, filter shared.Filter) (shared.Paginated[*expense.ExpenseRequest], error) {
	if actor.ReadAll {
		return s.repo.FindByCompany(ctx, actor.CompanyID, filter)
	}
	return s.repo.FindByUser(ctx, actor.CompanyID, actor.UserID, filter)
}

// Delete removes an expense request. Only the owner's drafts can be
// deleted.
func (s *ExpenseService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	er, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !er.IsOwnedBy(actor.UserID) && !actor.ReadAll {
		return expense.ErrNotOwner
	}
	if er.Status != expense.StatusDraft {
		return shared.NewDomainError("IMMUTABLE_STATUS", "Only draft expense requests can be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("expense request deleted", zap.String("request_number", er.RequestNumber))
	return nil
}

// Categories returns the expense category catalog
func (s *ExpenseService) Categories() []expense.Category {
	return expense.AllCategories()
}

func (s *ExpenseService) load(ctx context.Context, actor Actor, id uuid.UUID) (*expense.ExpenseRequest, error) {
	er, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if er.CompanyID != actor.CompanyID {
		return nil, shared.ErrNotFound
	}
	if !actor.ReadAll && !er.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrForbidden
	}
	return er, nil
}

func (s *ExpenseService) publish(ctx context.Context, er *expense.ExpenseRequest) {
	if events := er.GetDomainEvents(); len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish domain events", zap.Error(err))
		}
		er.ClearDomainEvents()
	}
}
