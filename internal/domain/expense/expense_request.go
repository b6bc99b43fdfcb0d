package expense

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paydesk/backend/internal/domain/shared"
)

// Status is the lifecycle state of an expense request
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusPaid
}

// validTransitions defines the allowed status graph. Same-status
// "transitions" are always permitted and treated as no-ops.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted, StatusCancelled},
	StatusSubmitted: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusPaid, StatusCancelled},
	StatusRejected:  {StatusDraft, StatusCancelled},
	StatusCancelled: {StatusDraft},
}

// CanTransitionTo reports whether the status may move to the target
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Category classifies what the expense was for
type Category string

const (
	CategoryTravel         Category = "travel"
	CategoryMeals          Category = "meals"
	CategoryAccommodation  Category = "accommodation"
	CategoryOfficeSupplies Category = "office_supplies"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryTraining       Category = "training"
	CategorySoftware       Category = "software"
	CategoryHardware       Category = "hardware"
	CategoryMarketing      Category = "marketing"
	CategoryOther          Category = "other"
)

// AllCategories returns every expense category
func AllCategories() []Category {
	return []Category{
		CategoryTravel, CategoryMeals, CategoryAccommodation,
		CategoryOfficeSupplies, CategoryTransportation, CategoryEntertainment,
		CategoryTraining, CategorySoftware, CategoryHardware,
		CategoryMarketing, CategoryOther,
	}
}

// IsValid reports whether the category is known
func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// ExpenseRequest is an employee's claim for reimbursement
type ExpenseRequest struct {
	shared.CompanyAggregateRoot
	RequestNumber string    `gorm:"uniqueIndex;not null;size:20"`
	Title         string    `gorm:"not null;size:255"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpenseDate   time.Time `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Currency      string          `gorm:"not null;default:'VND';size:3"`
	ExchangeRate  decimal.Decimal `gorm:"type:decimal(20,6)"`
	AmountInVND   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	VendorName    string          `gorm:"size:255"`
	Category      Category        `gorm:"not null;size:30;index"`
	Description   string          `gorm:"size:1000"`
	Status        Status          `gorm:"not null;default:'draft';size:20;index"`
	Attachments   []string        `gorm:"serializer:json;type:text"`
	Notes         string          `gorm:"size:1000"`
}

// Expense request domain errors
var (
	ErrTitleRequired       = shared.NewDomainError("VALIDATION_ERROR", "Title is required")
	ErrExpenseDateRequired = shared.NewDomainError("VALIDATION_ERROR", "Expense date is required")
	ErrInvalidAmount       = shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	ErrInvalidCategory     = shared.NewDomainError("VALIDATION_ERROR", "Unknown expense category")
	ErrInvalidStatus       = shared.NewDomainError("VALIDATION_ERROR", "Unknown expense request status")
	ErrNotEditable         = shared.NewDomainError("IMMUTABLE_STATUS", "Expense request can only be edited while draft or rejected")
	ErrNotOwner            = shared.NewDomainError("FORBIDDEN", "Expense request belongs to another user")
)

// InvalidTransitionError builds the error for a rejected status change
func InvalidTransitionError(from, to Status) *shared.DomainError {
	return shared.NewDomainError(
		"INVALID_STATUS_TRANSITION",
		fmt.Sprintf("Invalid status transition from %s to %s", from, to),
	)
}

// Domain events
type (
	// CreatedEvent is published when an expense request is created
	CreatedEvent struct {
		shared.BaseDomainEvent
		RequestNumber string          `json:"request_number"`
		Title         string          `json:"title"`
		AmountInVND   decimal.Decimal `json:"amount_in_vnd"`
		UserID        uuid.UUID       `json:"user_id"`
	}

	// StatusChangedEvent is published on every status transition
	StatusChangedEvent struct {
		shared.BaseDomainEvent
		RequestNumber string    `json:"request_number"`
		FromStatus    Status    `json:"from_status"`
		ToStatus      Status    `json:"to_status"`
		ChangedByID   uuid.UUID `json:"changed_by_id"`
	}
)

// NewExpenseRequest creates an expense request in draft status.
// Amounts in foreign currencies carry an exchange rate used to compute
// the VND equivalent.
func NewExpenseRequest(
	companyID, userID uuid.UUID,
	requestNumber, title string,
	expenseDate time.Time,
	amount decimal.Decimal,
	currency string,
	exchangeRate decimal.Decimal,
	vendorName string,
	category Category,
	description string,
) (*ExpenseRequest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if expenseDate.IsZero() {
		return nil, ErrExpenseDateRequired
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if currency == "" {
		currency = "VND"
	}

	amountInVND := amount
	if currency != "VND" {
		if !exchangeRate.IsPositive() {
			return nil, ErrInvalidAmount
		}
		amountInVND = amount.Mul(exchangeRate)
	} else {
		// VND amounts carry no exchange rate
		exchangeRate = decimal.Zero
	}

	er := &ExpenseRequest{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, userID),
		RequestNumber:        requestNumber,
		Title:                title,
		UserID:               userID,
		ExpenseDate:          expenseDate,
		Amount:               amount,
		Currency:             currency,
		ExchangeRate:         exchangeRate,
		AmountInVND:          amountInVND,
		VendorName:           strings.TrimSpace(vendorName),
		Category:             category,
		Description:          strings.TrimSpace(description),
		Status:               StatusDraft,
	}

	er.AddDomainEvent(&CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("expense_request.created", "ExpenseRequest", er.ID, companyID),
		RequestNumber:   requestNumber,
		Title:           title,
		AmountInVND:     amountInVND,
		UserID:          userID,
	})

	return er, nil
}

// IsEditable reports whether request details may still change
func (er *ExpenseRequest) IsEditable() bool {
	return er.Status == StatusDraft || er.Status == StatusRejected
}

// UpdateDetails replaces the editable fields. Only draft and rejected
// requests may be edited.
func (er *ExpenseRequest) UpdateDetails(
	title string,
	expenseDate time.Time,
	amount decimal.Decimal,
	currency string,
	exchangeRate decimal.Decimal,
	vendorName string,
	category Category,
	description, notes string,
) error {
	if !er.IsEditable() {
		return ErrNotEditable
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	if expenseDate.IsZero() {
		return ErrExpenseDateRequired
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !category.IsValid() {
		return ErrInvalidCategory
	}
	if currency == "" {
		currency = "VND"
	}

	amountInVND := amount
	if currency != "VND" {
		if !exchangeRate.IsPositive() {
			return ErrInvalidAmount
		}
		amountInVND = amount.Mul(exchangeRate)
	} else {
		exchangeRate = decimal.Zero
	}

	er.Title = title
	er.ExpenseDate = expenseDate
	er.Amount = amount
	er.Currency = currency
	er.ExchangeRate = exchangeRate
	er.AmountInVND = amountInVND
	er.VendorName = strings.TrimSpace(vendorName)
	er.Category = category
	er.Description = strings.TrimSpace(description)
	er.Notes = strings.TrimSpace(notes)
	er.touch()
	return nil
}

// TransitionTo moves the request to the target status, enforcing the
// transition graph. A same-status transition is a no-op.
func (er *ExpenseRequest) TransitionTo(target Status, notes string, changedBy uuid.UUID) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !er.Status.CanTransitionTo(target) {
		return InvalidTransitionError(er.Status, target)
	}
	if er.Status == target {
		return nil
	}

	from := er.Status
	er.Status = target
	if notes = strings.TrimSpace(notes); notes != "" {
		er.Notes = notes
	}
	er.touch()

	er.AddDomainEvent(&StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("expense_request.status_changed", "ExpenseRequest", er.ID, er.CompanyID),
		RequestNumber:   er.RequestNumber,
		FromStatus:      from,
		ToStatus:        target,
		ChangedByID:     changedBy,
	})
	return nil
}

// IsOwnedBy reports whether the request belongs to the given user
func (er *ExpenseRequest) IsOwnedBy(userID uuid.UUID) bool {
	return er.UserID == userID
}

// AddAttachment appends an attachment reference
func (er *ExpenseRequest) AddAttachment(ref string) {
	if ref = strings.TrimSpace(ref); ref == "" {
		return
	}
	er.Attachments = append(er.Attachments, ref)
	er.touch()
}

func (er *ExpenseRequest) touch() {
	er.UpdatedAt = time.Now()
	er.IncrementVersion()
}
