package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paydesk/backend/internal/domain/shared"
)

// Status is the lifecycle state of a payment request
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPending       Status = "pending"
	StatusApproved      Status = "approved"
	StatusPaid          Status = "paid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusOverdue       Status = "overdue"
	StatusCancelled     Status = "cancelled"
	StatusRejected      Status = "rejected"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusPaid,
		StatusPartiallyPaid, StatusOverdue, StatusCancelled, StatusRejected:
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
	StatusDraft:         {StatusPending, StatusCancelled},
	StatusPending:       {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:      {StatusPaid, StatusPartiallyPaid, StatusCancelled},
	StatusPartiallyPaid: {StatusPaid, StatusCancelled},
	StatusOverdue:       {StatusPaid, StatusPartiallyPaid, StatusCancelled},
	StatusRejected:      {StatusPending},
	StatusCancelled:     {StatusPending},
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

// Deletable reports whether a request in this status may be removed.
// Once money has moved or approval has been granted the record is kept.
func (s Status) Deletable() bool {
	switch s {
	case StatusDraft, StatusPending, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// CanAcceptPayment reports whether payments may be applied in this status
func (s Status) CanAcceptPayment() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPartiallyPaid, StatusOverdue:
		return true
	}
	return false
}

// PaymentMethod identifies how a payment was made
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodVNPay        PaymentMethod = "vnpay"
	MethodMoMo         PaymentMethod = "momo"
	MethodZaloPay      PaymentMethod = "zalopay"
	MethodCash         PaymentMethod = "cash"
)

// IsValid reports whether the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodBankTransfer, MethodVNPay, MethodMoMo, MethodZaloPay, MethodCash:
		return true
	}
	return false
}

// Client is the party the payment is requested from
type Client struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// LineItem is a billable line on a payment request
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// PaymentDetails accumulates payment activity against the request
type PaymentDetails struct {
	TransactionID   string          `json:"transaction_id,omitempty"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Notes           string          `json:"notes,omitempty"`
}

// PaymentRequest is a request for a client to pay the company
type PaymentRequest struct {
	shared.CompanyAggregateRoot
	RequestNumber  string     `gorm:"uniqueIndex;not null;size:20"`
	Client         Client     `gorm:"serializer:json;type:text"`
	Description    string     `gorm:"not null;size:1000"`
	Items          []LineItem `gorm:"serializer:json;type:text"`
	Currency       string     `gorm:"not null;default:'VND';size:3"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TaxTotal       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DueDate        time.Time       `gorm:"not null;index"`
	Status         Status          `gorm:"not null;default:'draft';size:20;index"`
	PaymentMethod  PaymentMethod   `gorm:"size:20"`
	PaymentDetails PaymentDetails  `gorm:"serializer:json;type:text"`
	Notes          string          `gorm:"size:1000"`
	Attachments    []string        `gorm:"serializer:json;type:text"`
}

// Payment request domain errors
var (
	ErrClientRequired       = shared.NewDomainError("VALIDATION_ERROR", "Client name and email are required")
	ErrDescriptionRequired  = shared.NewDomainError("VALIDATION_ERROR", "Description is required")
	ErrItemsRequired        = shared.NewDomainError("VALIDATION_ERROR", "At least one line item is required")
	ErrInvalidLineItem      = shared.NewDomainError("VALIDATION_ERROR", "Line items require a description, positive quantity and non-negative unit price")
	ErrDueDateRequired      = shared.NewDomainError("VALIDATION_ERROR", "Due date is required")
	ErrInvalidStatus        = shared.NewDomainError("VALIDATION_ERROR", "Unknown payment request status")
	ErrInvalidPaymentMethod = shared.NewDomainError("VALIDATION_ERROR", "Unknown payment method")
	ErrInvalidPaidAmount    = shared.NewDomainError("VALIDATION_ERROR", "Paid amount must be positive")
	ErrNotEditable          = shared.NewDomainError("IMMUTABLE_STATUS", "Payment request can only be edited while draft or pending")
	ErrNotPayable           = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Payment request cannot accept payments in its current status")
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
	// CreatedEvent is published when a payment request is created
	CreatedEvent struct {
		shared.BaseDomainEvent
		RequestNumber string          `json:"request_number"`
		ClientName    string          `json:"client_name"`
		TotalAmount   decimal.Decimal `json:"total_amount"`
		Currency      string          `json:"currency"`
		CreatedByID   uuid.UUID       `json:"created_by_id"`
	}

	// UpdatedEvent is published when request details change
	UpdatedEvent struct {
		shared.BaseDomainEvent
		RequestNumber string    `json:"request_number"`
		UpdatedByID   uuid.UUID `json:"updated_by_id"`
	}

	// StatusChangedEvent is published on every status transition
	StatusChangedEvent struct {
		shared.BaseDomainEvent
		RequestNumber string    `json:"request_number"`
		FromStatus    Status    `json:"from_status"`
		ToStatus      Status    `json:"to_status"`
		ChangedByID   uuid.UUID `json:"changed_by_id"`
	}

	// PaymentReceivedEvent is published when a payment is applied
	PaymentReceivedEvent struct {
		shared.BaseDomainEvent
		RequestNumber string          `json:"request_number"`
		PaidAmount    decimal.Decimal `json:"paid_amount"`
		Remaining     decimal.Decimal `json:"remaining"`
		Currency      string          `json:"currency"`
		Method        PaymentMethod   `json:"method"`
		ReceivedByID  uuid.UUID       `json:"received_by_id"`
	}

	// OverdueEvent is published when the overdue sweep flags a request
	OverdueEvent struct {
		shared.BaseDomainEvent
		RequestNumber string    `json:"request_number"`
		DueDate       time.Time `json:"due_date"`
	}
)

// NewPaymentRequest creates a payment request in draft status.
// Totals are computed from the line items.
func NewPaymentRequest(
	companyID, createdBy uuid.UUID,
	requestNumber string,
	client Client,
	description string,
	items []LineItem,
	currency string,
	discountAmount decimal.Decimal,
	dueDate time.Time,
) (*PaymentRequest, error) {
	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	description = strings.TrimSpace(description)

	if client.Name == "" || client.Email == "" {
		return nil, ErrClientRequired
	}
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if len(items) == 0 {
		return nil, ErrItemsRequired
	}
	if dueDate.IsZero() {
		return nil, ErrDueDateRequired
	}
	if currency == "" {
		currency = "VND"
	}
	if discountAmount.IsNegative() {
		return nil, ErrInvalidPaidAmount
	}

	normalized, subtotal, taxTotal, err := normalizeItems(items)
	if err != nil {
		return nil, err
	}
	total := subtotal.Add(taxTotal).Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	pr := &PaymentRequest{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		RequestNumber:        requestNumber,
		Client:               client,
		Description:          description,
		Items:                normalized,
		Currency:             currency,
		Subtotal:             subtotal,
		TaxTotal:             taxTotal,
		DiscountAmount:       discountAmount,
		TotalAmount:          total,
		DueDate:              dueDate,
		Status:               StatusDraft,
		PaymentDetails: PaymentDetails{
			PaidAmount:      decimal.Zero,
			RemainingAmount: total,
		},
	}

	pr.AddDomainEvent(&CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment_request.created", "PaymentRequest", pr.ID, companyID),
		RequestNumber:   requestNumber,
		ClientName:      client.Name,
		TotalAmount:     total,
		Currency:        currency,
		CreatedByID:     createdBy,
	})

	return pr, nil
}

func normalizeItems(items []LineItem) ([]LineItem, decimal.Decimal, decimal.Decimal, error) {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		item.Description = strings.TrimSpace(item.Description)
		if item.Description == "" || !item.Quantity.IsPositive() || item.UnitPrice.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, ErrInvalidLineItem
		}
		item.Amount = item.Quantity.Mul(item.UnitPrice)
		if item.TaxRate.IsPositive() {
			item.TaxAmount = item.Amount.Mul(item.TaxRate).Div(decimal.NewFromInt(100))
		}
		subtotal = subtotal.Add(item.Amount)
		taxTotal = taxTotal.Add(item.TaxAmount)
		out = append(out, item)
	}
	return out, subtotal, taxTotal, nil
}

// IsEditable reports whether request details may still change
func (pr *PaymentRequest) IsEditable() bool {
	return pr.Status == StatusDraft || pr.Status == StatusPending
}

// UpdateDetails replaces the editable fields and recomputes totals.
// Only draft and pending requests may be edited.
func (pr *PaymentRequest) UpdateDetails(
	client Client,
	description string,
	items []LineItem,
	discountAmount decimal.Decimal,
	dueDate time.Time,
	notes string,
	updatedBy uuid.UUID,
) error {
	if !pr.IsEditable() {
		return ErrNotEditable
	}
	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	if client.Name == "" || client.Email == "" {
		return ErrClientRequired
	}
	if len(items) == 0 {
		return ErrItemsRequired
	}
	if dueDate.IsZero() {
		return ErrDueDateRequired
	}
	if discountAmount.IsNegative() {
		return ErrInvalidPaidAmount
	}
	normalized, subtotal, taxTotal, err := normalizeItems(items)
	if err != nil {
		return err
	}

	pr.Client = client
	if description = strings.TrimSpace(description); description != "" {
		pr.Description = description
	}
	pr.Items = normalized
	pr.Subtotal = subtotal
	pr.TaxTotal = taxTotal
	pr.DiscountAmount = discountAmount
	pr.TotalAmount = subtotal.Add(taxTotal).Sub(discountAmount)
	if pr.TotalAmount.IsNegative() {
		pr.TotalAmount = decimal.Zero
	}
	pr.DueDate = dueDate
	pr.Notes = strings.TrimSpace(notes)
	pr.PaymentDetails.RemainingAmount = pr.TotalAmount.Sub(pr.PaymentDetails.PaidAmount)
	if pr.PaymentDetails.RemainingAmount.IsNegative() {
		pr.PaymentDetails.RemainingAmount = decimal.Zero
	}
	pr.touch()

	pr.AddDomainEvent(&UpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment_request.updated", "PaymentRequest", pr.ID, pr.CompanyID),
		RequestNumber:   pr.RequestNumber,
		UpdatedByID:     updatedBy,
	})
	return nil
}

// TransitionTo moves the request to the target status, enforcing the
// transition graph. A same-status transition is a no-op.
func (pr *PaymentRequest) TransitionTo(target Status, notes string, changedBy uuid.UUID) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !pr.Status.CanTransitionTo(target) {
		return InvalidTransitionError(pr.Status, target)
	}
	if pr.Status == target {
		return nil
	}

	from := pr.Status
	pr.Status = target
	if notes = strings.TrimSpace(notes); notes != "" {
		pr.Notes = notes
	}
	pr.touch()

	pr.AddDomainEvent(&StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment_request.status_changed", "PaymentRequest", pr.ID, pr.CompanyID),
		RequestNumber:   pr.RequestNumber,
		FromStatus:      from,
		ToStatus:        target,
		ChangedByID:     changedBy,
	})
	return nil
}

// ApplyPayment records a payment against the request. Payments
// accumulate; once the remaining amount reaches zero the request is
// paid, otherwise it becomes partially paid. Overpayment is accepted
// and the remaining amount clamps at zero.
func (pr *PaymentRequest) ApplyPayment(
	method PaymentMethod,
	amount decimal.Decimal,
	transactionID string,
	paymentDate *time.Time,
	notes string,
	receivedBy uuid.UUID,
) error {
	if !pr.Status.CanAcceptPayment() {
		return ErrNotPayable
	}
	if !method.IsValid() {
		return ErrInvalidPaymentMethod
	}
	if !amount.IsPositive() {
		return ErrInvalidPaidAmount
	}

	newPaid := pr.PaymentDetails.PaidAmount.Add(amount)
	remaining := pr.TotalAmount.Sub(newPaid)

	if remaining.LessThanOrEqual(decimal.Zero) {
		pr.Status = StatusPaid
		remaining = decimal.Zero
	} else {
		pr.Status = StatusPartiallyPaid
	}

	when := time.Now()
	if paymentDate != nil {
		when = *paymentDate
	}

	pr.PaymentMethod = method
	pr.PaymentDetails = PaymentDetails{
		TransactionID:   strings.TrimSpace(transactionID),
		PaymentDate:     &when,
		PaidAmount:      newPaid,
		RemainingAmount: remaining,
		Notes:           strings.TrimSpace(notes),
	}
	pr.touch()

	pr.AddDomainEvent(&PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment_request.payment_received", "PaymentRequest", pr.ID, pr.CompanyID),
		RequestNumber:   pr.RequestNumber,
		PaidAmount:      amount,
		Remaining:       remaining,
		Currency:        pr.Currency,
		Method:          method,
		ReceivedByID:    receivedBy,
	})
	return nil
}

// MarkOverdue flips the request to overdue. Only requests awaiting
// payment can go overdue.
func (pr *PaymentRequest) MarkOverdue() bool {
	switch pr.Status {
	case StatusPending, StatusApproved, StatusPartiallyPaid:
	default:
		return false
	}
	pr.Status = StatusOverdue
	pr.touch()
	pr.AddDomainEvent(&OverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment_request.overdue", "PaymentRequest", pr.ID, pr.CompanyID),
		RequestNumber:   pr.RequestNumber,
		DueDate:         pr.DueDate,
	})
	return true
}

// IsPastDue reports whether the due date is before the start of the given day
func (pr *PaymentRequest) IsPastDue(now time.Time) bool {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return pr.DueDate.Before(startOfDay)
}

// AddAttachment appends an attachment reference
func (pr *PaymentRequest) AddAttachment(ref string) {
	if ref = strings.TrimSpace(ref); ref == "" {
		return
	}
	pr.Attachments = append(pr.Attachments, ref)
	pr.touch()
}

func (pr *PaymentRequest) touch() {
	pr.UpdatedAt = time.Now()
	pr.IncrementVersion()
}
