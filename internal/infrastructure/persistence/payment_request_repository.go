package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/domain/shared"
	"github.com/paydesk/backend/internal/domain/shared/valueobject"
)

// GormPaymentRequestRepository implements PaymentRequestRepository
// using GORM
type GormPaymentRequestRepository struct {
	db *gorm.DB
}

var _ billing.PaymentRequestRepository = (*GormPaymentRequestRepository)(nil)

// NewGormPaymentRequestRepository creates a new repository
func NewGormPaymentRequestRepository(db *gorm.DB) *GormPaymentRequestRepository {
	return &GormPaymentRequestRepository{db: db}
}

// Save creates a new payment request
func (r *GormPaymentRequestRepository) Save(ctx context.Context, pr *billing.PaymentRequest) error {
	return r.db.WithContext(ctx).Create(pr).Error
}

// Update updates an existing payment request with optimistic locking
// on the version column
func (r *GormPaymentRequestRepository) Update(ctx context.Context, pr *billing.PaymentRequest) error {
	result := r.db.WithContext(ctx).
		Model(&billing.PaymentRequest{}).
		Where("id = ? AND version = ?", pr.ID, pr.GetVersion()-1).
		Select("*").
		Updates(pr)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a payment request by ID
func (r *GormPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	var pr billing.PaymentRequest
	if err := r.db.WithContext(ctx).First(&pr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// FindByRequestNumber finds a request by its number within a company
func (r *GormPaymentRequestRepository) FindByRequestNumber(ctx context.Context, companyID uuid.UUID, requestNumber string) (*billing.PaymentRequest, error) {
	var pr billing.PaymentRequest
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND request_number = ?", companyID, requestNumber).
		First(&pr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// FindByCompany returns a page of the company's payment requests.
// Supported filters: status, created_by, due_before, due_after.
func (r *GormPaymentRequestRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.PaymentRequest], error) {
	query := r.db.WithContext(ctx).Model(&billing.PaymentRequest{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(request_number) LIKE ? OR LOWER(description) LIKE ? OR LOWER(client) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if createdBy, ok := filter.Filters["created_by"]; ok {
		query = query.Where("created_by = ?", createdBy)
	}
	if dueBefore, ok := filter.Filters["due_before"]; ok {
		query = query.Where("due_date < ?", dueBefore)
	}
	if dueAfter, ok := filter.Filters["due_after"]; ok {
		query = query.Where("due_date >= ?", dueAfter)
	}

	return paginate[*billing.PaymentRequest](query, filter)
}

// FindPastDue returns requests awaiting payment whose due date is
// before the cutoff, across all companies
func (r *GormPaymentRequestRepository) FindPastDue(ctx context.Context, cutoff time.Time) ([]*billing.PaymentRequest, error) {
	var requests []*billing.PaymentRequest
	if err := r.db.WithContext(ctx).
		Where("due_date < ? AND status IN ?", cutoff, []billing.Status{
			billing.StatusPending,
			billing.StatusApproved,
			billing.StatusPartiallyPaid,
		}).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Delete deletes a payment request by ID
func (r *GormPaymentRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.PaymentRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Statistics summarizes the company's payment requests. Paid amounts
// live in the serialized payment details, so the rows are scanned and
// aggregated here rather than in SQL.
func (r *GormPaymentRequestRepository) Statistics(ctx context.Context, companyID uuid.UUID) (*billing.Statistics, error) {
	var requests []*billing.PaymentRequest
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&requests).Error; err != nil {
		return nil, err
	}

	stats := &billing.Statistics{
		TotalAmount:      valueobject.Zero(valueobject.DefaultCurrency),
		TotalPaid:        valueobject.Zero(valueobject.DefaultCurrency),
		TotalOutstanding: valueobject.Zero(valueobject.DefaultCurrency),
	}
	byStatus := make(map[billing.Status]*billing.StatusCount)

	for _, pr := range requests {
		stats.TotalCount++
		stats.TotalAmount.Amount = stats.TotalAmount.Amount.Add(pr.TotalAmount)
		stats.TotalPaid.Amount = stats.TotalPaid.Amount.Add(pr.PaymentDetails.PaidAmount)
		stats.TotalOutstanding.Amount = stats.TotalOutstanding.Amount.Add(pr.PaymentDetails.RemainingAmount)

		entry, ok := byStatus[pr.Status]
		if !ok {
			entry = &billing.StatusCount{Status: pr.Status, Amount: valueobject.Zero(valueobject.DefaultCurrency)}
			byStatus[pr.Status] = entry
		}
		entry.Count++
		entry.Amount.Amount = entry.Amount.Amount.Add(pr.TotalAmount)
	}

	for _, status := range []billing.Status{
		billing.StatusDraft, billing.StatusPending, billing.StatusApproved,
		billing.StatusPaid, billing.StatusPartiallyPaid, billing.StatusOverdue,
		billing.StatusCancelled, billing.StatusRejected,
	} {
		if entry, ok := byStatus[status]; ok {
			stats.ByStatus = append(stats.ByStatus, *entry)
		}
	}
	return stats, nil
}
