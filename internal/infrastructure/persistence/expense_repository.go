package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paydesk/backend/internal/domain/expense"
	"github.com/paydesk/backend/internal/domain/shared"
)

// GormExpenseRequestRepository implements ExpenseRequestRepository
// using GORM
type GormExpenseRequestRepository struct {
	db *gorm.DB
}

var _ expense.ExpenseRequestRepository = (*GormExpenseRequestRepository)(nil)

// NewGormExpenseRequestRepository creates a new repository
func NewGormExpenseRequestRepository(db *gorm.DB) *GormExpenseRequestRepository {
	return &GormExpenseRequestRepository{db: db}
}

// Save creates a new expense request
func (r *GormExpenseRequestRepository) Save(ctx context.Context, er *expense.ExpenseRequest) error {
	return r.db.WithContext(ctx).Create(er).Error
}

// Update updates an existing expense request with optimistic locking
// on the version column
func (r *GormExpenseRequestRepository) Update(ctx context.Context, er *expense.ExpenseRequest) error {
	result := r.db.WithContext(ctx).
		Model(&expense.ExpenseRequest{}).
		Where("id = ? AND version = ?", er.ID, er.GetVersion()-1).
		Select("*").
		Updates(er)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an expense request by ID
func (r *GormExpenseRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*expense.ExpenseRequest, error) {
	var er expense.ExpenseRequest
	if err := r.db.WithContext(ctx).First(&er, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &er, nil
}

// FindByCompany returns a page of the company's expense requests.
// Supported filters: status, category, user_id.
func (r *GormExpenseRequestRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[*expense.ExpenseRequest], error) {
	return paginate[*expense.ExpenseRequest](r.companyQuery(ctx, companyID, filter), filter)
}

// FindByUser returns a page of one user's expense requests
func (r *GormExpenseRequestRepository) FindByUser(ctx context.Context, companyID, userID uuid.UUID, filter shared.Filter) (shared.Paginated[*expense.ExpenseRequest], error) {
	query := r.companyQuery(ctx, companyID, filter).Where("user_id = ?", userID)
	return paginate[*expense.ExpenseRequest](query, filter)
}

func (r *GormExpenseRequestRepository) companyQuery(ctx context.Context, companyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&expense.ExpenseRequest{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(request_number) LIKE ? OR LOWER(title) LIKE ? OR LOWER(vendor_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	return query
}

// Delete deletes an expense request by ID
func (r *GormExpenseRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&expense.ExpenseRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
