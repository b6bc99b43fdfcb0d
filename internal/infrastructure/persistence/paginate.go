package persistence

import (
	"gorm.io/gorm"

	"github.com/paydesk/backend/internal/domain/shared"
)

// sortable columns shared by list queries
var allowedOrderColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"due_date":       true,
	"expense_date":   true,
	"total_amount":   true,
	"amount_in_vnd":  true,
	"request_number": true,
	"status":         true,
	"email":          true,
	"name":           true,
}

// paginate applies ordering and pagination from the filter and
// returns one page of results with the total count
func paginate[T any](query *gorm.DB, filter shared.Filter) (shared.Paginated[T], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[T]{}, err
	}

	orderBy := filter.OrderBy
	if !allowedOrderColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}

	var items []T
	err := query.
		Order(orderBy + " " + dir).
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&items).Error
	if err != nil {
		return shared.Paginated[T]{}, err
	}

	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
