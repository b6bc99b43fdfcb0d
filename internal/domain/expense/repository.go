package expense

import (
	"context"

	"github.com/google/uuid"

	"github.com/paydesk/backend/internal/domain/shared"
)

// ExpenseRequestRepository persists expense requests
type ExpenseRequestRepository interface {
	Save(ctx context.Context, er *ExpenseRequest) error
	Update(ctx context.Context, er *ExpenseRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseRequest, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[*ExpenseRequest], error)
	FindByUser(ctx context.Context, companyID, userID uuid.UUID, filter shared.Filter) (shared.Paginated[*ExpenseRequest], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RequestNumberGenerator issues unique request numbers.
// Expense request numbers are sequential per company (EXP-NNNNN).
type RequestNumberGenerator interface {
	NextExpenseRequestNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}
