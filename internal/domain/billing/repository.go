package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/paydesk/backend/internal/domain/shared"
	"github.com/paydesk/backend/internal/domain/shared/valueobject"
)

// PaymentRequestRepository persists payment requests
type PaymentRequestRepository interface {
	Save(ctx context.Context, pr *PaymentRequest) error
	Update(ctx context.Context, pr *PaymentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)
	FindByRequestNumber(ctx context.Context, companyID uuid.UUID, requestNumber string) (*PaymentRequest, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[*PaymentRequest], error)
	// FindPastDue returns requests awaiting payment whose due date is
	// before the given cutoff, across all companies
	FindPastDue(ctx context.Context, cutoff time.Time) ([]*PaymentRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context, companyID uuid.UUID) (*Statistics, error)
}

// StatusCount is the number of requests in one status with their total value
type StatusCount struct {
	Status Status            `json:"status"`
	Count  int64             `json:"count"`
	Amount valueobject.Money `json:"amount"`
}

// Statistics summarizes a company's payment requests. Totals are
// reported in the base currency.
type Statistics struct {
	TotalCount       int64             `json:"total_count"`
	TotalAmount      valueobject.Money `json:"total_amount"`
	TotalPaid        valueobject.Money `json:"total_paid"`
	TotalOutstanding valueobject.Money `json:"total_outstanding"`
	ByStatus         []StatusCount     `json:"by_status"`
}

// RequestNumberGenerator issues unique request numbers.
// Payment request numbers reset monthly per company (PR-YY-MM-XXXX).
type RequestNumberGenerator interface {
	NextPaymentRequestNumber(ctx context.Context, companyID uuid.UUID, at time.Time) (string, error)
}
