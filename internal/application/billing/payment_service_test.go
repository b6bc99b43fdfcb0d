package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/notification"
	"github.com/paydesk/backend/internal/domain/shared"
)

// MockPaymentRequestRepository is a mock implementation of PaymentRequestRepository
type MockPaymentRequestRepository struct {
	mock.Mock
}

func (m *MockPaymentRequestRepository) Save(ctx context.Context, pr *billing.PaymentRequest) error {
	args := m.Called(ctx, pr)
	return args.Error(0)
}

func (m *MockPaymentRequestRepository) Update(ctx context.Context, pr *billing.PaymentRequest) error {
	args := m.Called(ctx, pr)
	return args.Error(0)
}

func (m *MockPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) FindByRequestNumber(ctx context.Context, companyID uuid.UUID, requestNumber string) (*billing.PaymentRequest, error) {
	args := m.Called(ctx, companyID, requestNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[*billing.PaymentRequest], error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(shared.Paginated[*billing.PaymentRequest]), args.Error(1)
}

func (m *MockPaymentRequestRepository) FindPastDue(ctx context.Context, cutoff time.Time) ([]*billing.PaymentRequest, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentRequestRepository) Statistics(ctx context.Context, companyID uuid.UUID) (*billing.Statistics, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Statistics), args.Error(1)
}

// MockNumberGenerator is a mock implementation of RequestNumberGenerator
type MockNumberGenerator struct {
	mock.Mock
}

func (m *MockNumberGenerator) NextPaymentRequestNumber(ctx context.Context, companyID uuid.UUID, at time.Time) (string, error) {
	args := m.Called(ctx, companyID, at)
	return args.String(0), args.Error(1)
}

// MockURLBuilder is a mock implementation of PaymentURLBuilder
type MockURLBuilder struct {
	mock.Mock
}

func (m *MockURLBuilder) BuildPaymentURL(pr *billing.PaymentRequest, method billing.PaymentMethod, returnURL string) (string, error) {
	args := m.Called(pr, method, returnURL)
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAccountRoles(
	ctx context.Context,
	companyID uuid.UUID,
	roles []identity.AccountRole,
	notifType notification.Type,
	title, message string,
	relatedTo *notification.RelatedDocument,
	actorID *uuid.UUID,
) error {
	args := m.Called(ctx, companyID, roles, notifType, title, message, relatedTo, actorID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type paymentServiceMocks struct {
	repo      *MockPaymentRequestRepository
	numbers   *MockNumberGenerator
	urls      *MockURLBuilder
	notifier  *MockNotifier
	publisher *MockEventPublisher
}

func newPaymentService(t *testing.T) (*PaymentService, *paymentServiceMocks) {
	t.Helper()
	m := &paymentServiceMocks{
		repo:      new(MockPaymentRequestRepository),
		numbers:   new(MockNumberGenerator),
		urls:      new(MockURLBuilder),
		notifier:  new(MockNotifier),
		publisher: new(MockEventPublisher),
	}
	svc := NewPaymentService(m.repo, m.numbers, m.urls, m.notifier, m.publisher, zap.NewNop())
	return svc, m
}

func testActor() Actor {
	return Actor{UserID: uuid.New(), CompanyID: uuid.New(), ReadAll: true}
}

func newDraftRequest(t *testing.T, companyID, createdBy uuid.UUID) *billing.PaymentRequest {
	t.Helper()
	pr, err := billing.NewPaymentRequest(
		companyID, createdBy, "PR-25-08-0001",
		billing.Client{Name: "ACME Corp", Email: "billing@acme.example"},
		"Consulting services",
		[]billing.LineItem{{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(10_000_000),
		}},
		"VND", decimal.Zero, time.Now().AddDate(0, 0, 14),
	)
	require.NoError(t, err)
	return pr
}

func TestPaymentService_Create(t *testing.T) {
	svc, m := newPaymentService(t)
	actor := testActor()

	m.numbers.On("NextPaymentRequestNumber", mock.Anything, actor.CompanyID, mock.Anything).
		Return("PR-25-08-0042", nil)
	m.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	m.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("NotifyAccountRoles",
		mock.Anything, actor.CompanyID, backOfficeRoles,
		notification.TypePaymentRequestCreated, mock.Anything, mock.Anything, mock.Anything, &actor.UserID,
	).Return(nil)

	pr, err := svc.Create(context.Background(), actor, CreateInput{
		Client:      billing.Client{Name: "ACME Corp", Email: "billing@acme.example"},
		Description: "Consulting services",
		Items: []LineItemInput{{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(5_000_000),
		}},
		DueDate: time.Now().AddDate(0, 0, 30),
	})

	require.NoError(t, err)
	assert.Equal(t, "PR-25-08-0042", pr.RequestNumber)
	assert.Equal(t, billing.StatusDraft, pr.Status)
	assert.True(t, pr.TotalAmount.Equal(decimal.NewFromInt(10_000_000)))
	assert.True(t, pr.PaymentDetails.RemainingAmount.Equal(pr.TotalAmount))
	m.repo.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
}

func TestPaymentService_Create_NumberGeneratorFailure(t *testing.T) {
	svc, m := newPaymentService(t)
	actor := testActor()

	m.numbers.On("NextPaymentRequestNumber", mock.Anything, actor.CompanyID, mock.Anything).
		Return("", assert.AnError)

	_, err := svc.Create(context.Background(), actor, CreateInput{
		Client:      billing.Client{Name: "ACME Corp"},
		Description: "Consulting",
		Items:       []LineItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)}},
		DueDate:     time.Now(),
	})

	assert.Error(t, err)
	m.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_ChangeStatus_InvalidTransition(t *testing.T) {
	svc, m := newPaymentService(t)
	actor := testActor()
	pr := newDraftRequest(t, actor.CompanyID, actor.UserID)

	m.repo.On("FindByID", mock.Anything, pr.ID).Return(pr, nil)

	_, err := svc.ChangeStatus(context.Background(), actor, pr.ID, billing.StatusPaid, "")

	assert.Error(t, err)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPaymentService_ProcessPayment_PartialThenNotify(t *testing.T) {
	svc, m := newPaymentService(t)
	actor := testActor()
	pr := newDraftRequest(t, actor.CompanyID, actor.UserID)
	require.NoError(t, pr.TransitionTo(billing.StatusPending, "", actor.UserID))
	pr.ClearDomainEvents()

	m.repo.On("FindByID", mock.Anything, pr.ID).Return(pr, nil)
	m.repo.On("Update", mock.Anything, pr).Return(nil)
	m.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("NotifyAccountRoles",
		mock.Anything, actor.CompanyID, backOfficeRoles,
		notification.TypePaymentReceived, mock.Anything, mock.Anything, mock.Anything, &actor.UserID,
	).Return(nil)

	got, err := svc.ProcessPayment(context.Background(), actor, pr.ID, ProcessPaymentInput{
		PaymentMethod: billing.MethodBankTransfer,
		PaidAmount:    decimal.NewFromInt(4_000_000),
		TransactionID: "TXN-1",
	})

	require.NoError(t, err)
	assert.Equal(t, billing.StatusPartiallyPaid, got.Status)
	assert.True(t, got.PaymentDetails.PaidAmount.Equal(decimal.NewFromInt(4_000_000)))
	m.notifier.AssertExpectations(t)
}

func TestPaymentService_Get_Scoping(t *testing.T) {
	owner := uuid.New()
	companyID := uuid.New()

	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{
			name:  "owner without read_all sees own request",
			actor: Actor{UserID: owner, CompanyID: companyID},
		},
		{
			name:  "read_all sees requests of others",
			actor: Actor{UserID: uuid.New(), CompanyID: companyID, ReadAll: true},
		},
		{
			name:    "non-owner without read_all is rejected",
			actor:   Actor{UserID: uuid.New(), CompanyID: companyID},
			wantErr: shared.ErrForbidden,
		},
		{
			name:    "other company cannot see the request",
			actor:   Actor{UserID: owner, CompanyID: uuid.New(), ReadAll: true},
			wantErr: shared.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPaymentService(t)
			pr := newDraftRequest(t, companyID, owner)
			m.repo.On("FindByID", mock.Anything, pr.ID).Return(pr, nil)

			_, err := svc.Get(context.Background(), tt.actor, pr.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPaymentService_List_ScopesToCreatorWithoutReadAll(t *testing.T) {
	svc, m := newPaymentService(t)
	actor := Actor{UserID: uuid.New(), CompanyID: uuid.New(), ReadAll: false}

	m.repo.On("FindByCompany", mock.Anything, actor.CompanyID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["created_by"] == actor.UserID
	})).Return(shared.NewPaginated([]*billing.PaymentRequest{}, 0, 1, 20), nil)

	_, err := svc.List(context.Background(), actor, shared.DefaultFilter())
	require.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestPaymentService_Delete_StatusGuard(t *testing.T) {
	actor := testActor()

	cases := []struct {
		name      string
		path      []billing.Status
		deletable bool
	}{
		{"draft", nil, true},
		{"pending", []billing.Status{billing.StatusPending}, true},
		{"cancelled", []billing.Status{billing.StatusCancelled}, true},
		{"rejected", []billing.Status{billing.StatusPending, billing.StatusRejected}, true},
		{"approved", []billing.Status{billing.StatusPending, billing.StatusApproved}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newPaymentService(t)
			pr := newDraftRequest(t, actor.CompanyID, actor.UserID)
			for _, next := range tc.path {
				require.NoError(t, pr.TransitionTo(next, "", actor.UserID))
			}

			m.repo.On("FindByID", mock.Anything, pr.ID).Return(pr, nil)
			if tc.deletable {
				m.repo.On("Delete", mock.Anything, pr.ID).Return(nil)
			}

			err := svc.Delete(context.Background(), actor, pr.ID)
			if !tc.deletable {
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, "IMMUTABLE_STATUS", domainErr.Code)
				m.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			m.repo.AssertExpectations(t)
		})
	}
}

func TestPaymentService_PaymentURL_RequiresPayableStatus(t *testing.T) {
	svc, m := newPaymentService(t)
	actor := testActor()
	pr := newDraftRequest(t, actor.CompanyID, actor.UserID)

	m.repo.On("FindByID", mock.Anything, pr.ID).Return(pr, nil)

	_, err := svc.PaymentURL(context.Background(), actor, pr.ID, billing.MethodVNPay, "https://app.example/return")
	assert.ErrorIs(t, err, billing.ErrNotPayable)
	m.urls.AssertNotCalled(t, "BuildPaymentURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_PaymentURL_DelegatesToBuilder(t *testing.T) {
	svc, m := newPaymentService(t)
	actor := testActor()
	pr := newDraftRequest(t, actor.CompanyID, actor.UserID)
	require.NoError(t, pr.TransitionTo(billing.StatusPending, "", actor.UserID))

	m.repo.On("FindByID", mock.Anything, pr.ID).Return(pr, nil)
	m.urls.On("BuildPaymentURL", pr, billing.MethodVNPay, "https://app.example/return").
		Return("https://sandbox.vnpayment.vn/pay?x=1", nil)

	url, err := svc.PaymentURL(context.Background(), actor, pr.ID, billing.MethodVNPay, "https://app.example/return")
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.vnpayment.vn/pay?x=1", url)
}

func TestPaymentService_CheckOverdue(t *testing.T) {
	svc, m := newPaymentService(t)
	companyID := uuid.New()
	userID := uuid.New()

	pastDue := newDraftRequest(t, companyID, userID)
	require.NoError(t, pastDue.TransitionTo(billing.StatusPending, "", userID))
	pastDue.DueDate = time.Now().AddDate(0, 0, -3)
	pastDue.ClearDomainEvents()

	// Still a draft, the sweep must leave it alone even if the query
	// over-returns
	draft := newDraftRequest(t, companyID, userID)
	draft.DueDate = time.Now().AddDate(0, 0, -3)

	m.repo.On("FindPastDue", mock.Anything, mock.Anything).
		Return([]*billing.PaymentRequest{pastDue, draft}, nil)
	m.repo.On("Update", mock.Anything, pastDue).Return(nil)
	m.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("NotifyAccountRoles",
		mock.Anything, companyID, backOfficeRoles,
		notification.TypePaymentOverdue, "Payment Overdue", mock.Anything, mock.Anything, (*uuid.UUID)(nil),
	).Return(nil)

	flipped, err := svc.CheckOverdue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, flipped)
	assert.Equal(t, billing.StatusOverdue, pastDue.Status)
	assert.Equal(t, billing.StatusDraft, draft.Status)
	m.repo.AssertNumberOfCalls(t, "Update", 1)
	m.notifier.AssertExpectations(t)
}
