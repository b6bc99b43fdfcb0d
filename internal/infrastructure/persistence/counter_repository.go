package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/domain/expense"
)

// RequestCounter is one numbering sequence. Payment requests use a
// monthly period per company; expense requests use a single running
// sequence per company.
type RequestCounter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_counter_scope,priority:1"`
	Scope     string    `gorm:"not null;size:30;uniqueIndex:idx_counter_scope,priority:2"`
	Period    string    `gorm:"not null;size:10;uniqueIndex:idx_counter_scope,priority:3"`
	Value     int64     `gorm:"not null;default:0"`
}

const (
	scopePaymentRequest = "payment_request"
	scopeExpenseRequest = "expense_request"
)

// GormRequestNumberGenerator issues request numbers from database
// counters. The counter row is locked for the duration of the
// increment so concurrent creates never share a number.
type GormRequestNumberGenerator struct {
	db *gorm.DB
}

var (
	_ billing.RequestNumberGenerator = (*GormRequestNumberGenerator)(nil)
	_ expense.RequestNumberGenerator = (*GormRequestNumberGenerator)(nil)
)

// NewGormRequestNumberGenerator creates a number generator
func NewGormRequestNumberGenerator(db *gorm.DB) *GormRequestNumberGenerator {
	return &GormRequestNumberGenerator{db: db}
}

// NextPaymentRequestNumber returns the next PR-YY-MM-XXXX number for
// the company. The sequence resets each month.
func (g *GormRequestNumberGenerator) NextPaymentRequestNumber(ctx context.Context, companyID uuid.UUID, at time.Time) (string, error) {
	period := at.Format("0601")
	value, err := g.next(ctx, companyID, scopePaymentRequest, period)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PR-%s-%s-%04d", at.Format("06"), at.Format("01"), value), nil
}

// NextExpenseRequestNumber returns the next EXP-NNNNN number for the
// company.
func (g *GormRequestNumberGenerator) NextExpenseRequestNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	value, err := g.next(ctx, companyID, scopeExpenseRequest, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EXP-%05d", value), nil
}

func (g *GormRequestNumberGenerator) next(ctx context.Context, companyID uuid.UUID, scope, period string) (int64, error) {
	var value int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter RequestCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("company_id = ? AND scope = ? AND period = ?", companyID, scope, period).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = RequestCounter{
				ID:        uuid.New(),
				CompanyID: companyID,
				Scope:     scope,
				Period:    period,
			}
		} else if err != nil {
			return err
		}

		counter.Value++
		value = counter.Value
		return tx.Save(&counter).Error
	})
	return value, err
}
