package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows payment listings
type Filter struct {
	SupplierID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	PageSize   int
}

// Repository persists payment records. Payments are append-only: there is
// no update or delete of completed rows.
type Repository interface {
	// FindByID finds a payment by ID, (nil, nil) when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// FindByReference finds a payment by its unique reference, (nil, nil)
	// when absent
	FindByReference(ctx context.Context, reference string) (*Payment, error)
	// FindAll lists payments matching the filter, newest first
	FindAll(ctx context.Context, filter Filter) ([]Payment, error)
	// SumBySupplierAndPeriod returns the sum of completed payment amounts
	// for a supplier whose payment_date falls in [from, to]
	SumBySupplierAndPeriod(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	// Create inserts a new payment row
	Create(ctx context.Context, p *Payment) error
	// AttachProof sets the proof URL on an existing payment
	AttachProof(ctx context.Context, id uuid.UUID, proofURL string) error
}
