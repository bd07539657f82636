package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the status of the parent sale transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
	TransactionStatusRefunded  TransactionStatus = "REFUNDED"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusCancelled, TransactionStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// consistencyTolerance is the rounding tolerance for the commission split
// check, one rupiah.
var consistencyTolerance = decimal.NewFromInt(1)

// SaleLineItem is one sold unit-quantity of one product in one sale
// transaction. Line items are written by the sales subsystem when a
// transaction is finalized and are immutable afterwards; corrections happen
// via new entries (returns), never by mutating history.
type SaleLineItem struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key"`
	TransactionID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	TransactionStatus TransactionStatus `gorm:"type:varchar(20);not null;index"`
	ProductID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	SupplierID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	OutletID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	Quantity          int               `gorm:"not null"`
	UnitPrice         decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Subtotal          decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	CommissionAmount  decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	SupplierRevenue   decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	SoldAt            time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SaleLineItem) TableName() string {
	return "sale_line_items"
}

// IsEligible returns true if the line item counts toward ledger computation.
// Only items whose parent transaction is COMPLETED are eligible.
func (li *SaleLineItem) IsEligible() bool {
	return li.TransactionStatus == TransactionStatusCompleted
}

// Consistent verifies the commission split invariant:
// commission_amount + supplier_revenue == subtotal within one rupiah.
func (li *SaleLineItem) Consistent() bool {
	diff := li.CommissionAmount.Add(li.SupplierRevenue).Sub(li.Subtotal).Abs()
	return diff.LessThanOrEqual(consistencyTolerance)
}

// Period is an inclusive date range used for settlement queries
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod creates a period, normalizing a reversed range
func NewPeriod(start, end time.Time) Period {
	if end.Before(start) {
		start, end = end, start
	}
	return Period{Start: start, End: end}
}

// Contains returns true if t falls within the period (inclusive)
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// IsZero returns true if the period is unset
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}
