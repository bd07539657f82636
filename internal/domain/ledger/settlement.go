package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementStatus represents the settlement state of a supplier for a period
type SettlementStatus string

const (
	SettlementStatusUnpaid  SettlementStatus = "UNPAID"
	SettlementStatusPending SettlementStatus = "PENDING"
	SettlementStatusPaid    SettlementStatus = "PAID"
)

// IsValid checks if the status is a valid SettlementStatus
func (s SettlementStatus) IsValid() bool {
	switch s {
	case SettlementStatusUnpaid, SettlementStatusPending, SettlementStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of SettlementStatus
func (s SettlementStatus) String() string {
	return string(s)
}

// Settlement is the reconciled view of one supplier for one period:
// revenue owed after commission, minus recorded payments.
type Settlement struct {
	SupplierID           uuid.UUID        `json:"supplier_id"`
	TotalSupplierRevenue decimal.Decimal  `json:"total_supplier_revenue"`
	TotalPaid            decimal.Decimal  `json:"total_paid"`
	Outstanding          decimal.Decimal  `json:"outstanding"`
	Overpayment          decimal.Decimal  `json:"overpayment"`
	Status               SettlementStatus `json:"status"`
}

// IsOverpaid reports whether recorded payments exceed revenue owed.
// Overpayment indicates a data error or a cross-period payment and is
// surfaced as a diagnostic rather than silently clamped away.
func (s Settlement) IsOverpaid() bool {
	return s.Overpayment.IsPositive()
}

// Reconcile compares aggregated net revenue against completed payments for
// the same supplier/period and derives the settlement status.
//
// Status priority is a deliberate business rule, first match wins:
//  1. outstanding > 0                      -> UNPAID
//  2. pendingBalance > 0 (withdrawal in flight) -> PENDING
//  3. payments cover revenue               -> PAID
//
// An in-flight withdrawal never masks an outstanding commission debt.
func Reconcile(summary CommissionSummary, paidTotal decimal.Decimal, pendingBalance decimal.Decimal) Settlement {
	raw := summary.TotalSupplierRevenue.Sub(paidTotal)

	outstanding := raw
	overpayment := decimal.Zero
	if raw.IsNegative() {
		outstanding = decimal.Zero
		overpayment = raw.Neg()
	}

	var status SettlementStatus
	switch {
	case outstanding.IsPositive():
		status = SettlementStatusUnpaid
	case pendingBalance.IsPositive():
		status = SettlementStatusPending
	default:
		status = SettlementStatusPaid
	}

	return Settlement{
		SupplierID:           summary.SupplierID,
		TotalSupplierRevenue: summary.TotalSupplierRevenue,
		TotalPaid:            paidTotal,
		Outstanding:          outstanding,
		Overpayment:          overpayment,
		Status:               status,
	}
}
