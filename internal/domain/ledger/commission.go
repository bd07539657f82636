package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCommissionRate is the informational rate reported for suppliers
// with no sales in the period. It is never used to derive amounts.
var DefaultCommissionRate = decimal.NewFromFloat(0.10)

// CommissionSummary is the per-supplier aggregation of sale line items over
// a period. It is always derived fresh from line items and never persisted,
// so it cannot drift from the source of truth.
type CommissionSummary struct {
	SupplierID           uuid.UUID       `json:"supplier_id"`
	TotalSales           decimal.Decimal `json:"total_sales"`
	TotalCommission      decimal.Decimal `json:"total_commission"`
	TotalSupplierRevenue decimal.Decimal `json:"total_supplier_revenue"`
	TransactionCount     int             `json:"transaction_count"`
	UnitCount            int             `json:"unit_count"`
}

// EffectiveCommissionRate returns total_commission / total_sales for display.
// The ratio is informational only: per-line amounts are authoritative because
// the platform rate may have changed between items. Falls back to
// DefaultCommissionRate when the supplier had no sales volume.
func (s CommissionSummary) EffectiveCommissionRate() decimal.Decimal {
	if s.TotalSales.IsPositive() {
		return s.TotalCommission.Div(s.TotalSales)
	}
	return DefaultCommissionRate
}

// Aggregate groups line items by supplier and sums sales, commission,
// revenue, unit counts and distinct transaction counts. Ineligible items
// (parent transaction not COMPLETED) are skipped. Suppliers with no eligible
// items are simply absent from the result.
func Aggregate(items []SaleLineItem) []CommissionSummary {
	type accumulator struct {
		summary      CommissionSummary
		transactions map[uuid.UUID]struct{}
	}

	grouped := make(map[uuid.UUID]*accumulator)
	for i := range items {
		item := &items[i]
		if !item.IsEligible() {
			continue
		}
		acc, ok := grouped[item.SupplierID]
		if !ok {
			acc = &accumulator{
				summary: CommissionSummary{
					SupplierID:           item.SupplierID,
					TotalSales:           decimal.Zero,
					TotalCommission:      decimal.Zero,
					TotalSupplierRevenue: decimal.Zero,
				},
				transactions: make(map[uuid.UUID]struct{}),
			}
			grouped[item.SupplierID] = acc
		}
		acc.summary.TotalSales = acc.summary.TotalSales.Add(item.Subtotal)
		acc.summary.TotalCommission = acc.summary.TotalCommission.Add(item.CommissionAmount)
		acc.summary.TotalSupplierRevenue = acc.summary.TotalSupplierRevenue.Add(item.SupplierRevenue)
		acc.summary.UnitCount += item.Quantity
		acc.transactions[item.TransactionID] = struct{}{}
	}

	summaries := make([]CommissionSummary, 0, len(grouped))
	for _, acc := range grouped {
		acc.summary.TransactionCount = len(acc.transactions)
		summaries = append(summaries, acc.summary)
	}

	// Deterministic output order for stable API responses
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SupplierID.String() < summaries[j].SupplierID.String()
	})

	return summaries
}
