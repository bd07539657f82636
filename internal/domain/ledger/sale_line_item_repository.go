package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLineItemRepository reads completed sale line items from the sales
// subsystem. Implementations must push the supplier/period/status filters
// down to the source so large periods do not load ineligible rows.
//
// A read failure must surface as an error wrapping
// shared.ErrSourceUnavailable; callers never receive partial results.
type SaleLineItemRepository interface {
	// FindCompleted returns all line items whose parent transaction is
	// COMPLETED, restricted to the given suppliers (nil or empty = all
	// suppliers) and period. Each line item is returned at most once;
	// ordering is unspecified.
	FindCompleted(ctx context.Context, supplierIDs []uuid.UUID, period Period) ([]SaleLineItem, error)

	// SumSupplierRevenue returns the all-time sum of supplier_revenue across
	// COMPLETED line items for one supplier. Used to recompute wallet
	// lifetime earnings without materializing every row.
	SumSupplierRevenue(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error)
}
