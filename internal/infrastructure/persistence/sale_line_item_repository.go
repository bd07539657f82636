package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSaleLineItemRepository reads sale line items using GORM.
// Read failures surface as errors wrapping shared.ErrSourceUnavailable so
// settlement callers can distinguish a broken source from an empty period.
type GormSaleLineItemRepository struct {
	db *gorm.DB
}

// NewGormSaleLineItemRepository creates a new GormSaleLineItemRepository
func NewGormSaleLineItemRepository(db *gorm.DB) *GormSaleLineItemRepository {
	return &GormSaleLineItemRepository{db: db}
}

// FindCompleted returns line items whose parent transaction is COMPLETED,
// restricted to the given suppliers (nil or empty = all) and period.
// Filters are pushed down to SQL so large periods never load ineligible rows.
func (r *GormSaleLineItemRepository) FindCompleted(ctx context.Context, supplierIDs []uuid.UUID, period ledger.Period) ([]ledger.SaleLineItem, error) {
	query := r.db.WithContext(ctx).
		Model(&ledger.SaleLineItem{}).
		Where("transaction_status = ?", ledger.TransactionStatusCompleted)

	if !period.IsZero() {
		query = query.Where("sold_at >= ? AND sold_at <= ?", period.Start, period.End)
	}
	if len(supplierIDs) > 0 {
		query = query.Where("supplier_id IN ?", supplierIDs)
	}

	var items []ledger.SaleLineItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	return items, nil
}

// SumSupplierRevenue returns the all-time sum of supplier_revenue across
// COMPLETED line items for one supplier.
func (r *GormSaleLineItemRepository) SumSupplierRevenue(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&ledger.SaleLineItem{}).
		Select("COALESCE(SUM(supplier_revenue), 0)").
		Where("transaction_status = ? AND supplier_id = ?", ledger.TransactionStatusCompleted, supplierID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Ensure GormSaleLineItemRepository implements SaleLineItemRepository
var _ ledger.SaleLineItemRepository = (*GormSaleLineItemRepository)(nil)
