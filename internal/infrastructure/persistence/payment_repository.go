package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/payment"
	"github.com/titipin/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payment.Repository using GORM.
// Payment rows are append-only: the only mutation is attaching a proof URL.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID, (nil, nil) when absent
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindByReference finds a payment by its unique reference, (nil, nil) when absent
func (r *GormPaymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.WithContext(ctx).First(&p, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindAll lists payments matching the filter, newest first
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter payment.Filter) ([]payment.Payment, error) {
	query := r.db.WithContext(ctx).Model(&payment.Payment{})

	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.FromDate != nil {
		query = query.Where("payment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payment_date <= ?", *filter.ToDate)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var payments []payment.Payment
	if err := query.Order("payment_date DESC, created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumBySupplierAndPeriod returns the sum of completed payment amounts for a
// supplier whose payment_date falls in [from, to]
func (r *GormPaymentRepository) SumBySupplierAndPeriod(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("supplier_id = ? AND status = ? AND payment_date >= ? AND payment_date <= ?",
			supplierID, payment.StatusCompleted, from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Create inserts a new payment row. A duplicate reference surfaces as
// shared.ErrAlreadyExists.
func (r *GormPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// AttachProof sets the proof URL on an existing payment
func (r *GormPaymentRepository) AttachProof(ctx context.Context, id uuid.UUID, proofURL string) error {
	result := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("id = ?", id).
		Update("proof_url", proofURL)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPaymentRepository implements payment.Repository
var _ payment.Repository = (*GormPaymentRepository)(nil)
