package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/titipin/backend/internal/domain/wallet"
	"gorm.io/gorm"
)

// GormWithdrawalRequestRepository implements WithdrawalRequestRepository using GORM
type GormWithdrawalRequestRepository struct {
	db *gorm.DB
}

// NewGormWithdrawalRequestRepository creates a new GormWithdrawalRequestRepository
func NewGormWithdrawalRequestRepository(db *gorm.DB) *GormWithdrawalRequestRepository {
	return &GormWithdrawalRequestRepository{db: db}
}

// FindByID finds a withdrawal request by ID, (nil, nil) when absent
func (r *GormWithdrawalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.WithdrawalRequest, error) {
	var wr wallet.WithdrawalRequest
	if err := r.db.WithContext(ctx).First(&wr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wr, nil
}

// FindAll lists withdrawal requests matching the filter, newest first
func (r *GormWithdrawalRequestRepository) FindAll(ctx context.Context, filter wallet.WithdrawalFilter) ([]wallet.WithdrawalRequest, error) {
	query := r.db.WithContext(ctx).Model(&wallet.WithdrawalRequest{})

	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var requests []wallet.WithdrawalRequest
	if err := query.Order("requested_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Create inserts a new withdrawal request
func (r *GormWithdrawalRequestRepository) Create(ctx context.Context, wr *wallet.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Create(wr).Error
}

// Save persists state transitions
func (r *GormWithdrawalRequestRepository) Save(ctx context.Context, wr *wallet.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Save(wr).Error
}

// Ensure GormWithdrawalRequestRepository implements WithdrawalRequestRepository
var _ wallet.WithdrawalRequestRepository = (*GormWithdrawalRequestRepository)(nil)
