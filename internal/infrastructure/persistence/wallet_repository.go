package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/wallet"
	"gorm.io/gorm"
)

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByID finds a wallet by its ID, (nil, nil) when absent
func (r *GormWalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	var w wallet.Wallet
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// FindBySupplier finds the wallet for a supplier, (nil, nil) when absent
func (r *GormWalletRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) (*wallet.Wallet, error) {
	var w wallet.Wallet
	if err := r.db.WithContext(ctx).First(&w, "supplier_id = ?", supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// Create inserts a new wallet. The supplier_id unique index enforces one
// wallet per supplier; a violation surfaces as shared.ErrAlreadyExists so
// the caller can re-read after losing a creation race.
func (r *GormWalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save persists wallet changes unconditionally
func (r *GormWalletRepository) Save(ctx context.Context, w *wallet.Wallet) error {
	return r.db.WithContext(ctx).Save(w).Error
}

// SaveWithLock persists wallet changes with an optimistic version check.
// The domain layer increments Version on every balance mutation, so the row
// must still hold the previous version for the update to apply.
func (r *GormWalletRepository) SaveWithLock(ctx context.Context, w *wallet.Wallet) error {
	result := r.db.WithContext(ctx).
		Model(&wallet.Wallet{}).
		Where("id = ? AND version = ?", w.ID, w.Version-1).
		Select("available_balance", "pending_balance", "total_earned", "total_withdrawn", "version", "updated_at").
		Updates(w)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormWalletRepository implements WalletRepository
var _ wallet.WalletRepository = (*GormWalletRepository)(nil)
