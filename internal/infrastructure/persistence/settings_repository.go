package persistence

import (
	"context"
	"errors"

	"github.com/titipin/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormPaymentSettingsRepository implements PaymentSettingsRepository using GORM.
// Settings are a singleton row, created with platform defaults on first read.
type GormPaymentSettingsRepository struct {
	db *gorm.DB
}

// NewGormPaymentSettingsRepository creates a new GormPaymentSettingsRepository
func NewGormPaymentSettingsRepository(db *gorm.DB) *GormPaymentSettingsRepository {
	return &GormPaymentSettingsRepository{db: db}
}

// Get returns the singleton settings row, creating it with defaults on
// first access.
func (r *GormPaymentSettingsRepository) Get(ctx context.Context) (*ledger.PaymentSettings, error) {
	var settings ledger.PaymentSettings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := ledger.DefaultPaymentSettings()
	if err := r.db.WithContext(ctx).Create(defaults).Error; err != nil {
		// Lost the first-write race; the winner's row is authoritative
		var existing ledger.PaymentSettings
		if readErr := r.db.WithContext(ctx).Order("created_at ASC").First(&existing).Error; readErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return defaults, nil
}

// Save persists an updated settings row
func (r *GormPaymentSettingsRepository) Save(ctx context.Context, settings *ledger.PaymentSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// Ensure GormPaymentSettingsRepository implements PaymentSettingsRepository
var _ ledger.PaymentSettingsRepository = (*GormPaymentSettingsRepository)(nil)
