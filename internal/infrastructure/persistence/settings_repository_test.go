package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/domain/ledger"
)

func TestGormPaymentSettingsRepository_Get_CreatesDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentSettingsRepository(db)
	ctx := context.Background()

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.True(t, settings.MinimumPayoutAmount.Equal(ledger.DefaultMinimumPayoutAmount))
	assert.Equal(t, ledger.PaymentScheduleManual, settings.PaymentScheduleTag)
	assert.False(t, settings.AllowPartialPayment)

	// Second read returns the same row, not a new one
	again, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&ledger.PaymentSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormPaymentSettingsRepository_Save_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentSettingsRepository(db)
	ctx := context.Background()

	settings, err := repo.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, settings.Update(decimal.NewFromInt(250_000), ledger.PaymentScheduleWeekly, true))
	require.NoError(t, repo.Save(ctx, settings))

	reloaded, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded.MinimumPayoutAmount.Equal(decimal.NewFromInt(250_000)))
	assert.Equal(t, ledger.PaymentScheduleWeekly, reloaded.PaymentScheduleTag)
	assert.True(t, reloaded.AllowPartialPayment)
}
