package settlement

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

func TestGetSettings_Defaults(t *testing.T) {
	settings := new(MockSettingsRepository)
	settings.On("Get", mock.Anything).Return(ledger.DefaultPaymentSettings(), nil)

	svc := NewSettingsService(settings, zap.NewNop())
	dto, err := svc.GetSettings(context.Background())
	require.NoError(t, err)

	assert.True(t, dto.MinimumPayoutAmount.Equal(decimal.NewFromInt(100_000)))
	assert.Equal(t, "MANUAL", dto.PaymentSchedule)
	assert.False(t, dto.AllowPartialPayment)
}

func TestUpdateSettings(t *testing.T) {
	settings := new(MockSettingsRepository)
	settings.On("Get", mock.Anything).Return(ledger.DefaultPaymentSettings(), nil)
	settings.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := NewSettingsService(settings, zap.NewNop())
	dto, err := svc.UpdateSettings(context.Background(), UpdatePaymentSettingsRequest{
		MinimumPayoutAmount: decimal.NewFromInt(250_000),
		PaymentSchedule:     "WEEKLY",
		AllowPartialPayment: true,
	})
	require.NoError(t, err)

	assert.True(t, dto.MinimumPayoutAmount.Equal(decimal.NewFromInt(250_000)))
	assert.Equal(t, "WEEKLY", dto.PaymentSchedule)
	assert.True(t, dto.AllowPartialPayment)
	settings.AssertCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateSettings_InvalidSchedule(t *testing.T) {
	settings := new(MockSettingsRepository)
	settings.On("Get", mock.Anything).Return(ledger.DefaultPaymentSettings(), nil)

	svc := NewSettingsService(settings, zap.NewNop())
	_, err := svc.UpdateSettings(context.Background(), UpdatePaymentSettingsRequest{
		MinimumPayoutAmount: decimal.NewFromInt(100_000),
		PaymentSchedule:     "DAILY",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SCHEDULE", domainErr.Code)
	settings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateSettings_NonPositiveMinimum(t *testing.T) {
	settings := new(MockSettingsRepository)
	settings.On("Get", mock.Anything).Return(ledger.DefaultPaymentSettings(), nil)

	svc := NewSettingsService(settings, zap.NewNop())
	_, err := svc.UpdateSettings(context.Background(), UpdatePaymentSettingsRequest{
		MinimumPayoutAmount: decimal.Zero,
		PaymentSchedule:     "MANUAL",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MINIMUM_PAYOUT", domainErr.Code)
}

func TestUpdateSettings_SaveFailure(t *testing.T) {
	settings := new(MockSettingsRepository)
	settings.On("Get", mock.Anything).Return(ledger.DefaultPaymentSettings(), nil)
	settings.On("Save", mock.Anything, mock.Anything).Return(shared.ErrSourceUnavailable)

	svc := NewSettingsService(settings, zap.NewNop())
	_, err := svc.UpdateSettings(context.Background(), UpdatePaymentSettingsRequest{
		MinimumPayoutAmount: decimal.NewFromInt(100_000),
		PaymentSchedule:     "MONTHLY",
	})

	require.ErrorIs(t, err, shared.ErrSourceUnavailable)
}
