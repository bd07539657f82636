package telemetry_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap/zaptest"
)

func TestNewBusinessMetrics(t *testing.T) {
	meter := otel.GetMeterProvider().Meter("test")
	logger := zaptest.NewLogger(t)

	bm, err := telemetry.NewBusinessMetrics(meter, logger)
	require.NoError(t, err)
	require.NotNil(t, bm)

	// Recording against the no-op meter must not panic
	ctx := context.Background()
	bm.RecordPayment(ctx, decimal.NewFromInt(400_000), "BANK_TRANSFER")
	bm.RecordWithdrawalTransition(ctx, "APPROVED")
	bm.RecordWalletConflictRetry(ctx)
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewBusinessMetrics(nil, nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}
