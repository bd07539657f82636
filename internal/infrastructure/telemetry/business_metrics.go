// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks the settlement ledger's business activity:
// payments recorded, withdrawal lifecycle transitions, and payout amounts.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	paymentRecordedTotal  *Counter
	paymentAmountTotal    *Counter
	withdrawalTotal       *Counter
	walletConflictRetries *Counter
	payoutAmount          *Histogram
}

// MetricsError describes a metrics setup failure.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{meter: meter, logger: logger}

	var err error
	bm.paymentRecordedTotal, err = NewCounter(
		meter,
		"ledger_payment_recorded_total",
		"Total number of supplier payments recorded",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentAmountTotal, err = NewCounter(
		meter,
		"ledger_payment_amount_total",
		"Total recorded payment amount in rupiah",
		"{idr}",
	)
	if err != nil {
		return nil, err
	}

	bm.withdrawalTotal, err = NewCounter(
		meter,
		"ledger_withdrawal_total",
		"Withdrawal lifecycle transitions by status",
		"{withdrawals}",
	)
	if err != nil {
		return nil, err
	}

	bm.walletConflictRetries, err = NewCounter(
		meter,
		"ledger_wallet_conflict_retries_total",
		"Optimistic lock conflicts retried on wallet updates",
		"{conflicts}",
	)
	if err != nil {
		return nil, err
	}

	bm.payoutAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_payout_amount",
		Description: "Distribution of individual payout amounts in rupiah",
		Unit:        "{idr}",
		Boundaries:  []float64{50_000, 100_000, 250_000, 500_000, 1_000_000, 5_000_000, 10_000_000},
	})
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordPayment records a completed supplier payment
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, amount decimal.Decimal, method string) {
	attrs := []attribute.KeyValue{attribute.String("method", method)}
	bm.paymentRecordedTotal.Inc(ctx, attrs...)
	bm.paymentAmountTotal.Add(ctx, amount.IntPart(), attrs...)
	bm.payoutAmount.Record(ctx, amount.InexactFloat64(), attrs...)
}

// RecordWithdrawalTransition records a withdrawal status transition
func (bm *BusinessMetrics) RecordWithdrawalTransition(ctx context.Context, status string) {
	bm.withdrawalTotal.Inc(ctx, attribute.String("status", status))
}

// RecordWalletConflictRetry records a retried optimistic lock conflict
func (bm *BusinessMetrics) RecordWalletConflictRetry(ctx context.Context) {
	bm.walletConflictRetries.Inc(ctx)
}
