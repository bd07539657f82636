package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/titipin/backend/internal/domain/ledger"
)

func TestSaleLineItem_Consistent(t *testing.T) {
	li := ledger.SaleLineItem{
		Subtotal:         decimal.NewFromInt(10_000),
		CommissionAmount: decimal.NewFromInt(1_000),
		SupplierRevenue:  decimal.NewFromInt(9_000),
	}
	assert.True(t, li.Consistent())

	// Off by one rupiah is within rounding tolerance
	li.SupplierRevenue = decimal.NewFromInt(8_999)
	assert.True(t, li.Consistent())

	li.SupplierRevenue = decimal.NewFromInt(8_998)
	assert.False(t, li.Consistent())
}

func TestSaleLineItem_IsEligible(t *testing.T) {
	li := ledger.SaleLineItem{TransactionStatus: ledger.TransactionStatusCompleted}
	assert.True(t, li.IsEligible())

	for _, status := range []ledger.TransactionStatus{
		ledger.TransactionStatusPending,
		ledger.TransactionStatusCancelled,
		ledger.TransactionStatusRefunded,
	} {
		li.TransactionStatus = status
		assert.False(t, li.IsEligible(), "status %s should not be eligible", status)
	}
}

func TestNewPeriod_NormalizesReversedRange(t *testing.T) {
	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)

	p := ledger.NewPeriod(end, start)
	assert.Equal(t, start, p.Start)
	assert.Equal(t, end, p.End)
}

func TestPeriod_Contains(t *testing.T) {
	p := ledger.NewPeriod(
		time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC),
	)

	assert.True(t, p.Contains(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, 11, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 10, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriod_IsZero(t *testing.T) {
	assert.True(t, ledger.Period{}.IsZero())
	assert.False(t, ledger.NewPeriod(time.Now(), time.Now()).IsZero())
}
