package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/domain/ledger"
)

func unpaidSettlement(outstanding int64) ledger.Settlement {
	return ledger.Settlement{
		SupplierID:           uuid.New(),
		TotalSupplierRevenue: decimal.NewFromInt(outstanding),
		Outstanding:          decimal.NewFromInt(outstanding),
		Overpayment:          decimal.Zero,
		Status:               ledger.SettlementStatusUnpaid,
	}
}

func TestClassifyByThreshold_Partitions(t *testing.T) {
	minimum := decimal.NewFromInt(100_000)

	below := unpaidSettlement(80_000)
	exact := unpaidSettlement(100_000)
	above := unpaidSettlement(150_000)

	p := ledger.ClassifyByThreshold([]ledger.Settlement{below, exact, above}, minimum)

	require.Len(t, p.Ready, 2)
	require.Len(t, p.PendingThreshold, 1)
	assert.Equal(t, below.SupplierID, p.PendingThreshold[0].SupplierID)

	// Exactly at the minimum counts as ready
	readyIDs := []uuid.UUID{p.Ready[0].SupplierID, p.Ready[1].SupplierID}
	assert.Contains(t, readyIDs, exact.SupplierID)
	assert.Contains(t, readyIDs, above.SupplierID)
}

func TestClassifyByThreshold_IgnoresSettledSuppliers(t *testing.T) {
	paid := ledger.Settlement{
		SupplierID:  uuid.New(),
		Outstanding: decimal.Zero,
		Status:      ledger.SettlementStatusPaid,
	}
	pending := ledger.Settlement{
		SupplierID:  uuid.New(),
		Outstanding: decimal.Zero,
		Status:      ledger.SettlementStatusPending,
	}

	p := ledger.ClassifyByThreshold([]ledger.Settlement{paid, pending}, decimal.NewFromInt(100_000))

	assert.Empty(t, p.Ready)
	assert.Empty(t, p.PendingThreshold)
}

func TestClassifyByThreshold_RespectsUpdatedMinimum(t *testing.T) {
	s := unpaidSettlement(80_000)

	low := ledger.ClassifyByThreshold([]ledger.Settlement{s}, decimal.NewFromInt(50_000))
	require.Len(t, low.Ready, 1)

	// Raising the minimum immediately reclassifies the same supplier
	high := ledger.ClassifyByThreshold([]ledger.Settlement{s}, decimal.NewFromInt(100_000))
	assert.Empty(t, high.Ready)
	require.Len(t, high.PendingThreshold, 1)
}

func TestClassifyByThreshold_EmptyInput(t *testing.T) {
	p := ledger.ClassifyByThreshold(nil, decimal.NewFromInt(100_000))
	assert.NotNil(t, p.Ready)
	assert.NotNil(t, p.PendingThreshold)
	assert.Empty(t, p.Ready)
	assert.Empty(t, p.PendingThreshold)
}
