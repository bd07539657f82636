package wallet_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
	"github.com/titipin/backend/internal/domain/wallet"
)

func newTestWallet(t *testing.T, available int64) *wallet.Wallet {
	t.Helper()
	w, err := wallet.NewWallet(uuid.New())
	require.NoError(t, err)
	if available > 0 {
		require.NoError(t, w.Credit(valueobject.NewMoneyIDRFromInt(available)))
	}
	return w
}

func TestNewWallet(t *testing.T) {
	supplierID := uuid.New()
	w, err := wallet.NewWallet(supplierID)
	require.NoError(t, err)

	assert.Equal(t, supplierID, w.SupplierID)
	assert.True(t, w.AvailableBalance.IsZero())
	assert.True(t, w.PendingBalance.IsZero())
	assert.True(t, w.TotalEarned.IsZero())
	assert.True(t, w.TotalWithdrawn.IsZero())

	events := w.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "WalletCreated", events[0].EventType())
}

func TestNewWallet_RequiresSupplier(t *testing.T) {
	_, err := wallet.NewWallet(uuid.Nil)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SUPPLIER", domainErr.Code)
}

func TestWallet_CreditAndDebit(t *testing.T) {
	w := newTestWallet(t, 0)

	require.NoError(t, w.Credit(valueobject.NewMoneyIDRFromInt(200_000)))
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(200_000)))

	require.NoError(t, w.Debit(valueobject.NewMoneyIDRFromInt(50_000)))
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(150_000)))
}

func TestWallet_DebitInsufficientBalance(t *testing.T) {
	w := newTestWallet(t, 100_000)

	err := w.Debit(valueobject.NewMoneyIDRFromInt(100_001))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_BALANCE", domainErr.Code)

	// Balance unchanged after a failed debit
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(100_000)))
}

func TestWallet_RejectsNonPositiveAmounts(t *testing.T) {
	w := newTestWallet(t, 100_000)

	assert.Error(t, w.Credit(valueobject.ZeroIDR()))
	assert.Error(t, w.Credit(valueobject.NewMoneyIDRFromInt(-1_000)))
	assert.Error(t, w.Debit(valueobject.ZeroIDR()))
	assert.Error(t, w.ReserveForWithdrawal(valueobject.ZeroIDR()))
	assert.Error(t, w.SettleWithdrawal(valueobject.ZeroIDR()))
}

func TestWallet_ReserveAndSettleWithdrawal(t *testing.T) {
	w := newTestWallet(t, 300_000)

	require.NoError(t, w.ReserveForWithdrawal(valueobject.NewMoneyIDRFromInt(120_000)))
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(180_000)))
	assert.True(t, w.PendingBalance.Equal(decimal.NewFromInt(120_000)))
	assert.True(t, w.HasPendingWithdrawal())

	require.NoError(t, w.SettleWithdrawal(valueobject.NewMoneyIDRFromInt(120_000)))
	assert.True(t, w.PendingBalance.IsZero())
	assert.True(t, w.TotalWithdrawn.Equal(decimal.NewFromInt(120_000)))
	assert.False(t, w.HasPendingWithdrawal())
}

func TestWallet_ReserveInsufficientBalance(t *testing.T) {
	w := newTestWallet(t, 100_000)

	err := w.ReserveForWithdrawal(valueobject.NewMoneyIDRFromInt(150_000))
	require.Error(t, err)

	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(100_000)))
	assert.True(t, w.PendingBalance.IsZero())
}

func TestWallet_SettleMoreThanPending(t *testing.T) {
	w := newTestWallet(t, 100_000)
	require.NoError(t, w.ReserveForWithdrawal(valueobject.NewMoneyIDRFromInt(60_000)))

	err := w.SettleWithdrawal(valueobject.NewMoneyIDRFromInt(70_000))
	require.Error(t, err)
	assert.True(t, w.PendingBalance.Equal(decimal.NewFromInt(60_000)))
	assert.True(t, w.TotalWithdrawn.IsZero())
}

func TestWallet_SetTotalEarned(t *testing.T) {
	w := newTestWallet(t, 0)

	require.NoError(t, w.SetTotalEarned(decimal.NewFromInt(950_000)))
	assert.True(t, w.TotalEarned.Equal(decimal.NewFromInt(950_000)))

	// Recomputation can legitimately lower the total after corrections
	require.NoError(t, w.SetTotalEarned(decimal.NewFromInt(900_000)))
	assert.True(t, w.TotalEarned.Equal(decimal.NewFromInt(900_000)))

	assert.Error(t, w.SetTotalEarned(decimal.NewFromInt(-1)))
}

func TestWallet_VersionIncrementsOnMutation(t *testing.T) {
	w := newTestWallet(t, 0)
	v := w.Version

	require.NoError(t, w.Credit(valueobject.NewMoneyIDRFromInt(10_000)))
	assert.Equal(t, v+1, w.Version)

	require.NoError(t, w.Debit(valueobject.NewMoneyIDRFromInt(5_000)))
	assert.Equal(t, v+2, w.Version)
}
