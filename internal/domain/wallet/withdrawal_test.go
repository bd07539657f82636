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

var testBank = wallet.BankAccount{
	BankName:          "BCA",
	AccountNumber:     "1234567890",
	AccountHolderName: "Ibu Siti",
}

func newPendingRequest(t *testing.T, amount int64) *wallet.WithdrawalRequest {
	t.Helper()
	wr, err := wallet.NewWithdrawalRequest(
		uuid.New(), uuid.New(),
		valueobject.NewMoneyIDRFromInt(amount),
		testBank,
		wallet.DefaultMinimumWithdrawalAmount,
		decimal.NewFromInt(1_000_000),
	)
	require.NoError(t, err)
	return wr
}

func TestNewWithdrawalRequest(t *testing.T) {
	wr := newPendingRequest(t, 75_000)

	assert.Equal(t, wallet.WithdrawalStatusPending, wr.Status)
	assert.True(t, wr.Amount.Equal(decimal.NewFromInt(75_000)))
	assert.Equal(t, testBank, wr.Bank)
	assert.False(t, wr.RequestedAt.IsZero())
	assert.Nil(t, wr.ReviewedAt)
	assert.Nil(t, wr.CompletedAt)

	events := wr.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "WithdrawalRequested", events[0].EventType())
}

func TestNewWithdrawalRequest_Preconditions(t *testing.T) {
	min := wallet.DefaultMinimumWithdrawalAmount
	balance := decimal.NewFromInt(100_000)

	tests := []struct {
		name       string
		supplierID uuid.UUID
		walletID   uuid.UUID
		amount     int64
		bank       wallet.BankAccount
		wantCode   string
	}{
		{"missing supplier", uuid.Nil, uuid.New(), 60_000, testBank, "INVALID_SUPPLIER"},
		{"missing wallet", uuid.New(), uuid.Nil, 60_000, testBank, "INVALID_WALLET"},
		{"zero amount", uuid.New(), uuid.New(), 0, testBank, "INVALID_AMOUNT"},
		{"below minimum", uuid.New(), uuid.New(), 49_999, testBank, "BELOW_MINIMUM"},
		{"exceeds balance", uuid.New(), uuid.New(), 100_001, testBank, "EXCEEDS_BALANCE"},
		{"missing bank name", uuid.New(), uuid.New(), 60_000,
			wallet.BankAccount{AccountNumber: "123", AccountHolderName: "X"}, "INVALID_BANK_NAME"},
		{"missing account number", uuid.New(), uuid.New(), 60_000,
			wallet.BankAccount{BankName: "BCA", AccountHolderName: "X"}, "INVALID_ACCOUNT_NUMBER"},
		{"missing holder", uuid.New(), uuid.New(), 60_000,
			wallet.BankAccount{BankName: "BCA", AccountNumber: "123"}, "INVALID_ACCOUNT_HOLDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wallet.NewWithdrawalRequest(
				tt.supplierID, tt.walletID,
				valueobject.NewMoneyIDRFromInt(tt.amount),
				tt.bank, min, balance,
			)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestNewWithdrawalRequest_ExactMinimumAllowed(t *testing.T) {
	wr, err := wallet.NewWithdrawalRequest(
		uuid.New(), uuid.New(),
		valueobject.NewMoneyIDRFromInt(50_000),
		testBank,
		wallet.DefaultMinimumWithdrawalAmount,
		decimal.NewFromInt(50_000),
	)
	require.NoError(t, err)
	assert.Equal(t, wallet.WithdrawalStatusPending, wr.Status)
}

func TestWithdrawalRequest_ApproveThenComplete(t *testing.T) {
	wr := newPendingRequest(t, 60_000)

	require.NoError(t, wr.Approve())
	assert.Equal(t, wallet.WithdrawalStatusApproved, wr.Status)
	require.NotNil(t, wr.ReviewedAt)
	assert.Nil(t, wr.CompletedAt)

	require.NoError(t, wr.Complete())
	assert.Equal(t, wallet.WithdrawalStatusCompleted, wr.Status)
	require.NotNil(t, wr.CompletedAt)
}

func TestWithdrawalRequest_Reject(t *testing.T) {
	wr := newPendingRequest(t, 60_000)

	require.NoError(t, wr.Reject("bank account name mismatch"))
	assert.Equal(t, wallet.WithdrawalStatusRejected, wr.Status)
	assert.Equal(t, "bank account name mismatch", wr.RejectionReason)
	require.NotNil(t, wr.ReviewedAt)
}

func TestWithdrawalRequest_RejectRequiresReason(t *testing.T) {
	wr := newPendingRequest(t, 60_000)

	err := wr.Reject("   ")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REASON", domainErr.Code)
	assert.Equal(t, wallet.WithdrawalStatusPending, wr.Status)
}

func TestWithdrawalRequest_IllegalTransitions(t *testing.T) {
	// Complete straight from PENDING
	wr := newPendingRequest(t, 60_000)
	assert.Error(t, wr.Complete())

	// Terminal states accept nothing further
	rejected := newPendingRequest(t, 60_000)
	require.NoError(t, rejected.Reject("duplicate request"))
	assert.Error(t, rejected.Approve())
	assert.Error(t, rejected.Complete())
	assert.Error(t, rejected.Reject("again"))

	completed := newPendingRequest(t, 60_000)
	require.NoError(t, completed.Approve())
	require.NoError(t, completed.Complete())
	assert.Error(t, completed.Approve())
	assert.Error(t, completed.Reject("too late"))
	assert.Error(t, completed.Complete())
}

func TestWithdrawalStatus_Predicates(t *testing.T) {
	assert.True(t, wallet.WithdrawalStatusPending.CanReview())
	assert.False(t, wallet.WithdrawalStatusApproved.CanReview())

	assert.True(t, wallet.WithdrawalStatusApproved.CanComplete())
	assert.False(t, wallet.WithdrawalStatusPending.CanComplete())

	assert.True(t, wallet.WithdrawalStatusCompleted.IsTerminal())
	assert.True(t, wallet.WithdrawalStatusRejected.IsTerminal())
	assert.False(t, wallet.WithdrawalStatusPending.IsTerminal())
	assert.False(t, wallet.WithdrawalStatusApproved.IsTerminal())

	assert.False(t, wallet.WithdrawalStatus("CANCELLED").IsValid())
}
