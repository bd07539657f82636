package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
	"github.com/titipin/backend/internal/domain/wallet"
	"go.uber.org/zap"
)

// =============================================================================
// Mocks
// =============================================================================

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) Save(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) SaveWithLock(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) FindAll(ctx context.Context, filter wallet.WithdrawalFilter) ([]wallet.WithdrawalRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, wr *wallet.WithdrawalRequest) error {
	args := m.Called(ctx, wr)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) Save(ctx context.Context, wr *wallet.WithdrawalRequest) error {
	args := m.Called(ctx, wr)
	return args.Error(0)
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func newTestService(wallets *MockWalletRepository, withdrawals *MockWithdrawalRepository) *WithdrawalService {
	scope := NewNoOpTransactionScope(wallets, withdrawals)
	settings := NewStaticSettings(wallet.DefaultMinimumWithdrawalAmount)
	return NewWithdrawalService(scope, settings, zap.NewNop())
}

func fundedWallet(t *testing.T, supplierID uuid.UUID, available int64) *wallet.Wallet {
	t.Helper()
	w, err := wallet.NewWallet(supplierID)
	require.NoError(t, err)
	if available > 0 {
		require.NoError(t, w.Credit(valueobject.NewMoneyIDRFromInt(available)))
	}
	return w
}

func pendingWithdrawal(t *testing.T, w *wallet.Wallet, amount int64) *wallet.WithdrawalRequest {
	t.Helper()
	wr, err := wallet.NewWithdrawalRequest(
		w.SupplierID, w.ID,
		valueobject.NewMoneyIDRFromInt(amount),
		wallet.BankAccount{BankName: "BCA", AccountNumber: "123", AccountHolderName: "Ibu Siti"},
		wallet.DefaultMinimumWithdrawalAmount,
		w.AvailableBalance,
	)
	require.NoError(t, err)
	return wr
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

// =============================================================================
// Tests
// =============================================================================

func TestCreateWithdrawal(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	supplierID := uuid.New()
	w := fundedWallet(t, supplierID, 200_000)

	wallets.On("FindBySupplier", mock.Anything, supplierID).Return(w, nil)
	withdrawals.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(wallets, withdrawals)
	dto, err := svc.CreateWithdrawal(context.Background(), CreateWithdrawalRequest{
		SupplierID:        supplierID,
		Amount:            decimal.NewFromInt(75_000),
		BankName:          "BCA",
		AccountNumber:     "1234567890",
		AccountHolderName: "Ibu Siti",
	})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", dto.Status)
	assert.True(t, dto.Amount.Equal(decimal.NewFromInt(75_000)))
	// Creation never touches the wallet
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(200_000)))
	wallets.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestCreateWithdrawal_BelowMinimum(t *testing.T) {
	wallets := new(MockWalletRepository)
	supplierID := uuid.New()
	wallets.On("FindBySupplier", mock.Anything, supplierID).Return(fundedWallet(t, supplierID, 200_000), nil)

	svc := newTestService(wallets, new(MockWithdrawalRepository))
	_, err := svc.CreateWithdrawal(context.Background(), CreateWithdrawalRequest{
		SupplierID:        supplierID,
		Amount:            decimal.NewFromInt(49_999),
		BankName:          "BCA",
		AccountNumber:     "123",
		AccountHolderName: "Ibu Siti",
	})
	require.Error(t, err)
	assert.Equal(t, "BELOW_MINIMUM", domainCode(t, err))
}

func TestCreateWithdrawal_NoWallet(t *testing.T) {
	wallets := new(MockWalletRepository)
	supplierID := uuid.New()
	wallets.On("FindBySupplier", mock.Anything, supplierID).Return(nil, nil)

	svc := newTestService(wallets, new(MockWithdrawalRepository))
	_, err := svc.CreateWithdrawal(context.Background(), CreateWithdrawalRequest{
		SupplierID:        supplierID,
		Amount:            decimal.NewFromInt(60_000),
		BankName:          "BCA",
		AccountNumber:     "123",
		AccountHolderName: "Ibu Siti",
	})
	require.Error(t, err)
	assert.Equal(t, "WALLET_NOT_FOUND", domainCode(t, err))
}

func TestApproveWithdrawal_ReservesFunds(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	w := fundedWallet(t, uuid.New(), 200_000)
	wr := pendingWithdrawal(t, w, 80_000)

	withdrawals.On("FindByID", mock.Anything, wr.ID).Return(wr, nil)
	wallets.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	wallets.On("SaveWithLock", mock.Anything, w).Return(nil)
	withdrawals.On("Save", mock.Anything, wr).Return(nil)

	svc := newTestService(wallets, withdrawals)
	dto, err := svc.ApproveWithdrawal(context.Background(), wr.ID)
	require.NoError(t, err)

	assert.Equal(t, "APPROVED", dto.Status)
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(120_000)))
	assert.True(t, w.PendingBalance.Equal(decimal.NewFromInt(80_000)))
}

func TestApproveWithdrawal_PublishesLifecycleEvents(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	w := fundedWallet(t, uuid.New(), 200_000)
	wr := pendingWithdrawal(t, w, 80_000)

	withdrawals.On("FindByID", mock.Anything, wr.ID).Return(wr, nil)
	wallets.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	wallets.On("SaveWithLock", mock.Anything, w).Return(nil)
	withdrawals.On("Save", mock.Anything, wr).Return(nil)

	svc := newTestService(wallets, withdrawals)
	bus := &capturingPublisher{}
	svc.SetEventPublisher(bus)

	_, err := svc.ApproveWithdrawal(context.Background(), wr.ID)
	require.NoError(t, err)

	types := make([]string, 0, len(bus.events))
	for _, evt := range bus.events {
		types = append(types, evt.EventType())
	}
	assert.Contains(t, types, "WithdrawalApproved")
	// Drained after publishing so a later save cannot re-emit them
	assert.Empty(t, wr.GetDomainEvents())
}

func TestRejectWithdrawal_PublishesRejectedEvent(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	w := fundedWallet(t, uuid.New(), 200_000)
	wr := pendingWithdrawal(t, w, 80_000)
	wr.ClearDomainEvents()

	withdrawals.On("FindByID", mock.Anything, wr.ID).Return(wr, nil)
	withdrawals.On("Save", mock.Anything, wr).Return(nil)

	svc := newTestService(wallets, withdrawals)
	bus := &capturingPublisher{}
	svc.SetEventPublisher(bus)

	_, err := svc.RejectWithdrawal(context.Background(), wr.ID, "Account name mismatch")
	require.NoError(t, err)

	require.Len(t, bus.events, 1)
	assert.Equal(t, "WithdrawalRejected", bus.events[0].EventType())
}

func TestApproveWithdrawal_SecondApprovalLoses(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	w := fundedWallet(t, uuid.New(), 200_000)
	wr := pendingWithdrawal(t, w, 80_000)

	withdrawals.On("FindByID", mock.Anything, wr.ID).Return(wr, nil)
	wallets.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	wallets.On("SaveWithLock", mock.Anything, w).Return(nil)
	withdrawals.On("Save", mock.Anything, wr).Return(nil)

	svc := newTestService(wallets, withdrawals)
	_, err := svc.ApproveWithdrawal(context.Background(), wr.ID)
	require.NoError(t, err)

	// The request is now APPROVED; replaying the approval must fail without
	// reserving twice
	_, err = svc.ApproveWithdrawal(context.Background(), wr.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
	assert.True(t, w.PendingBalance.Equal(decimal.NewFromInt(80_000)))
}

func TestApproveWithdrawal_RetriesOnConflict(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	w := fundedWallet(t, uuid.New(), 200_000)
	wr := pendingWithdrawal(t, w, 80_000)

	withdrawals.On("FindByID", mock.Anything, wr.ID).Return(wr, nil)
	wallets.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	// First save loses the optimistic lock race, the replay wins
	wallets.On("SaveWithLock", mock.Anything, w).Return(shared.ErrConcurrencyConflict).Once()
	wallets.On("SaveWithLock", mock.Anything, w).Return(nil).Once()
	withdrawals.On("Save", mock.Anything, wr).Return(nil)

	svc := newTestService(wallets, withdrawals)
	_, err := svc.ApproveWithdrawal(context.Background(), wr.ID)

	// The mutate closure replays against the same in-memory aggregates here;
	// with a real transaction scope the replay reloads fresh rows, and the
	// request's state guard rejects the second application. What matters is
	// that the conflict itself is retried, not surfaced.
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
	wallets.AssertNumberOfCalls(t, "SaveWithLock", 1)
}

func TestApproveWithdrawal_ExhaustsRetries(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	w := fundedWallet(t, uuid.New(), 500_000)

	// A fresh PENDING request per attempt isolates the retry counting
	withdrawals.On("FindByID", mock.Anything, mock.Anything).
		Return(pendingWithdrawal(t, w, 60_000), nil).Once()
	withdrawals.On("FindByID", mock.Anything, mock.Anything).
		Return(pendingWithdrawal(t, w, 60_000), nil).Once()
	withdrawals.On("FindByID", mock.Anything, mock.Anything).
		Return(pendingWithdrawal(t, w, 60_000), nil).Once()
	wallets.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	wallets.On("SaveWithLock", mock.Anything, w).Return(shared.ErrConcurrencyConflict)

	svc := newTestService(wallets, withdrawals)
	_, err := svc.ApproveWithdrawal(context.Background(), uuid.New())

	require.Error(t, err)
	assert.Equal(t, "CONCURRENCY_CONFLICT", domainCode(t, err))
	wallets.AssertNumberOfCalls(t, "SaveWithLock", 3)
}

func TestCompleteWithdrawal(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	w := fundedWallet(t, uuid.New(), 200_000)
	wr := pendingWithdrawal(t, w, 80_000)
	require.NoError(t, wr.Approve())
	require.NoError(t, w.ReserveForWithdrawal(valueobject.NewMoneyIDRFromInt(80_000)))

	withdrawals.On("FindByID", mock.Anything, wr.ID).Return(wr, nil)
	wallets.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	wallets.On("SaveWithLock", mock.Anything, w).Return(nil)
	withdrawals.On("Save", mock.Anything, wr).Return(nil)

	svc := newTestService(wallets, withdrawals)
	dto, err := svc.CompleteWithdrawal(context.Background(), wr.ID)
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", dto.Status)
	assert.True(t, w.PendingBalance.IsZero())
	assert.True(t, w.TotalWithdrawn.Equal(decimal.NewFromInt(80_000)))
}

func TestRejectWithdrawal_WalletUntouched(t *testing.T) {
	wallets := new(MockWalletRepository)
	withdrawals := new(MockWithdrawalRepository)
	w := fundedWallet(t, uuid.New(), 200_000)
	wr := pendingWithdrawal(t, w, 80_000)

	withdrawals.On("FindByID", mock.Anything, wr.ID).Return(wr, nil)
	withdrawals.On("Save", mock.Anything, wr).Return(nil)

	svc := newTestService(wallets, withdrawals)
	dto, err := svc.RejectWithdrawal(context.Background(), wr.ID, "account name mismatch")
	require.NoError(t, err)

	assert.Equal(t, "REJECTED", dto.Status)
	assert.Equal(t, "account name mismatch", dto.RejectionReason)
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(200_000)))
	wallets.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestRejectWithdrawal_NotFound(t *testing.T) {
	withdrawals := new(MockWithdrawalRepository)
	withdrawals.On("FindByID", mock.Anything, mock.Anything).Return(nil, nil)

	svc := newTestService(new(MockWalletRepository), withdrawals)
	_, err := svc.RejectWithdrawal(context.Background(), uuid.New(), "whatever")
	require.Error(t, err)
	assert.Equal(t, "WITHDRAWAL_NOT_FOUND", domainCode(t, err))
}
