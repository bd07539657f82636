package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/domain/payment"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/wallet"
)

// =============================================================================
// Mocks
// =============================================================================

type MockSaleLineItemRepository struct {
	mock.Mock
}

func (m *MockSaleLineItemRepository) FindCompleted(ctx context.Context, supplierIDs []uuid.UUID, period ledger.Period) ([]ledger.SaleLineItem, error) {
	args := m.Called(ctx, supplierIDs, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SaleLineItem), args.Error(1)
}

func (m *MockSaleLineItemRepository) SumSupplierRevenue(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter payment.Filter) ([]payment.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumBySupplierAndPeriod(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, supplierID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) AttachProof(ctx context.Context, id uuid.UUID, proofURL string) error {
	args := m.Called(ctx, id, proofURL)
	return args.Error(0)
}

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

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*ledger.PaymentSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PaymentSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *ledger.PaymentSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func testPeriod() PeriodRequest {
	return PeriodRequest{
		Start: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC),
	}
}

func completedItem(supplierID uuid.UUID, subtotal, commission int64) ledger.SaleLineItem {
	return ledger.SaleLineItem{
		ID:                uuid.New(),
		TransactionID:     uuid.New(),
		TransactionStatus: ledger.TransactionStatusCompleted,
		ProductID:         uuid.New(),
		SupplierID:        supplierID,
		OutletID:          uuid.New(),
		Quantity:          1,
		UnitPrice:         decimal.NewFromInt(subtotal),
		Subtotal:          decimal.NewFromInt(subtotal),
		CommissionAmount:  decimal.NewFromInt(commission),
		SupplierRevenue:   decimal.NewFromInt(subtotal - commission),
		SoldAt:            time.Date(2024, 11, 10, 10, 0, 0, 0, time.UTC),
	}
}

func newService(lineItems *MockSaleLineItemRepository, payments *MockPaymentRepository, wallets *MockWalletRepository, settings *MockSettingsRepository) *CommissionService {
	return NewCommissionService(lineItems, payments, wallets, settings)
}

// =============================================================================
// Tests
// =============================================================================

func TestGetCommissionSummaries(t *testing.T) {
	lineItems := new(MockSaleLineItemRepository)
	supplierID := uuid.New()

	lineItems.On("FindCompleted", mock.Anything, mock.Anything, mock.Anything).Return([]ledger.SaleLineItem{
		completedItem(supplierID, 100_000, 10_000),
		completedItem(supplierID, 50_000, 5_000),
	}, nil)

	svc := newService(lineItems, new(MockPaymentRepository), new(MockWalletRepository), new(MockSettingsRepository))
	summaries, err := svc.GetCommissionSummaries(context.Background(), testPeriod())
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	assert.Equal(t, supplierID, summaries[0].SupplierID)
	assert.True(t, summaries[0].TotalSales.Equal(decimal.NewFromInt(150_000)))
	assert.True(t, summaries[0].TotalCommission.Equal(decimal.NewFromInt(15_000)))
	assert.True(t, summaries[0].TotalSupplierRevenue.Equal(decimal.NewFromInt(135_000)))
	assert.True(t, summaries[0].EffectiveRate.Equal(decimal.NewFromFloat(0.10)))
}

func TestGetCommissionSummaries_SourceUnavailable(t *testing.T) {
	lineItems := new(MockSaleLineItemRepository)
	lineItems.On("FindCompleted", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, shared.ErrSourceUnavailable)

	svc := newService(lineItems, new(MockPaymentRepository), new(MockWalletRepository), new(MockSettingsRepository))
	summaries, err := svc.GetCommissionSummaries(context.Background(), testPeriod())

	// A read failure must never be served as "no sales"
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrSourceUnavailable))
	assert.Nil(t, summaries)
}

func TestGetSettlements_PartiallyPaid(t *testing.T) {
	supplierID := uuid.New()
	lineItems := new(MockSaleLineItemRepository)
	payments := new(MockPaymentRepository)
	wallets := new(MockWalletRepository)

	// Rp 1.000.000 net revenue in the period
	lineItems.On("FindCompleted", mock.Anything, mock.Anything, mock.Anything).Return([]ledger.SaleLineItem{
		completedItem(supplierID, 1_111_111, 111_111),
	}, nil)
	payments.On("SumBySupplierAndPeriod", mock.Anything, supplierID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(600_000), nil)
	wallets.On("FindBySupplier", mock.Anything, supplierID).Return(nil, nil)

	svc := newService(lineItems, payments, wallets, new(MockSettingsRepository))
	settlements, err := svc.GetSettlements(context.Background(), testPeriod())
	require.NoError(t, err)
	require.Len(t, settlements, 1)

	assert.True(t, settlements[0].Outstanding.Equal(decimal.NewFromInt(400_000)))
	assert.Equal(t, "UNPAID", settlements[0].Status)
	assert.False(t, settlements[0].Overpaid)
}

func TestGetSupplierSettlement_NoSalesInPeriod(t *testing.T) {
	supplierID := uuid.New()
	lineItems := new(MockSaleLineItemRepository)
	payments := new(MockPaymentRepository)
	wallets := new(MockWalletRepository)

	lineItems.On("FindCompleted", mock.Anything, mock.Anything, mock.Anything).
		Return([]ledger.SaleLineItem{}, nil)
	payments.On("SumBySupplierAndPeriod", mock.Anything, supplierID, mock.Anything, mock.Anything).
		Return(decimal.Zero, nil)
	wallets.On("FindBySupplier", mock.Anything, supplierID).Return(nil, nil)

	svc := newService(lineItems, payments, wallets, new(MockSettingsRepository))
	dto, err := svc.GetSupplierSettlement(context.Background(), supplierID, testPeriod())
	require.NoError(t, err)

	assert.True(t, dto.TotalSupplierRevenue.IsZero())
	assert.Equal(t, "PAID", dto.Status)
}

func TestGetSupplierSettlement_PendingWithdrawal(t *testing.T) {
	supplierID := uuid.New()
	lineItems := new(MockSaleLineItemRepository)
	payments := new(MockPaymentRepository)
	wallets := new(MockWalletRepository)

	w, err := wallet.NewWallet(supplierID)
	require.NoError(t, err)
	w.PendingBalance = decimal.NewFromInt(75_000)

	lineItems.On("FindCompleted", mock.Anything, mock.Anything, mock.Anything).Return([]ledger.SaleLineItem{
		completedItem(supplierID, 500_000, 50_000),
	}, nil)
	payments.On("SumBySupplierAndPeriod", mock.Anything, supplierID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(450_000), nil)
	wallets.On("FindBySupplier", mock.Anything, supplierID).Return(w, nil)

	svc := newService(lineItems, payments, wallets, new(MockSettingsRepository))
	dto, err := svc.GetSupplierSettlement(context.Background(), supplierID, testPeriod())
	require.NoError(t, err)

	// Fully paid but a withdrawal is in flight
	assert.Equal(t, "PENDING", dto.Status)
}

func TestGetReadyToPay_Partition(t *testing.T) {
	supplierA := uuid.New() // 150k outstanding -> ready
	supplierB := uuid.New() // 80k outstanding -> below threshold
	supplierC := uuid.New() // fully paid -> neither

	lineItems := new(MockSaleLineItemRepository)
	payments := new(MockPaymentRepository)
	wallets := new(MockWalletRepository)
	settings := new(MockSettingsRepository)

	lineItems.On("FindCompleted", mock.Anything, mock.Anything, mock.Anything).Return([]ledger.SaleLineItem{
		completedItem(supplierA, 166_667, 16_667),
		completedItem(supplierB, 88_889, 8_889),
		completedItem(supplierC, 111_111, 11_111),
	}, nil)
	payments.On("SumBySupplierAndPeriod", mock.Anything, supplierA, mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	payments.On("SumBySupplierAndPeriod", mock.Anything, supplierB, mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	payments.On("SumBySupplierAndPeriod", mock.Anything, supplierC, mock.Anything, mock.Anything).Return(decimal.NewFromInt(100_000), nil)
	wallets.On("FindBySupplier", mock.Anything, mock.Anything).Return(nil, nil)
	settings.On("Get", mock.Anything).Return(ledger.DefaultPaymentSettings(), nil)

	svc := newService(lineItems, payments, wallets, settings)
	result, err := svc.GetReadyToPay(context.Background(), testPeriod())
	require.NoError(t, err)

	require.Len(t, result.Ready, 1)
	assert.Equal(t, supplierA, result.Ready[0].SupplierID)
	require.Len(t, result.PendingThreshold, 1)
	assert.Equal(t, supplierB, result.PendingThreshold[0].SupplierID)
	assert.True(t, result.MinimumPayoutAmount.Equal(decimal.NewFromInt(100_000)))
}

func TestGetReadyToPay_UsesCurrentThreshold(t *testing.T) {
	supplierID := uuid.New() // 80k outstanding

	lineItems := new(MockSaleLineItemRepository)
	payments := new(MockPaymentRepository)
	wallets := new(MockWalletRepository)
	settings := new(MockSettingsRepository)

	lineItems.On("FindCompleted", mock.Anything, mock.Anything, mock.Anything).Return([]ledger.SaleLineItem{
		completedItem(supplierID, 88_889, 8_889),
	}, nil)
	payments.On("SumBySupplierAndPeriod", mock.Anything, supplierID, mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	wallets.On("FindBySupplier", mock.Anything, supplierID).Return(nil, nil)

	lowered := ledger.DefaultPaymentSettings()
	require.NoError(t, lowered.Update(decimal.NewFromInt(50_000), ledger.PaymentScheduleManual, false))
	settings.On("Get", mock.Anything).Return(lowered, nil)

	svc := newService(lineItems, payments, wallets, settings)
	result, err := svc.GetReadyToPay(context.Background(), testPeriod())
	require.NoError(t, err)

	// 80k clears the lowered 50k threshold
	require.Len(t, result.Ready, 1)
	assert.Empty(t, result.PendingThreshold)
}
