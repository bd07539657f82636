package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	settlementapp "github.com/titipin/backend/internal/application/settlement"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/interfaces/http/dto"
)

func completedLineItem(supplierID uuid.UUID, revenue int64, soldAt time.Time) ledger.SaleLineItem {
	return ledger.SaleLineItem{
		ID:                uuid.New(),
		TransactionID:     uuid.New(),
		TransactionStatus: ledger.TransactionStatusCompleted,
		ProductID:         uuid.New(),
		SupplierID:        supplierID,
		OutletID:          uuid.New(),
		Quantity:          1,
		UnitPrice:         decimal.NewFromInt(revenue),
		Subtotal:          decimal.NewFromInt(revenue),
		CommissionAmount:  decimal.Zero,
		SupplierRevenue:   decimal.NewFromInt(revenue),
		SoldAt:            soldAt,
	}
}

func newSettlementTestRouter(lineItems *fakeLineItemRepo, payments *fakePaymentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := settlementapp.NewCommissionService(lineItems, payments, newFakeWalletRepo(), &fakeSettingsRepo{})
	h := NewSettlementHandler(svc)

	engine := gin.New()
	engine.GET("/settlements/commissions", h.GetCommissions)
	engine.GET("/settlements", h.GetSettlements)
	engine.GET("/settlements/suppliers/:supplierId/status", h.GetSupplierStatus)
	engine.GET("/settlements/ready-to-pay", h.GetReadyToPay)
	return engine
}

func TestSettlementHandler_GetCommissions(t *testing.T) {
	supplierID := uuid.New()
	soldAt := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	lineItems := &fakeLineItemRepo{items: []ledger.SaleLineItem{
		completedLineItem(supplierID, 150_000, soldAt),
		completedLineItem(supplierID, 100_000, soldAt),
	}}

	engine := newSettlementTestRouter(lineItems, newFakePaymentRepo())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/settlements/commissions?period_start=2026-08-01&period_end=2026-08-31", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                                 `json:"success"`
		Data    []settlementapp.CommissionSummaryDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, supplierID, resp.Data[0].SupplierID)
	assert.True(t, resp.Data[0].TotalSupplierRevenue.Equal(decimal.NewFromInt(250_000)))
}

func TestSettlementHandler_GetCommissions_MissingPeriod(t *testing.T) {
	engine := newSettlementTestRouter(&fakeLineItemRepo{}, newFakePaymentRepo())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settlements/commissions", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeBadRequest)
}

func TestSettlementHandler_GetCommissions_InvalidDate(t *testing.T) {
	engine := newSettlementTestRouter(&fakeLineItemRepo{}, newFakePaymentRepo())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/settlements/commissions?period_start=August&period_end=2026-08-31", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettlementHandler_GetSupplierStatus(t *testing.T) {
	supplierID := uuid.New()
	soldAt := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	lineItems := &fakeLineItemRepo{items: []ledger.SaleLineItem{
		completedLineItem(supplierID, 200_000, soldAt),
	}}

	engine := newSettlementTestRouter(lineItems, newFakePaymentRepo())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/settlements/suppliers/"+supplierID.String()+"/status?period_start=2026-08-01&period_end=2026-08-31", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data settlementapp.SettlementDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, supplierID, resp.Data.SupplierID)
	assert.True(t, resp.Data.Outstanding.Equal(decimal.NewFromInt(200_000)))
}

func TestSettlementHandler_GetSupplierStatus_InvalidID(t *testing.T) {
	engine := newSettlementTestRouter(&fakeLineItemRepo{}, newFakePaymentRepo())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/settlements/suppliers/not-a-uuid/status?period_start=2026-08-01&period_end=2026-08-31", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettlementHandler_GetReadyToPay(t *testing.T) {
	readySupplier := uuid.New()
	smallSupplier := uuid.New()
	soldAt := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	lineItems := &fakeLineItemRepo{items: []ledger.SaleLineItem{
		completedLineItem(readySupplier, 150_000, soldAt),
		completedLineItem(smallSupplier, 30_000, soldAt),
	}}

	engine := newSettlementTestRouter(lineItems, newFakePaymentRepo())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/settlements/ready-to-pay?period_start=2026-08-01&period_end=2026-08-31", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data settlementapp.ReadyToPayDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Ready, 1)
	assert.Equal(t, readySupplier, resp.Data.Ready[0].SupplierID)
	require.Len(t, resp.Data.PendingThreshold, 1)
	assert.Equal(t, smallSupplier, resp.Data.PendingThreshold[0].SupplierID)
}
