package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/domain/payment"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/wallet"
	"github.com/titipin/backend/internal/infrastructure/telemetry"
)

// CommissionService derives commission summaries and settlement state from
// sale line items. Nothing it computes is persisted: every call re-derives
// from the line items and recorded payments so results cannot drift from the
// source of truth.
type CommissionService struct {
	lineItemRepo ledger.SaleLineItemRepository
	paymentRepo  payment.Repository
	walletRepo   wallet.WalletRepository
	settingsRepo ledger.PaymentSettingsRepository
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(
	lineItemRepo ledger.SaleLineItemRepository,
	paymentRepo payment.Repository,
	walletRepo wallet.WalletRepository,
	settingsRepo ledger.PaymentSettingsRepository,
) *CommissionService {
	return &CommissionService{
		lineItemRepo: lineItemRepo,
		paymentRepo:  paymentRepo,
		walletRepo:   walletRepo,
		settingsRepo: settingsRepo,
	}
}

// GetCommissionSummaries aggregates completed sale line items per supplier
// over the requested period. A line-item read failure propagates as an error
// rather than an empty result, so a transient outage is never mistaken for
// "no sales".
func (s *CommissionService) GetCommissionSummaries(ctx context.Context, req PeriodRequest) ([]CommissionSummaryDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "get_commission_summaries")
	defer span.End()

	items, err := s.lineItemRepo.FindCompleted(ctx, req.SupplierIDs, req.Period())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load sale line items: %w", err)
	}

	summaries := ledger.Aggregate(items)
	dtos := make([]CommissionSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		dtos = append(dtos, toSummaryDTO(summary))
	}
	return dtos, nil
}

// GetSettlements reconciles every supplier with sales in the period against
// recorded payments for the same period.
func (s *CommissionService) GetSettlements(ctx context.Context, req PeriodRequest) ([]SettlementDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "get_settlements")
	defer span.End()

	settlements, err := s.reconcilePeriod(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	dtos := make([]SettlementDTO, 0, len(settlements))
	for _, settlement := range settlements {
		dtos = append(dtos, toSettlementDTO(settlement))
	}
	return dtos, nil
}

// GetSupplierSettlement reconciles a single supplier for the period. A
// supplier with no sales in the period reconciles to a zero-revenue PAID
// settlement rather than a not-found error.
func (s *CommissionService) GetSupplierSettlement(ctx context.Context, supplierID uuid.UUID, req PeriodRequest) (*SettlementDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "get_supplier_settlement")
	defer span.End()
	telemetry.SetAttributes(span, "supplier_id", supplierID.String())

	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	scoped := req
	scoped.SupplierIDs = []uuid.UUID{supplierID}
	settlements, err := s.reconcilePeriod(ctx, scoped)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	for _, settlement := range settlements {
		if settlement.SupplierID == supplierID {
			dto := toSettlementDTO(settlement)
			return &dto, nil
		}
	}

	// No sales in the period: reconcile against payments and wallet anyway
	settlement, err := s.reconcileSupplier(ctx, ledger.CommissionSummary{
		SupplierID:           supplierID,
		TotalSales:           decimal.Zero,
		TotalCommission:      decimal.Zero,
		TotalSupplierRevenue: decimal.Zero,
	}, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	dto := toSettlementDTO(settlement)
	return &dto, nil
}

// GetReadyToPay partitions unpaid suppliers by the configured minimum payout
// amount. The threshold is read fresh on every call so a settings change
// takes effect immediately.
func (s *CommissionService) GetReadyToPay(ctx context.Context, req PeriodRequest) (*ReadyToPayDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "get_ready_to_pay")
	defer span.End()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load payment settings: %w", err)
	}

	settlements, err := s.reconcilePeriod(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	partition := ledger.ClassifyByThreshold(settlements, settings.MinimumPayoutAmount)

	result := &ReadyToPayDTO{
		MinimumPayoutAmount: settings.MinimumPayoutAmount,
		Ready:               make([]SettlementDTO, 0, len(partition.Ready)),
		PendingThreshold:    make([]SettlementDTO, 0, len(partition.PendingThreshold)),
	}
	for _, settlement := range partition.Ready {
		result.Ready = append(result.Ready, toSettlementDTO(settlement))
	}
	for _, settlement := range partition.PendingThreshold {
		result.PendingThreshold = append(result.PendingThreshold, toSettlementDTO(settlement))
	}
	return result, nil
}

func (s *CommissionService) reconcilePeriod(ctx context.Context, req PeriodRequest) ([]ledger.Settlement, error) {
	items, err := s.lineItemRepo.FindCompleted(ctx, req.SupplierIDs, req.Period())
	if err != nil {
		return nil, fmt.Errorf("failed to load sale line items: %w", err)
	}

	summaries := ledger.Aggregate(items)
	settlements := make([]ledger.Settlement, 0, len(summaries))
	for _, summary := range summaries {
		settlement, err := s.reconcileSupplier(ctx, summary, req)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, settlement)
	}
	return settlements, nil
}

func (s *CommissionService) reconcileSupplier(ctx context.Context, summary ledger.CommissionSummary, req PeriodRequest) (ledger.Settlement, error) {
	period := req.Period()
	paidTotal, err := s.paymentRepo.SumBySupplierAndPeriod(ctx, summary.SupplierID, period.Start, period.End)
	if err != nil {
		return ledger.Settlement{}, fmt.Errorf("failed to sum payments for supplier %s: %w", summary.SupplierID, err)
	}

	pendingBalance := decimal.Zero
	w, err := s.walletRepo.FindBySupplier(ctx, summary.SupplierID)
	if err != nil {
		return ledger.Settlement{}, fmt.Errorf("failed to load wallet for supplier %s: %w", summary.SupplierID, err)
	}
	if w != nil {
		pendingBalance = w.PendingBalance
	}

	return ledger.Reconcile(summary, paidTotal, pendingBalance), nil
}
