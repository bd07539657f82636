package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/ledger"
)

// PeriodRequest scopes a settlement query to a date range and optionally to
// a subset of suppliers
type PeriodRequest struct {
	Start       time.Time
	End         time.Time
	SupplierIDs []uuid.UUID
}

// Period converts the request range into a normalized domain period
func (r PeriodRequest) Period() ledger.Period {
	return ledger.NewPeriod(r.Start, r.End)
}

// CommissionSummaryDTO is the API view of one supplier's aggregated
// commission for a period
type CommissionSummaryDTO struct {
	SupplierID           uuid.UUID       `json:"supplier_id"`
	TotalSales           decimal.Decimal `json:"total_sales"`
	TotalCommission      decimal.Decimal `json:"total_commission"`
	TotalSupplierRevenue decimal.Decimal `json:"total_supplier_revenue"`
	TransactionCount     int             `json:"transaction_count"`
	UnitCount            int             `json:"unit_count"`
	EffectiveRate        decimal.Decimal `json:"effective_commission_rate"`
}

func toSummaryDTO(s ledger.CommissionSummary) CommissionSummaryDTO {
	return CommissionSummaryDTO{
		SupplierID:           s.SupplierID,
		TotalSales:           s.TotalSales,
		TotalCommission:      s.TotalCommission,
		TotalSupplierRevenue: s.TotalSupplierRevenue,
		TransactionCount:     s.TransactionCount,
		UnitCount:            s.UnitCount,
		EffectiveRate:        s.EffectiveCommissionRate(),
	}
}

// SettlementDTO is the API view of one supplier's reconciled settlement
type SettlementDTO struct {
	SupplierID           uuid.UUID       `json:"supplier_id"`
	TotalSupplierRevenue decimal.Decimal `json:"total_supplier_revenue"`
	TotalPaid            decimal.Decimal `json:"total_paid"`
	Outstanding          decimal.Decimal `json:"outstanding"`
	Overpayment          decimal.Decimal `json:"overpayment"`
	Status               string          `json:"status"`
	Overpaid             bool            `json:"overpaid"`
}

func toSettlementDTO(s ledger.Settlement) SettlementDTO {
	return SettlementDTO{
		SupplierID:           s.SupplierID,
		TotalSupplierRevenue: s.TotalSupplierRevenue,
		TotalPaid:            s.TotalPaid,
		Outstanding:          s.Outstanding,
		Overpayment:          s.Overpayment,
		Status:               s.Status.String(),
		Overpaid:             s.IsOverpaid(),
	}
}

// ReadyToPayDTO partitions suppliers by the minimum payout threshold
type ReadyToPayDTO struct {
	MinimumPayoutAmount decimal.Decimal `json:"minimum_payout_amount"`
	Ready               []SettlementDTO `json:"ready"`
	PendingThreshold    []SettlementDTO `json:"pending_threshold"`
}
