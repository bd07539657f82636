package ledger

import "github.com/shopspring/decimal"

// ThresholdPartition splits suppliers with unpaid balances into those whose
// outstanding amount has reached the minimum payout and those still below it.
// The two sets are disjoint; suppliers with zero outstanding appear in
// neither.
type ThresholdPartition struct {
	Ready            []Settlement `json:"ready"`
	PendingThreshold []Settlement `json:"pending_threshold"`
}

// ClassifyByThreshold partitions UNPAID settlements by the configured minimum
// payout amount. Pure function: recomputed on every query so a settings
// change takes effect immediately.
func ClassifyByThreshold(settlements []Settlement, minimumPayout decimal.Decimal) ThresholdPartition {
	partition := ThresholdPartition{
		Ready:            make([]Settlement, 0),
		PendingThreshold: make([]Settlement, 0),
	}
	for _, s := range settlements {
		if s.Status != SettlementStatusUnpaid || !s.Outstanding.IsPositive() {
			continue
		}
		if s.Outstanding.GreaterThanOrEqual(minimumPayout) {
			partition.Ready = append(partition.Ready, s)
		} else {
			partition.PendingThreshold = append(partition.PendingThreshold, s)
		}
	}
	return partition
}
