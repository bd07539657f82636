package event

import (
	"context"

	"github.com/titipin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLog subscribes to every domain event and writes it to the
// structured log, giving operators a flat audit trail of wallet, withdrawal
// and payout activity without querying individual tables.
type ActivityLog struct {
	logger *zap.Logger
}

// NewActivityLog creates an ActivityLog writing to the given logger
func NewActivityLog(logger *zap.Logger) *ActivityLog {
	return &ActivityLog{logger: logger}
}

// Handle logs one domain event
func (l *ActivityLog) Handle(ctx context.Context, evt shared.DomainEvent) error {
	l.logger.Info("Ledger activity",
		zap.String("event_type", evt.EventType()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns nil so the activity log receives all events
func (l *ActivityLog) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*ActivityLog)(nil)
