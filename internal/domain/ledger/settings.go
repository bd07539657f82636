package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/shared"
)

// PaymentSchedule is an advisory tag describing when payouts are batched.
// It never triggers payments by itself.
type PaymentSchedule string

const (
	PaymentScheduleManual   PaymentSchedule = "MANUAL"
	PaymentScheduleWeekly   PaymentSchedule = "WEEKLY"
	PaymentScheduleBiweekly PaymentSchedule = "BIWEEKLY"
	PaymentScheduleMonthly  PaymentSchedule = "MONTHLY"
)

// IsValid checks if the schedule is a valid PaymentSchedule
func (s PaymentSchedule) IsValid() bool {
	switch s {
	case PaymentScheduleManual, PaymentScheduleWeekly,
		PaymentScheduleBiweekly, PaymentScheduleMonthly:
		return true
	}
	return false
}

// DefaultMinimumPayoutAmount is the platform default minimum outstanding
// amount before a supplier is batched into a payable group (Rp 100.000).
var DefaultMinimumPayoutAmount = decimal.NewFromInt(100_000)

// PaymentSettings is the process-wide payout policy. Exactly one row exists;
// it is read by the threshold classifier and the withdrawal handler and
// mutated only by admin configuration actions. It is injected explicitly
// rather than read as ambient global state.
type PaymentSettings struct {
	shared.BaseAggregateRoot
	MinimumPayoutAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentScheduleTag  PaymentSchedule `gorm:"type:varchar(20);not null;default:'MANUAL';column:payment_schedule"`
	AllowPartialPayment bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PaymentSettings) TableName() string {
	return "payment_settings"
}

// DefaultPaymentSettings returns the platform defaults
func DefaultPaymentSettings() *PaymentSettings {
	return &PaymentSettings{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		MinimumPayoutAmount: DefaultMinimumPayoutAmount,
		PaymentScheduleTag:  PaymentScheduleManual,
		AllowPartialPayment: false,
	}
}

// Update applies an admin configuration change
func (ps *PaymentSettings) Update(minimumPayout decimal.Decimal, schedule PaymentSchedule, allowPartial bool) error {
	if !minimumPayout.IsPositive() {
		return shared.NewDomainError("INVALID_MINIMUM_PAYOUT", "Minimum payout amount must be positive")
	}
	if !schedule.IsValid() {
		return shared.NewDomainError("INVALID_SCHEDULE", "Payment schedule is not valid")
	}
	ps.MinimumPayoutAmount = minimumPayout
	ps.PaymentScheduleTag = schedule
	ps.AllowPartialPayment = allowPartial
	ps.IncrementVersion()
	return nil
}

// PaymentSettingsRepository persists the settings singleton
type PaymentSettingsRepository interface {
	// Get returns the singleton settings row, creating it with defaults on
	// first access.
	Get(ctx context.Context) (*PaymentSettings, error)
	// Save persists an updated settings row
	Save(ctx context.Context, settings *PaymentSettings) error
}
