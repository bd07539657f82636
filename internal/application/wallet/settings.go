package wallet

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
	"github.com/titipin/backend/internal/domain/wallet"
)

// StaticSettings serves the withdrawal minimum from configuration. The
// minimum withdrawal is an operational constant, unlike the payout threshold
// which admins tune at runtime.
type StaticSettings struct {
	minimum valueobject.Money
}

// NewStaticSettings creates a SettingsReader with a fixed minimum.
// A non-positive minimum falls back to the platform default.
func NewStaticSettings(minimum decimal.Decimal) *StaticSettings {
	if !minimum.IsPositive() {
		minimum = wallet.DefaultMinimumWithdrawalAmount
	}
	return &StaticSettings{minimum: valueobject.NewMoneyIDR(minimum)}
}

// MinimumWithdrawalAmount returns the configured minimum
func (s *StaticSettings) MinimumWithdrawalAmount(_ context.Context) (valueobject.Money, error) {
	return s.minimum, nil
}

var _ SettingsReader = (*StaticSettings)(nil)
