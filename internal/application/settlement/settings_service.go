package settlement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PaymentSettingsDTO is the API view of the payout policy
type PaymentSettingsDTO struct {
	MinimumPayoutAmount decimal.Decimal `json:"minimum_payout_amount"`
	PaymentSchedule     string          `json:"payment_schedule"`
	AllowPartialPayment bool            `json:"allow_partial_payment"`
}

// UpdatePaymentSettingsRequest is the input for an admin policy change
type UpdatePaymentSettingsRequest struct {
	MinimumPayoutAmount decimal.Decimal `json:"minimum_payout_amount" binding:"required"`
	PaymentSchedule     string          `json:"payment_schedule" binding:"required"`
	AllowPartialPayment bool            `json:"allow_partial_payment"`
}

// SettingsService manages the payout policy singleton
type SettingsService struct {
	settingsRepo ledger.PaymentSettingsRepository
	logger       *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo ledger.PaymentSettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, logger: logger}
}

// GetSettings returns the current payout policy, creating defaults on first access
func (s *SettingsService) GetSettings(ctx context.Context) (*PaymentSettingsDTO, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment settings: %w", err)
	}
	return toSettingsDTO(settings), nil
}

// UpdateSettings applies an admin policy change. The new threshold takes
// effect on the next settlement query; nothing is reclassified eagerly.
func (s *SettingsService) UpdateSettings(ctx context.Context, req UpdatePaymentSettingsRequest) (*PaymentSettingsDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "update_settings")
	defer span.End()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load payment settings: %w", err)
	}

	if err := settings.Update(req.MinimumPayoutAmount, ledger.PaymentSchedule(req.PaymentSchedule), req.AllowPartialPayment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save payment settings: %w", err)
	}

	s.logger.Info("Payment settings updated",
		zap.String("minimum_payout", settings.MinimumPayoutAmount.String()),
		zap.String("schedule", string(settings.PaymentScheduleTag)),
		zap.Bool("allow_partial", settings.AllowPartialPayment))
	return toSettingsDTO(settings), nil
}

func toSettingsDTO(settings *ledger.PaymentSettings) *PaymentSettingsDTO {
	return &PaymentSettingsDTO{
		MinimumPayoutAmount: settings.MinimumPayoutAmount,
		PaymentSchedule:     string(settings.PaymentScheduleTag),
		AllowPartialPayment: settings.AllowPartialPayment,
	}
}
