package handler

import (
	"github.com/gin-gonic/gin"
	settlementapp "github.com/titipin/backend/internal/application/settlement"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/interfaces/http/middleware"
)

// SettingsHandler handles payout policy endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *settlementapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settlementapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetPaymentSettings returns the current payout policy, creating defaults
// on first access
func (h *SettingsHandler) GetPaymentSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}

// UpdatePaymentSettings replaces the payout policy
func (h *SettingsHandler) UpdatePaymentSettings(c *gin.Context) {
	var req settlementapp.UpdatePaymentSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if !ledger.PaymentSchedule(req.PaymentSchedule).IsValid() {
		h.BadRequest(c, "Invalid payment schedule")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}
