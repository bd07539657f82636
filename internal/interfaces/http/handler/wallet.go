package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	walletapp "github.com/titipin/backend/internal/application/wallet"
)

// WalletHandler handles supplier wallet endpoints
type WalletHandler struct {
	BaseHandler
	walletService *walletapp.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *walletapp.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetWallet returns the supplier's wallet, creating an empty one on first
// access
func (h *WalletHandler) GetWallet(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("supplierId"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	dto, err := h.walletService.GetOrCreateWallet(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}

// RecomputeTotalEarned recalculates the wallet's lifetime earned figure
// from completed sale line items
func (h *WalletHandler) RecomputeTotalEarned(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("supplierId"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	dto, err := h.walletService.RecomputeTotalEarned(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}
