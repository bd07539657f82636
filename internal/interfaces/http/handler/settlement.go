package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	settlementapp "github.com/titipin/backend/internal/application/settlement"
)

// SettlementHandler handles commission and settlement reporting endpoints
type SettlementHandler struct {
	BaseHandler
	commissionService *settlementapp.CommissionService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(commissionService *settlementapp.CommissionService) *SettlementHandler {
	return &SettlementHandler{commissionService: commissionService}
}

// PeriodQuery carries the settlement period query parameters
type PeriodQuery struct {
	PeriodStart string `form:"period_start" binding:"required"`
	PeriodEnd   string `form:"period_end" binding:"required"`
	SupplierIDs string `form:"supplier_ids"`
}

// parsePeriodRequest binds and converts query parameters into a period
// request. Dates accept YYYY-MM-DD; supplier_ids is a comma separated list.
func (h *SettlementHandler) parsePeriodRequest(c *gin.Context) (settlementapp.PeriodRequest, bool) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "period_start and period_end are required")
		return settlementapp.PeriodRequest{}, false
	}

	start, err := time.Parse("2006-01-02", q.PeriodStart)
	if err != nil {
		h.BadRequest(c, "period_start must be in YYYY-MM-DD format")
		return settlementapp.PeriodRequest{}, false
	}
	end, err := time.Parse("2006-01-02", q.PeriodEnd)
	if err != nil {
		h.BadRequest(c, "period_end must be in YYYY-MM-DD format")
		return settlementapp.PeriodRequest{}, false
	}
	if end.Before(start) {
		h.BadRequest(c, "period_end must not be before period_start")
		return settlementapp.PeriodRequest{}, false
	}

	req := settlementapp.PeriodRequest{Start: start, End: end}
	if q.SupplierIDs != "" {
		for _, raw := range strings.Split(q.SupplierIDs, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				h.BadRequest(c, "supplier_ids contains an invalid UUID")
				return settlementapp.PeriodRequest{}, false
			}
			req.SupplierIDs = append(req.SupplierIDs, id)
		}
	}
	return req, true
}

// GetCommissions returns per-supplier commission summaries for a period
func (h *SettlementHandler) GetCommissions(c *gin.Context) {
	req, ok := h.parsePeriodRequest(c)
	if !ok {
		return
	}

	summaries, err := h.commissionService.GetCommissionSummaries(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summaries)
}

// GetSettlements returns reconciled settlements for all suppliers in a period
func (h *SettlementHandler) GetSettlements(c *gin.Context) {
	req, ok := h.parsePeriodRequest(c)
	if !ok {
		return
	}

	settlements, err := h.commissionService.GetSettlements(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settlements)
}

// GetSupplierStatus returns the settlement status for a single supplier
func (h *SettlementHandler) GetSupplierStatus(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("supplierId"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	req, ok := h.parsePeriodRequest(c)
	if !ok {
		return
	}

	settlement, err := h.commissionService.GetSupplierSettlement(c.Request.Context(), supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settlement)
}

// GetReadyToPay partitions suppliers by the minimum payout threshold
func (h *SettlementHandler) GetReadyToPay(c *gin.Context) {
	req, ok := h.parsePeriodRequest(c)
	if !ok {
		return
	}

	result, err := h.commissionService.GetReadyToPay(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
