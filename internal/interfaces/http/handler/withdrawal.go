package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	walletapp "github.com/titipin/backend/internal/application/wallet"
	"github.com/titipin/backend/internal/domain/wallet"
	"github.com/titipin/backend/internal/interfaces/http/middleware"
)

// WithdrawalHandler handles withdrawal request endpoints
type WithdrawalHandler struct {
	BaseHandler
	withdrawalService *walletapp.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawalService *walletapp.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// WithdrawalListQuery carries withdrawal list query parameters
type WithdrawalListQuery struct {
	SupplierID string `form:"supplier_id"`
	Status     string `form:"status"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// RejectWithdrawalRequest carries the rejection reason
type RejectWithdrawalRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// Create submits a new withdrawal request. Supplier tokens may only
// withdraw from their own wallet.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req walletapp.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if supplierID, ok := getSupplierID(c); ok && supplierID != req.SupplierID {
		h.Forbidden(c, "Cannot create a withdrawal for another supplier")
		return
	}

	dto, err := h.withdrawalService.CreateWithdrawal(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto)
}

// List returns withdrawal requests matching the filter, newest first.
// Supplier tokens see only their own requests.
func (h *WithdrawalHandler) List(c *gin.Context) {
	var q WithdrawalListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}

	filter := wallet.WithdrawalFilter{Page: q.Page, PageSize: q.PageSize}

	if q.SupplierID != "" {
		id, err := uuid.Parse(q.SupplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		filter.SupplierID = &id
	}
	if supplierID, ok := getSupplierID(c); ok {
		filter.SupplierID = &supplierID
	}

	if q.Status != "" {
		status := wallet.WithdrawalStatus(q.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid withdrawal status")
			return
		}
		filter.Status = &status
	}

	dtos, err := h.withdrawalService.ListWithdrawals(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dtos)
}

// Get returns a single withdrawal request. Supplier tokens may only read
// their own requests.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid withdrawal ID format")
		return
	}

	dto, err := h.withdrawalService.GetWithdrawal(c.Request.Context(), withdrawalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if supplierID, ok := getSupplierID(c); ok && supplierID != dto.SupplierID {
		h.Forbidden(c, "Cannot access another supplier's withdrawal")
		return
	}

	h.Success(c, dto)
}

// Approve moves a pending request to APPROVED and reserves the funds
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid withdrawal ID format")
		return
	}

	dto, err := h.withdrawalService.ApproveWithdrawal(c.Request.Context(), withdrawalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}

// Complete settles an approved request after the transfer has been executed
func (h *WithdrawalHandler) Complete(c *gin.Context) {
	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid withdrawal ID format")
		return
	}

	dto, err := h.withdrawalService.CompleteWithdrawal(c.Request.Context(), withdrawalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}

// Reject declines a pending request with a reason. Nothing is reserved until
// approval, so the wallet balance is untouched.
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid withdrawal ID format")
		return
	}

	var req RejectWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dto, err := h.withdrawalService.RejectWithdrawal(c.Request.Context(), withdrawalID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto)
}
