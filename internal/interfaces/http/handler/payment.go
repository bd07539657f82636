package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/titipin/backend/internal/application/payment"
	"github.com/titipin/backend/internal/domain/payment"
	"github.com/titipin/backend/internal/interfaces/http/dto"
	"github.com/titipin/backend/internal/interfaces/http/middleware"
)

// maxProofFileSize caps uploaded proof documents at 5MB
const maxProofFileSize = 5 << 20

// PaymentHandler handles supplier payout recording endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PaymentListQuery carries payment list query parameters
type PaymentListQuery struct {
	SupplierID string `form:"supplier_id"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Record registers a completed supplier payout. Accepts either plain JSON
// or multipart/form-data with the payment fields in a "payment" part and
// an optional proof document in a "proof" part. The Idempotency-Key header
// deduplicates retried submissions.
func (h *PaymentHandler) Record(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req paymentapp.RecordPaymentRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if !h.bindMultipart(c, &req) {
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	if key := c.GetHeader("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}
	req.CreatedBy = userID

	recorded, err := h.paymentService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, recorded)
}

// bindMultipart extracts the payment JSON and optional proof file from a
// multipart request
func (h *PaymentHandler) bindMultipart(c *gin.Context, req *paymentapp.RecordPaymentRequest) bool {
	payload := c.PostForm("payment")
	if payload == "" {
		h.BadRequest(c, "payment form field is required")
		return false
	}
	if err := json.Unmarshal([]byte(payload), req); err != nil {
		h.BadRequest(c, "payment form field must be valid JSON")
		return false
	}

	file, header, err := c.Request.FormFile("proof")
	if err == http.ErrMissingFile {
		return true
	}
	if err != nil {
		h.BadRequest(c, "proof file could not be read")
		return false
	}
	defer file.Close()

	if header.Size > maxProofFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "proof exceeds maximum size of 5MB")
		return false
	}

	data, err := io.ReadAll(io.LimitReader(file, maxProofFileSize+1))
	if err != nil {
		h.InternalError(c, "failed to read proof file")
		return false
	}

	req.Proof = &paymentapp.ProofUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return true
}

// List returns recorded payments matching the filter, newest first
func (h *PaymentHandler) List(c *gin.Context) {
	var q PaymentListQuery
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

	filter := payment.Filter{Page: q.Page, PageSize: q.PageSize}

	if q.SupplierID != "" {
		id, err := uuid.Parse(q.SupplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		filter.SupplierID = &id
	}
	if q.FromDate != "" {
		from, err := time.Parse("2006-01-02", q.FromDate)
		if err != nil {
			h.BadRequest(c, "from_date must be in YYYY-MM-DD format")
			return
		}
		filter.FromDate = &from
	}
	if q.ToDate != "" {
		to, err := time.Parse("2006-01-02", q.ToDate)
		if err != nil {
			h.BadRequest(c, "to_date must be in YYYY-MM-DD format")
			return
		}
		filter.ToDate = &to
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// Get returns a single recorded payment
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	recorded, err := h.paymentService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recorded)
}
