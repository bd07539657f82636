package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/payment"
)

// RecordPaymentRequest is the input for recording a completed supplier payout
type RecordPaymentRequest struct {
	SupplierID        uuid.UUID       `json:"supplier_id" binding:"required"`
	SupplierName      string          `json:"supplier_name" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Reference         string          `json:"reference,omitempty"`
	PaymentDate       time.Time       `json:"payment_date" binding:"required"`
	Method            string          `json:"payment_method,omitempty"`
	BankName          string          `json:"bank_name,omitempty"`
	AccountNumber     string          `json:"account_number,omitempty"`
	AccountHolderName string          `json:"account_holder_name,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`

	// IdempotencyKey deduplicates retried submissions. Optional; when empty
	// no dedupe check is performed.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	// Proof is an optional payment proof document uploaded with the record
	Proof *ProofUpload `json:"-"`

	CreatedBy uuid.UUID `json:"-"`
}

// ProofUpload carries an uploaded proof document
type ProofUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PaymentDTO is the API view of a recorded payment
type PaymentDTO struct {
	ID           uuid.UUID       `json:"id"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	Amount       decimal.Decimal `json:"amount"`
	Reference    string          `json:"reference"`
	PaymentDate  time.Time       `json:"payment_date"`
	Method       string          `json:"payment_method"`
	BankName     string          `json:"bank_name,omitempty"`
	ProofURL     string          `json:"proof_url,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	PeriodStart  time.Time       `json:"period_start"`
	PeriodEnd    time.Time       `json:"period_end"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	ProofWarning string          `json:"proof_warning,omitempty"`
}

func toPaymentDTO(p *payment.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		Amount:      p.Amount,
		Reference:   p.Reference,
		PaymentDate: p.PaymentDate,
		Method:      string(p.Method),
		BankName:    p.Bank.BankName,
		ProofURL:    p.ProofURL,
		Notes:       p.Notes,
		PeriodStart: p.PeriodStart,
		PeriodEnd:   p.PeriodEnd,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	}
}
