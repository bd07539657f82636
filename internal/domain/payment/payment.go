package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
)

// Method represents how a supplier payout was executed
type Method string

const (
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodCash         Method = "CASH"
	MethodOther        Method = "OTHER"
)

// IsValid checks if the method is a valid Method
func (m Method) IsValid() bool {
	switch m {
	case MethodBankTransfer, MethodCash, MethodOther:
		return true
	}
	return false
}

// Status represents the state of a payment record. COMPLETED is the only
// state the ledger records - the actual transfer happens outside the system
// and only its outcome is captured.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
)

// BankSnapshot captures the destination account at payment time. Suppliers
// can change their bank details later; the snapshot preserves where the
// money actually went.
type BankSnapshot struct {
	BankName          string `gorm:"type:varchar(100);column:bank_name" json:"bank_name"`
	AccountNumber     string `gorm:"type:varchar(50);column:bank_account_number" json:"account_number"`
	AccountHolderName string `gorm:"type:varchar(200);column:bank_account_holder" json:"account_holder_name"`
}

// Payment is an admin-recorded transfer of money to a supplier. Rows are
// immutable once created: corrections require a new compensating record,
// never mutation or deletion.
type Payment struct {
	shared.BaseAggregateRoot
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	WalletID    *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reference   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	PaymentDate time.Time       `gorm:"not null;index"`
	Method      Method          `gorm:"type:varchar(30);not null"`
	Bank        BankSnapshot    `gorm:"embedded"`
	ProofURL    string          `gorm:"type:varchar(500)"`
	Notes       string          `gorm:"type:text"`
	PeriodStart time.Time       `gorm:"type:date"`
	PeriodEnd   time.Time       `gorm:"type:date"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "supplier_payments"
}

// NewPayment validates inputs and creates a COMPLETED payment record
func NewPayment(
	supplierID uuid.UUID,
	walletID *uuid.UUID,
	amount valueobject.Money,
	reference string,
	paymentDate time.Time,
	method Method,
	bank BankSnapshot,
	notes string,
	periodStart, periodEnd time.Time,
	createdBy uuid.UUID,
) (*Payment, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if strings.TrimSpace(reference) == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot be empty")
	}
	if !ValidReference(reference) {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference does not match the TRF format")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Recording user ID is required")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		WalletID:          walletID,
		Amount:            amount.Amount(),
		Reference:         reference,
		PaymentDate:       paymentDate,
		Method:            method,
		Bank:              bank,
		Notes:             notes,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		Status:            StatusCompleted,
		CreatedBy:         createdBy,
	}
	p.AddDomainEvent(NewPaymentRecordedEvent(p))
	return p, nil
}

// AttachProof links an uploaded proof document to the payment. Proof upload
// is a best-effort step after the row is committed, so attaching later does
// not violate immutability of the financial fields.
func (p *Payment) AttachProof(url string) error {
	if strings.TrimSpace(url) == "" {
		return shared.NewDomainError("INVALID_PROOF_URL", "Proof URL cannot be empty")
	}
	p.ProofURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// GetAmountMoney returns the amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(p.Amount)
}
