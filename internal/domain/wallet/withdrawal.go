package wallet

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
)

// nowFunc is swapped in tests
var nowFunc = time.Now

// DefaultMinimumWithdrawalAmount is the platform minimum a supplier may
// request in one withdrawal (Rp 50.000).
var DefaultMinimumWithdrawalAmount = decimal.NewFromInt(50_000)

// WithdrawalStatus represents the state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved  WithdrawalStatus = "APPROVED"
	WithdrawalStatusCompleted WithdrawalStatus = "COMPLETED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
)

// IsValid checks if the status is a valid WithdrawalStatus
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved,
		WithdrawalStatusCompleted, WithdrawalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of WithdrawalStatus
func (s WithdrawalStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusRejected
}

// CanReview returns true if the request awaits an admin decision
func (s WithdrawalStatus) CanReview() bool {
	return s == WithdrawalStatusPending
}

// CanComplete returns true if the request can be marked as transferred
func (s WithdrawalStatus) CanComplete() bool {
	return s == WithdrawalStatusApproved
}

// BankAccount is the destination bank snapshot captured with a request
type BankAccount struct {
	BankName          string `gorm:"type:varchar(100);not null" json:"bank_name"`
	AccountNumber     string `gorm:"type:varchar(50);not null" json:"account_number"`
	AccountHolderName string `gorm:"type:varchar(200);not null" json:"account_holder_name"`
}

// Validate checks that all bank fields are present
func (b BankAccount) Validate() error {
	if strings.TrimSpace(b.BankName) == "" {
		return shared.NewDomainError("INVALID_BANK_NAME", "Bank name is required")
	}
	if strings.TrimSpace(b.AccountNumber) == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number is required")
	}
	if strings.TrimSpace(b.AccountHolderName) == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_HOLDER", "Account holder name is required")
	}
	return nil
}

// WithdrawalRequest is a supplier-initiated request to debit available
// balance. State machine:
//
//	PENDING -> APPROVED -> COMPLETED
//	PENDING -> REJECTED
//
// Transitions only move forward; COMPLETED and REJECTED are terminal.
// Creating a request does not touch the wallet - funds are reserved at
// approval.
type WithdrawalRequest struct {
	shared.BaseAggregateRoot
	SupplierID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	WalletID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Bank            BankAccount      `gorm:"embedded"`
	Status          WithdrawalStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RequestedAt     time.Time        `gorm:"not null"`
	ReviewedAt      *time.Time
	CompletedAt     *time.Time
	RejectionReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

// NewWithdrawalRequest validates preconditions and creates a PENDING
// request. minimumAmount is the configured platform minimum;
// availableBalance is the supplier's wallet balance at request time.
// The first unmet precondition is reported.
func NewWithdrawalRequest(
	supplierID, walletID uuid.UUID,
	amount valueobject.Money,
	bank BankAccount,
	minimumAmount decimal.Decimal,
	availableBalance decimal.Decimal,
) (*WithdrawalRequest, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if walletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WALLET", "Wallet ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Withdrawal amount must be positive")
	}
	if amount.Amount().LessThan(minimumAmount) {
		return nil, shared.NewDomainError("BELOW_MINIMUM",
			fmt.Sprintf("Withdrawal amount %s is below the minimum %s",
				amount.Amount().String(), minimumAmount.String()))
	}
	if amount.Amount().GreaterThan(availableBalance) {
		return nil, shared.NewDomainError("EXCEEDS_BALANCE",
			fmt.Sprintf("Withdrawal amount %s exceeds available balance %s",
				amount.Amount().String(), availableBalance.String()))
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}

	wr := &WithdrawalRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		WalletID:          walletID,
		Amount:            amount.Amount(),
		Bank:              bank,
		Status:            WithdrawalStatusPending,
		RequestedAt:       nowFunc(),
	}
	wr.AddDomainEvent(NewWithdrawalRequestedEvent(wr))
	return wr, nil
}

// Approve transitions PENDING -> APPROVED. The caller is responsible for
// reserving wallet funds in the same transaction.
func (wr *WithdrawalRequest) Approve() error {
	if !wr.Status.CanReview() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve withdrawal in %s status", wr.Status))
	}
	now := nowFunc()
	wr.Status = WithdrawalStatusApproved
	wr.ReviewedAt = &now
	wr.UpdatedAt = now
	wr.IncrementVersion()
	wr.AddDomainEvent(NewWithdrawalApprovedEvent(wr))
	return nil
}

// Complete transitions APPROVED -> COMPLETED once the bank transfer is
// confirmed. There is no cancellation past this point; the only remedy is a
// compensating record.
func (wr *WithdrawalRequest) Complete() error {
	if !wr.Status.CanComplete() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot complete withdrawal in %s status", wr.Status))
	}
	now := nowFunc()
	wr.Status = WithdrawalStatusCompleted
	wr.CompletedAt = &now
	wr.UpdatedAt = now
	wr.IncrementVersion()
	wr.AddDomainEvent(NewWithdrawalCompletedEvent(wr))
	return nil
}

// Reject transitions PENDING -> REJECTED with a mandatory reason. No
// balance change occurs.
func (wr *WithdrawalRequest) Reject(reason string) error {
	if !wr.Status.CanReview() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject withdrawal in %s status", wr.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}
	now := nowFunc()
	wr.Status = WithdrawalStatusRejected
	wr.RejectionReason = reason
	wr.ReviewedAt = &now
	wr.UpdatedAt = now
	wr.IncrementVersion()
	wr.AddDomainEvent(NewWithdrawalRejectedEvent(wr))
	return nil
}

// GetAmountMoney returns the requested amount as Money
func (wr *WithdrawalRequest) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(wr.Amount)
}
