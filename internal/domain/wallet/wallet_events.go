package wallet

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/shared"
)

// WalletCreatedEvent is raised when a supplier wallet is created
type WalletCreatedEvent struct {
	shared.BaseDomainEvent
	WalletID   uuid.UUID `json:"wallet_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
}

// EventType returns the event type name
func (e *WalletCreatedEvent) EventType() string {
	return "WalletCreated"
}

// NewWalletCreatedEvent creates a new WalletCreatedEvent
func NewWalletCreatedEvent(w *Wallet) *WalletCreatedEvent {
	return &WalletCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("WalletCreated", "Wallet", w.ID),
		WalletID:        w.ID,
		SupplierID:      w.SupplierID,
	}
}

// WithdrawalRequestedEvent is raised when a supplier submits a withdrawal
type WithdrawalRequestedEvent struct {
	shared.BaseDomainEvent
	RequestID  uuid.UUID       `json:"request_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	WalletID   uuid.UUID       `json:"wallet_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *WithdrawalRequestedEvent) EventType() string {
	return "WithdrawalRequested"
}

// NewWithdrawalRequestedEvent creates a new WithdrawalRequestedEvent
func NewWithdrawalRequestedEvent(wr *WithdrawalRequest) *WithdrawalRequestedEvent {
	return &WithdrawalRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("WithdrawalRequested", "WithdrawalRequest", wr.ID),
		RequestID:       wr.ID,
		SupplierID:      wr.SupplierID,
		WalletID:        wr.WalletID,
		Amount:          wr.Amount,
	}
}

// WithdrawalApprovedEvent is raised when an admin approves a withdrawal
type WithdrawalApprovedEvent struct {
	shared.BaseDomainEvent
	RequestID  uuid.UUID       `json:"request_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *WithdrawalApprovedEvent) EventType() string {
	return "WithdrawalApproved"
}

// NewWithdrawalApprovedEvent creates a new WithdrawalApprovedEvent
func NewWithdrawalApprovedEvent(wr *WithdrawalRequest) *WithdrawalApprovedEvent {
	return &WithdrawalApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("WithdrawalApproved", "WithdrawalRequest", wr.ID),
		RequestID:       wr.ID,
		SupplierID:      wr.SupplierID,
		Amount:          wr.Amount,
	}
}

// WithdrawalCompletedEvent is raised when the bank transfer is confirmed
type WithdrawalCompletedEvent struct {
	shared.BaseDomainEvent
	RequestID  uuid.UUID       `json:"request_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *WithdrawalCompletedEvent) EventType() string {
	return "WithdrawalCompleted"
}

// NewWithdrawalCompletedEvent creates a new WithdrawalCompletedEvent
func NewWithdrawalCompletedEvent(wr *WithdrawalRequest) *WithdrawalCompletedEvent {
	return &WithdrawalCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("WithdrawalCompleted", "WithdrawalRequest", wr.ID),
		RequestID:       wr.ID,
		SupplierID:      wr.SupplierID,
		Amount:          wr.Amount,
	}
}

// WithdrawalRejectedEvent is raised when an admin rejects a withdrawal
type WithdrawalRejectedEvent struct {
	shared.BaseDomainEvent
	RequestID  uuid.UUID       `json:"request_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
}

// EventType returns the event type name
func (e *WithdrawalRejectedEvent) EventType() string {
	return "WithdrawalRejected"
}

// NewWithdrawalRejectedEvent creates a new WithdrawalRejectedEvent
func NewWithdrawalRejectedEvent(wr *WithdrawalRequest) *WithdrawalRejectedEvent {
	return &WithdrawalRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("WithdrawalRejected", "WithdrawalRequest", wr.ID),
		RequestID:       wr.ID,
		SupplierID:      wr.SupplierID,
		Amount:          wr.Amount,
		Reason:          wr.RejectionReason,
	}
}
