package wallet

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
)

// Wallet is the per-supplier running balance aggregate. One wallet exists
// per supplier, created lazily on first access and never deleted.
//
// AvailableBalance is already-earned-and-unwithdrawn cash; it is distinct
// from period-scoped outstanding commission debt and the two are never
// conflated. TotalEarned is always recomputed from completed sale line items
// rather than incremented, so historical corrections are reflected without
// manual adjustment.
type Wallet struct {
	shared.BaseAggregateRoot
	SupplierID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AvailableBalance decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PendingBalance   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalEarned      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalWithdrawn   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (Wallet) TableName() string {
	return "supplier_wallets"
}

// NewWallet creates a zero-balance wallet for a supplier
func NewWallet(supplierID uuid.UUID) (*Wallet, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	w := &Wallet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		AvailableBalance:  decimal.Zero,
		PendingBalance:    decimal.Zero,
		TotalEarned:       decimal.Zero,
		TotalWithdrawn:    decimal.Zero,
	}
	w.AddDomainEvent(NewWalletCreatedEvent(w))
	return w, nil
}

// Credit increases the available balance
func (w *Wallet) Credit(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	w.AvailableBalance = w.AvailableBalance.Add(amount.Amount())
	w.touch()
	return nil
}

// Debit decreases the available balance. Fails with INSUFFICIENT_BALANCE if
// the amount exceeds the current available balance; the balance is unchanged
// after a failed call.
func (w *Wallet) Debit(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if amount.Amount().GreaterThan(w.AvailableBalance) {
		return shared.NewDomainError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("Debit amount %s exceeds available balance %s",
				amount.Amount().String(), w.AvailableBalance.String()))
	}
	w.AvailableBalance = w.AvailableBalance.Sub(amount.Amount())
	w.touch()
	return nil
}

// ReserveForWithdrawal moves funds from available to pending when a
// withdrawal is approved. Reservation happens at approval, not at request
// creation, so funds are never locked on a request an admin may reject.
func (w *Wallet) ReserveForWithdrawal(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reservation amount must be positive")
	}
	if amount.Amount().GreaterThan(w.AvailableBalance) {
		return shared.NewDomainError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("Withdrawal amount %s exceeds available balance %s",
				amount.Amount().String(), w.AvailableBalance.String()))
	}
	w.AvailableBalance = w.AvailableBalance.Sub(amount.Amount())
	w.PendingBalance = w.PendingBalance.Add(amount.Amount())
	w.touch()
	return nil
}

// SettleWithdrawal clears a pending reservation once the transfer is
// confirmed, accumulating into the lifetime withdrawn total.
func (w *Wallet) SettleWithdrawal(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	if amount.Amount().GreaterThan(w.PendingBalance) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Settlement amount %s exceeds pending balance %s",
				amount.Amount().String(), w.PendingBalance.String()))
	}
	w.PendingBalance = w.PendingBalance.Sub(amount.Amount())
	w.TotalWithdrawn = w.TotalWithdrawn.Add(amount.Amount())
	w.touch()
	return nil
}

// SetTotalEarned replaces the lifetime earned total with a freshly
// recomputed sum over completed sale line items.
func (w *Wallet) SetTotalEarned(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total earned cannot be negative")
	}
	w.TotalEarned = total
	w.touch()
	return nil
}

// HasPendingWithdrawal returns true if a withdrawal reservation is in flight
func (w *Wallet) HasPendingWithdrawal() bool {
	return w.PendingBalance.IsPositive()
}

// GetAvailableMoney returns the available balance as Money
func (w *Wallet) GetAvailableMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(w.AvailableBalance)
}

// GetPendingMoney returns the pending balance as Money
func (w *Wallet) GetPendingMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(w.PendingBalance)
}

func (w *Wallet) touch() {
	w.UpdatedAt = nowFunc()
	w.IncrementVersion()
}
