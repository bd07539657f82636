package wallet

import (
	"context"

	"github.com/google/uuid"
)

// WalletRepository persists supplier wallets
type WalletRepository interface {
	// FindByID finds a wallet by its ID, (nil, nil) when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Wallet, error)
	// FindBySupplier finds the wallet for a supplier, (nil, nil) when absent
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) (*Wallet, error)
	// Create inserts a new wallet. The storage layer enforces one wallet per
	// supplier; a uniqueness violation surfaces as shared.ErrAlreadyExists so
	// the caller can re-read after losing a creation race.
	Create(ctx context.Context, w *Wallet) error
	// Save persists wallet changes unconditionally
	Save(ctx context.Context, w *Wallet) error
	// SaveWithLock persists wallet changes with an optimistic version check,
	// returning shared.ErrConcurrencyConflict when the row moved underneath
	SaveWithLock(ctx context.Context, w *Wallet) error
}

// WithdrawalFilter narrows withdrawal request listings
type WithdrawalFilter struct {
	SupplierID *uuid.UUID
	Status     *WithdrawalStatus
	Page       int
	PageSize   int
}

// WithdrawalRequestRepository persists withdrawal requests
type WithdrawalRequestRepository interface {
	// FindByID finds a withdrawal request by ID, (nil, nil) when absent
	FindByID(ctx context.Context, id uuid.UUID) (*WithdrawalRequest, error)
	// FindAll lists withdrawal requests matching the filter, newest first
	FindAll(ctx context.Context, filter WithdrawalFilter) ([]WithdrawalRequest, error)
	// Create inserts a new withdrawal request
	Create(ctx context.Context, wr *WithdrawalRequest) error
	// Save persists state transitions
	Save(ctx context.Context, wr *WithdrawalRequest) error
}
