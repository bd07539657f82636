package wallet

import (
	"context"

	"github.com/titipin/backend/internal/domain/wallet"
)

// TransactionScope provides transactional access to wallet repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically.
//
// Withdrawal review mutates two aggregates (the request and the wallet) and
// the pair must move together: an approved request without a reservation, or
// a reservation without an approved request, is a corrupt ledger.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to wallet repositories scoped to
// a single transaction.
type TransactionalRepositories interface {
	// WalletRepo returns the wallet repository scoped to the current transaction
	WalletRepo() wallet.WalletRepository
	// WithdrawalRepo returns the withdrawal request repository scoped to the
	// current transaction
	WithdrawalRepo() wallet.WithdrawalRequestRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests and for single-statement operations.
type NoOpTransactionScope struct {
	walletRepo     wallet.WalletRepository
	withdrawalRepo wallet.WithdrawalRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	walletRepo wallet.WalletRepository,
	withdrawalRepo wallet.WithdrawalRequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
	}
}

// Execute runs the function directly, without transaction boundaries
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// WalletRepo returns the wallet repository
func (s *NoOpTransactionScope) WalletRepo() wallet.WalletRepository {
	return s.walletRepo
}

// WithdrawalRepo returns the withdrawal request repository
func (s *NoOpTransactionScope) WithdrawalRepo() wallet.WithdrawalRequestRepository {
	return s.withdrawalRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
