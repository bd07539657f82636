package persistence

import (
	"context"

	appwallet "github.com/titipin/backend/internal/application/wallet"
	"github.com/titipin/backend/internal/domain/wallet"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Withdrawal review mutates both the request and the wallet; running the
// pair inside one transaction keeps the ledger consistent under rollback.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appwallet.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to wallet repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// WalletRepo returns the wallet repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WalletRepo() wallet.WalletRepository {
	return NewGormWalletRepository(r.tx)
}

// WithdrawalRepo returns the withdrawal request repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WithdrawalRepo() wallet.WithdrawalRequestRepository {
	return NewGormWithdrawalRequestRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appwallet.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appwallet.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
