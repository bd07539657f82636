package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/domain/payment"
	"github.com/titipin/backend/internal/domain/wallet"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory SQLite database with the ledger schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&ledger.SaleLineItem{},
		&ledger.PaymentSettings{},
		&wallet.Wallet{},
		&wallet.WithdrawalRequest{},
		&payment.Payment{},
	)
	require.NoError(t, err)

	return db
}
