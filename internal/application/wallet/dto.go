package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/wallet"
)

// WalletDTO is the API view of a supplier wallet
type WalletDTO struct {
	ID               uuid.UUID       `json:"id"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	TotalEarned      decimal.Decimal `json:"total_earned"`
	TotalWithdrawn   decimal.Decimal `json:"total_withdrawn"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toWalletDTO(w *wallet.Wallet) *WalletDTO {
	return &WalletDTO{
		ID:               w.ID,
		SupplierID:       w.SupplierID,
		AvailableBalance: w.AvailableBalance,
		PendingBalance:   w.PendingBalance,
		TotalEarned:      w.TotalEarned,
		TotalWithdrawn:   w.TotalWithdrawn,
		UpdatedAt:        w.UpdatedAt,
	}
}

// CreateWithdrawalRequest is the input for a supplier withdrawal request
type CreateWithdrawalRequest struct {
	SupplierID        uuid.UUID       `json:"supplier_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	BankName          string          `json:"bank_name" binding:"required"`
	AccountNumber     string          `json:"account_number" binding:"required"`
	AccountHolderName string          `json:"account_holder_name" binding:"required"`
}

// WithdrawalDTO is the API view of a withdrawal request
type WithdrawalDTO struct {
	ID                uuid.UUID       `json:"id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	WalletID          uuid.UUID       `json:"wallet_id"`
	Amount            decimal.Decimal `json:"amount"`
	BankName          string          `json:"bank_name"`
	AccountNumber     string          `json:"account_number"`
	AccountHolderName string          `json:"account_holder_name"`
	Status            string          `json:"status"`
	RequestedAt       time.Time       `json:"requested_at"`
	ReviewedAt        *time.Time      `json:"reviewed_at,omitempty"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	RejectionReason   string          `json:"rejection_reason,omitempty"`
}

func toWithdrawalDTO(wr *wallet.WithdrawalRequest) *WithdrawalDTO {
	return &WithdrawalDTO{
		ID:                wr.ID,
		SupplierID:        wr.SupplierID,
		WalletID:          wr.WalletID,
		Amount:            wr.Amount,
		BankName:          wr.Bank.BankName,
		AccountNumber:     wr.Bank.AccountNumber,
		AccountHolderName: wr.Bank.AccountHolderName,
		Status:            wr.Status.String(),
		RequestedAt:       wr.RequestedAt,
		ReviewedAt:        wr.ReviewedAt,
		CompletedAt:       wr.CompletedAt,
		RejectionReason:   wr.RejectionReason,
	}
}
