package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
	"github.com/titipin/backend/internal/domain/wallet"
	"github.com/titipin/backend/internal/infrastructure/telemetry"
)

// WalletService manages supplier wallets. Wallets are created lazily on
// first access so the sales subsystem never has to provision them.
type WalletService struct {
	walletRepo     wallet.WalletRepository
	lineItemRepo   ledger.SaleLineItemRepository
	eventPublisher shared.EventPublisher
}

// NewWalletService creates a new WalletService
func NewWalletService(
	walletRepo wallet.WalletRepository,
	lineItemRepo ledger.SaleLineItemRepository,
) *WalletService {
	return &WalletService{
		walletRepo:   walletRepo,
		lineItemRepo: lineItemRepo,
	}
}

// SetEventPublisher sets the bus that receives wallet events
func (s *WalletService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetOrCreateWallet returns the supplier's wallet, creating a zero-balance
// one on first access. Losing a creation race is handled by re-reading the
// winner's row, so concurrent first access yields exactly one wallet.
func (s *WalletService) GetOrCreateWallet(ctx context.Context, supplierID uuid.UUID) (*WalletDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "get_or_create_wallet")
	defer span.End()
	telemetry.SetAttributes(span, "supplier_id", supplierID.String())

	w, err := s.getOrCreate(ctx, supplierID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return toWalletDTO(w), nil
}

// RecomputeTotalEarned replaces the wallet's lifetime earned total with a
// fresh sum over completed sale line items. Run after historical corrections
// so the wallet reflects reality without manual adjustment.
func (s *WalletService) RecomputeTotalEarned(ctx context.Context, supplierID uuid.UUID) (*WalletDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "recompute_total_earned")
	defer span.End()
	telemetry.SetAttributes(span, "supplier_id", supplierID.String())

	w, err := s.getOrCreate(ctx, supplierID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	total, err := s.lineItemRepo.SumSupplierRevenue(ctx, supplierID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to sum supplier revenue: %w", err)
	}

	if err := w.SetTotalEarned(total); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.walletRepo.SaveWithLock(ctx, w); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return toWalletDTO(w), nil
}

// CreditAvailable adds earned funds to the supplier's available balance
func (s *WalletService) CreditAvailable(ctx context.Context, supplierID uuid.UUID, amount valueobject.Money) (*WalletDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "credit_available")
	defer span.End()
	telemetry.SetAttributes(span, "supplier_id", supplierID.String(), "amount", amount.Amount().String())

	w, err := s.getOrCreate(ctx, supplierID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := w.Credit(amount); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.walletRepo.SaveWithLock(ctx, w); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return toWalletDTO(w), nil
}

// DebitAvailable removes funds from the supplier's available balance. Fails
// with INSUFFICIENT_BALANCE when the amount exceeds the current balance; the
// balance is unchanged after a failed call.
func (s *WalletService) DebitAvailable(ctx context.Context, supplierID uuid.UUID, amount valueobject.Money) (*WalletDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "debit_available")
	defer span.End()
	telemetry.SetAttributes(span, "supplier_id", supplierID.String(), "amount", amount.Amount().String())

	w, err := s.getOrCreate(ctx, supplierID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := w.Debit(amount); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.walletRepo.SaveWithLock(ctx, w); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return toWalletDTO(w), nil
}

func (s *WalletService) getOrCreate(ctx context.Context, supplierID uuid.UUID) (*wallet.Wallet, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	existing, err := s.walletRepo.FindBySupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	w, err := wallet.NewWallet(supplierID)
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.Create(ctx, w); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// Lost the creation race; the winner's row is authoritative
			return s.walletRepo.FindBySupplier(ctx, supplierID)
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	if s.eventPublisher != nil {
		if events := w.GetDomainEvents(); len(events) > 0 {
			// Handlers log their own failures; the wallet row already stands
			_ = s.eventPublisher.Publish(ctx, events...)
			w.ClearDomainEvents()
		}
	}
	return w, nil
}
