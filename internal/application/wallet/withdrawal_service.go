package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
	"github.com/titipin/backend/internal/domain/wallet"
	"github.com/titipin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxConflictRetries bounds how often a review operation is replayed after
// losing an optimistic lock race on the wallet row.
const maxConflictRetries = 3

// WithdrawalService drives the withdrawal request lifecycle. Review
// operations mutate the request and the wallet in one transaction, guarded
// by the wallet's optimistic version: two admins approving the same request
// concurrently resolve to exactly one winner.
type WithdrawalService struct {
	scope           TransactionScope
	settingsRepo    SettingsReader
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
	eventPublisher  shared.EventPublisher
}

// SettingsReader exposes the payout policy values the withdrawal flow needs
type SettingsReader interface {
	MinimumWithdrawalAmount(ctx context.Context) (valueobject.Money, error)
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(scope TransactionScope, settingsRepo SettingsReader, logger *zap.Logger) *WithdrawalService {
	return &WithdrawalService{
		scope:        scope,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *WithdrawalService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// SetEventPublisher sets the bus that receives withdrawal lifecycle events
func (s *WithdrawalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents drains the aggregate's pending events onto the bus. Called
// only after the owning transaction committed; a publish failure is logged
// because the state change itself already stands.
func (s *WithdrawalService) publishEvents(ctx context.Context, root shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish withdrawal events", zap.Error(err))
	}
	root.ClearDomainEvents()
}

func (s *WithdrawalService) recordTransition(ctx context.Context, status string) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordWithdrawalTransition(ctx, status)
	}
}

// CreateWithdrawal validates and stores a PENDING withdrawal request.
// No funds move yet; reservation happens at approval.
func (s *WithdrawalService) CreateWithdrawal(ctx context.Context, req CreateWithdrawalRequest) (*WithdrawalDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "withdrawal", "create")
	defer span.End()
	telemetry.SetAttributes(span, "supplier_id", req.SupplierID.String(), "amount", req.Amount.String())

	minimum, err := s.settingsRepo.MinimumWithdrawalAmount(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load withdrawal minimum: %w", err)
	}

	var dto *WithdrawalDTO
	var created *wallet.WithdrawalRequest
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		w, err := repos.WalletRepo().FindBySupplier(ctx, req.SupplierID)
		if err != nil {
			return fmt.Errorf("failed to find wallet: %w", err)
		}
		if w == nil {
			return shared.NewDomainError("WALLET_NOT_FOUND", "Supplier has no wallet")
		}

		wr, err := wallet.NewWithdrawalRequest(
			req.SupplierID, w.ID,
			valueobject.NewMoneyIDR(req.Amount),
			wallet.BankAccount{
				BankName:          req.BankName,
				AccountNumber:     req.AccountNumber,
				AccountHolderName: req.AccountHolderName,
			},
			minimum.Amount(),
			w.AvailableBalance,
		)
		if err != nil {
			return err
		}
		if err := repos.WithdrawalRepo().Create(ctx, wr); err != nil {
			return fmt.Errorf("failed to create withdrawal request: %w", err)
		}
		dto = toWithdrawalDTO(wr)
		created = wr
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, created)

	s.logger.Info("Withdrawal requested",
		zap.String("withdrawal_id", dto.ID.String()),
		zap.String("supplier_id", req.SupplierID.String()),
		zap.String("amount", req.Amount.String()))
	s.recordTransition(ctx, dto.Status)
	return dto, nil
}

// ApproveWithdrawal transitions a PENDING request to APPROVED and reserves
// the amount from the wallet's available balance in the same transaction.
func (s *WithdrawalService) ApproveWithdrawal(ctx context.Context, withdrawalID uuid.UUID) (*WithdrawalDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "withdrawal", "approve")
	defer span.End()
	telemetry.SetAttributes(span, "withdrawal_id", withdrawalID.String())

	dto, err := s.reviewWithRetry(ctx, withdrawalID, func(wr *wallet.WithdrawalRequest, w *wallet.Wallet) error {
		if err := wr.Approve(); err != nil {
			return err
		}
		return w.ReserveForWithdrawal(wr.GetAmountMoney())
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Withdrawal approved", zap.String("withdrawal_id", withdrawalID.String()))
	s.recordTransition(ctx, dto.Status)
	return dto, nil
}

// CompleteWithdrawal marks an APPROVED request as transferred and settles
// the pending reservation into the lifetime withdrawn total.
func (s *WithdrawalService) CompleteWithdrawal(ctx context.Context, withdrawalID uuid.UUID) (*WithdrawalDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "withdrawal", "complete")
	defer span.End()
	telemetry.SetAttributes(span, "withdrawal_id", withdrawalID.String())

	dto, err := s.reviewWithRetry(ctx, withdrawalID, func(wr *wallet.WithdrawalRequest, w *wallet.Wallet) error {
		if err := wr.Complete(); err != nil {
			return err
		}
		return w.SettleWithdrawal(wr.GetAmountMoney())
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Withdrawal completed", zap.String("withdrawal_id", withdrawalID.String()))
	s.recordTransition(ctx, dto.Status)
	return dto, nil
}

// RejectWithdrawal transitions a PENDING request to REJECTED. The wallet is
// untouched because nothing was reserved yet.
func (s *WithdrawalService) RejectWithdrawal(ctx context.Context, withdrawalID uuid.UUID, reason string) (*WithdrawalDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "withdrawal", "reject")
	defer span.End()
	telemetry.SetAttributes(span, "withdrawal_id", withdrawalID.String())

	var dto *WithdrawalDTO
	var rejected *wallet.WithdrawalRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		wr, err := repos.WithdrawalRepo().FindByID(ctx, withdrawalID)
		if err != nil {
			return fmt.Errorf("failed to find withdrawal request: %w", err)
		}
		if wr == nil {
			return shared.NewDomainError("WITHDRAWAL_NOT_FOUND", "Withdrawal request not found")
		}
		if err := wr.Reject(reason); err != nil {
			return err
		}
		if err := repos.WithdrawalRepo().Save(ctx, wr); err != nil {
			return fmt.Errorf("failed to save withdrawal request: %w", err)
		}
		dto = toWithdrawalDTO(wr)
		rejected = wr
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, rejected)

	s.logger.Info("Withdrawal rejected",
		zap.String("withdrawal_id", withdrawalID.String()),
		zap.String("reason", reason))
	s.recordTransition(ctx, dto.Status)
	return dto, nil
}

// GetWithdrawal returns one withdrawal request
func (s *WithdrawalService) GetWithdrawal(ctx context.Context, withdrawalID uuid.UUID) (*WithdrawalDTO, error) {
	var dto *WithdrawalDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		wr, err := repos.WithdrawalRepo().FindByID(ctx, withdrawalID)
		if err != nil {
			return fmt.Errorf("failed to find withdrawal request: %w", err)
		}
		if wr == nil {
			return shared.NewDomainError("WITHDRAWAL_NOT_FOUND", "Withdrawal request not found")
		}
		dto = toWithdrawalDTO(wr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListWithdrawals lists withdrawal requests matching the filter, newest first
func (s *WithdrawalService) ListWithdrawals(ctx context.Context, filter wallet.WithdrawalFilter) ([]WithdrawalDTO, error) {
	var dtos []WithdrawalDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		requests, err := repos.WithdrawalRepo().FindAll(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list withdrawal requests: %w", err)
		}
		dtos = make([]WithdrawalDTO, 0, len(requests))
		for i := range requests {
			dtos = append(dtos, *toWithdrawalDTO(&requests[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

// reviewWithRetry runs a request+wallet mutation inside a transaction,
// replaying it from freshly loaded state when the wallet's optimistic lock
// detects a concurrent writer. The request's own state check makes the
// replay safe: a second approval of the same request fails INVALID_STATE on
// the reloaded row instead of double-reserving.
func (s *WithdrawalService) reviewWithRetry(
	ctx context.Context,
	withdrawalID uuid.UUID,
	mutate func(wr *wallet.WithdrawalRequest, w *wallet.Wallet) error,
) (*WithdrawalDTO, error) {
	var dto *WithdrawalDTO
	var reviewed *wallet.WithdrawalRequest
	var lastErr error

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		lastErr = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			wr, err := repos.WithdrawalRepo().FindByID(ctx, withdrawalID)
			if err != nil {
				return fmt.Errorf("failed to find withdrawal request: %w", err)
			}
			if wr == nil {
				return shared.NewDomainError("WITHDRAWAL_NOT_FOUND", "Withdrawal request not found")
			}

			w, err := repos.WalletRepo().FindByID(ctx, wr.WalletID)
			if err != nil {
				return fmt.Errorf("failed to find wallet: %w", err)
			}
			if w == nil {
				return shared.NewDomainError("WALLET_NOT_FOUND", "Wallet not found")
			}

			if err := mutate(wr, w); err != nil {
				return err
			}

			if err := repos.WalletRepo().SaveWithLock(ctx, w); err != nil {
				return err
			}
			if err := repos.WithdrawalRepo().Save(ctx, wr); err != nil {
				return fmt.Errorf("failed to save withdrawal request: %w", err)
			}
			dto = toWithdrawalDTO(wr)
			reviewed = wr
			return nil
		})

		if lastErr == nil {
			s.publishEvents(ctx, reviewed)
			return dto, nil
		}
		if !errors.Is(lastErr, shared.ErrConcurrencyConflict) {
			return nil, lastErr
		}
		s.logger.Warn("Withdrawal review hit concurrent wallet update, retrying",
			zap.String("withdrawal_id", withdrawalID.String()),
			zap.Int("attempt", attempt+1))
		if s.businessMetrics != nil {
			s.businessMetrics.RecordWalletConflictRetry(ctx)
		}
	}
	return nil, lastErr
}
