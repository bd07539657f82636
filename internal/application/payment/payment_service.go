package payment

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/titipin/backend/internal/domain/payment"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
	"github.com/titipin/backend/internal/domain/wallet"
	"github.com/titipin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ObjectStorageService stores payment proof documents. Implemented by the
// infrastructure layer (S3-compatible object storage).
type ObjectStorageService interface {
	// PutObject uploads a document and returns its public URL
	PutObject(ctx context.Context, storageKey, contentType string, body *bytes.Reader) (string, error)
	// DeleteObject deletes a stored document
	DeleteObject(ctx context.Context, storageKey string) error
}

// PaymentService records completed supplier payouts. A payment row is the
// financial fact; proof upload and wallet linkage are best-effort extras
// that must never roll back a committed payment.
type PaymentService struct {
	paymentRepo     payment.Repository
	walletRepo      wallet.WalletRepository
	idempotency     shared.IdempotencyStore
	idemCfg         shared.IdempotencyConfig
	storage         ObjectStorageService
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
	eventPublisher  shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo payment.Repository,
	walletRepo wallet.WalletRepository,
	idempotency shared.IdempotencyStore,
	idemCfg shared.IdempotencyConfig,
	storage ObjectStorageService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		idempotency: idempotency,
		idemCfg:     idemCfg,
		storage:     storage,
		logger:      logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *PaymentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// SetEventPublisher sets the bus that receives payment events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordPayment stores a completed payout. The reference is generated when
// not supplied. A duplicate idempotency key or reference is rejected
// instead of creating a second row; the key itself is only consumed once
// the payment commits, so rejected submissions stay retryable.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record")
	defer span.End()
	telemetry.SetAttributes(span,
		"supplier_id", req.SupplierID.String(),
		"amount", req.Amount.String())

	// Read-only dedupe check up front; the key is only consumed after the
	// payment row commits, so a rejected request can be corrected and retried
	// with the same key.
	if req.IdempotencyKey != "" && s.idemCfg.Enabled {
		seen, err := s.idempotency.IsProcessed(ctx, req.IdempotencyKey)
		if err != nil {
			// Dedupe store outage degrades to reference-uniqueness protection
			s.logger.Warn("Idempotency store unavailable, relying on reference uniqueness",
				zap.Error(err))
		} else if seen {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST",
				"A payment with this idempotency key was already recorded")
		}
	}

	reference := req.Reference
	if reference == "" {
		reference = payment.GenerateReference(req.SupplierName, req.PaymentDate)
	}

	if existing, err := s.paymentRepo.FindByReference(ctx, reference); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check payment reference: %w", err)
	} else if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_REFERENCE",
			fmt.Sprintf("Payment reference %s already exists", reference))
	}

	method := payment.Method(req.Method)
	if req.Method == "" {
		method = payment.MethodBankTransfer
	}

	var walletID *uuid.UUID
	w, err := s.walletRepo.FindBySupplier(ctx, req.SupplierID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}
	if w != nil {
		walletID = &w.ID
	}

	p, err := payment.NewPayment(
		req.SupplierID, walletID,
		valueobject.NewMoneyIDR(req.Amount),
		reference,
		req.PaymentDate,
		method,
		payment.BankSnapshot{
			BankName:          req.BankName,
			AccountNumber:     req.AccountNumber,
			AccountHolderName: req.AccountHolderName,
		},
		req.Notes,
		req.PeriodStart, req.PeriodEnd,
		req.CreatedBy,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.paymentRepo.Create(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if req.IdempotencyKey != "" && s.idemCfg.Enabled {
		if _, err := s.idempotency.MarkProcessed(ctx, req.IdempotencyKey, s.idemCfg.TTL); err != nil {
			s.logger.Warn("Failed to store idempotency key, retries fall back to reference uniqueness",
				zap.String("payment_id", p.ID.String()),
				zap.Error(err))
		}
	}

	if s.eventPublisher != nil {
		if events := p.GetDomainEvents(); len(events) > 0 {
			if err := s.eventPublisher.Publish(ctx, events...); err != nil {
				s.logger.Warn("Failed to publish payment events", zap.Error(err))
			}
			p.ClearDomainEvents()
		}
	}

	s.logger.Info("Payment recorded",
		zap.String("payment_id", p.ID.String()),
		zap.String("supplier_id", p.SupplierID.String()),
		zap.String("reference", p.Reference),
		zap.String("amount", p.Amount.String()))
	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, req.Amount, string(method))
	}

	dto := toPaymentDTO(p)
	if req.Proof != nil {
		s.attachProof(ctx, p, req.Proof, dto)
	}
	return dto, nil
}

// attachProof uploads the proof document and links it to the payment.
// Failure is reported as a warning on the response; the payment row itself
// is already committed and stays valid without a proof.
func (s *PaymentService) attachProof(ctx context.Context, p *payment.Payment, proof *ProofUpload, dto *PaymentDTO) {
	key := fmt.Sprintf("payment-proofs/%s/%s%s", p.SupplierID, p.ID, path.Ext(proof.FileName))

	url, err := s.storage.PutObject(ctx, key, proof.ContentType, bytes.NewReader(proof.Data))
	if err != nil {
		s.logger.Warn("Payment proof upload failed",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err))
		dto.ProofWarning = "Payment recorded, but the proof upload failed. Re-upload the proof later."
		return
	}

	if err := s.paymentRepo.AttachProof(ctx, p.ID, url); err != nil {
		s.logger.Warn("Failed to link payment proof",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err))
		dto.ProofWarning = "Payment recorded, but the proof could not be linked."
		return
	}
	dto.ProofURL = url
}

// GetPayment returns one payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentDTO, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	if p == nil {
		return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
	}
	return toPaymentDTO(p), nil
}

// ListPayments lists payments matching the filter, newest first
func (s *PaymentService) ListPayments(ctx context.Context, filter payment.Filter) ([]PaymentDTO, error) {
	payments, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	dtos := make([]PaymentDTO, 0, len(payments))
	for i := range payments {
		dtos = append(dtos, *toPaymentDTO(&payments[i]))
	}
	return dtos, nil
}
