package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/domain/payment"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/domain/wallet"
)

// In-memory fakes backing handler tests. They honor the repository
// contracts (nil on not-found, ErrAlreadyExists on duplicates) so real
// application services can run against them.

// withIdentity seeds the context keys normally set by the JWT middleware
func withIdentity(userID uuid.UUID, supplierID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("jwt_user_id", userID.String())
		if supplierID != "" {
			c.Set("jwt_supplier_id", supplierID)
		}
		c.Next()
	}
}

type fakeLineItemRepo struct {
	items []ledger.SaleLineItem
	err   error
}

func (f *fakeLineItemRepo) FindCompleted(_ context.Context, supplierIDs []uuid.UUID, period ledger.Period) ([]ledger.SaleLineItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	allowed := make(map[uuid.UUID]bool, len(supplierIDs))
	for _, id := range supplierIDs {
		allowed[id] = true
	}
	var result []ledger.SaleLineItem
	for _, item := range f.items {
		if item.TransactionStatus != ledger.TransactionStatusCompleted {
			continue
		}
		if len(allowed) > 0 && !allowed[item.SupplierID] {
			continue
		}
		if !period.IsZero() && !period.Contains(item.SoldAt) {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (f *fakeLineItemRepo) SumSupplierRevenue(_ context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	sum := decimal.Zero
	for _, item := range f.items {
		if item.SupplierID == supplierID && item.TransactionStatus == ledger.TransactionStatusCompleted {
			sum = sum.Add(item.SupplierRevenue)
		}
	}
	return sum, nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*payment.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*payment.Payment)}
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	if p, ok := f.payments[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindByReference(_ context.Context, reference string) (*payment.Payment, error) {
	for _, p := range f.payments {
		if p.Reference == reference {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindAll(_ context.Context, filter payment.Filter) ([]payment.Payment, error) {
	var result []payment.Payment
	for _, p := range f.payments {
		if filter.SupplierID != nil && p.SupplierID != *filter.SupplierID {
			continue
		}
		if filter.FromDate != nil && p.PaymentDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && p.PaymentDate.After(*filter.ToDate) {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PaymentDate.After(result[j].PaymentDate)
	})
	return result, nil
}

func (f *fakePaymentRepo) SumBySupplierAndPeriod(_ context.Context, supplierID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range f.payments {
		if p.SupplierID != supplierID {
			continue
		}
		if p.PaymentDate.Before(from) || p.PaymentDate.After(to) {
			continue
		}
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (f *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	for _, existing := range f.payments {
		if existing.Reference == p.Reference {
			return shared.ErrAlreadyExists
		}
	}
	copied := *p
	f.payments[p.ID] = &copied
	return nil
}

func (f *fakePaymentRepo) AttachProof(_ context.Context, id uuid.UUID, proofURL string) error {
	p, ok := f.payments[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.ProofURL = proofURL
	return nil
}

type fakeWalletRepo struct {
	wallets map[uuid.UUID]*wallet.Wallet
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uuid.UUID]*wallet.Wallet)}
}

func (f *fakeWalletRepo) FindByID(_ context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	for _, w := range f.wallets {
		if w.ID == id {
			copied := *w
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeWalletRepo) FindBySupplier(_ context.Context, supplierID uuid.UUID) (*wallet.Wallet, error) {
	if w, ok := f.wallets[supplierID]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeWalletRepo) Create(_ context.Context, w *wallet.Wallet) error {
	if _, ok := f.wallets[w.SupplierID]; ok {
		return shared.ErrAlreadyExists
	}
	copied := *w
	f.wallets[w.SupplierID] = &copied
	return nil
}

func (f *fakeWalletRepo) Save(_ context.Context, w *wallet.Wallet) error {
	copied := *w
	f.wallets[w.SupplierID] = &copied
	return nil
}

func (f *fakeWalletRepo) SaveWithLock(_ context.Context, w *wallet.Wallet) error {
	current, ok := f.wallets[w.SupplierID]
	if ok && current.Version != w.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	copied := *w
	f.wallets[w.SupplierID] = &copied
	return nil
}

type fakeWithdrawalRepo struct {
	requests map[uuid.UUID]*wallet.WithdrawalRequest
}

func newFakeWithdrawalRepo() *fakeWithdrawalRepo {
	return &fakeWithdrawalRepo{requests: make(map[uuid.UUID]*wallet.WithdrawalRequest)}
}

func (f *fakeWithdrawalRepo) FindByID(_ context.Context, id uuid.UUID) (*wallet.WithdrawalRequest, error) {
	if wr, ok := f.requests[id]; ok {
		copied := *wr
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeWithdrawalRepo) FindAll(_ context.Context, filter wallet.WithdrawalFilter) ([]wallet.WithdrawalRequest, error) {
	var result []wallet.WithdrawalRequest
	for _, wr := range f.requests {
		if filter.SupplierID != nil && wr.SupplierID != *filter.SupplierID {
			continue
		}
		if filter.Status != nil && wr.Status != *filter.Status {
			continue
		}
		result = append(result, *wr)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	return result, nil
}

func (f *fakeWithdrawalRepo) Create(_ context.Context, wr *wallet.WithdrawalRequest) error {
	copied := *wr
	f.requests[wr.ID] = &copied
	return nil
}

func (f *fakeWithdrawalRepo) Save(_ context.Context, wr *wallet.WithdrawalRequest) error {
	copied := *wr
	f.requests[wr.ID] = &copied
	return nil
}

type fakeSettingsRepo struct {
	settings *ledger.PaymentSettings
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*ledger.PaymentSettings, error) {
	if f.settings == nil {
		f.settings = ledger.DefaultPaymentSettings()
	}
	copied := *f.settings
	return &copied, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, settings *ledger.PaymentSettings) error {
	copied := *settings
	f.settings = &copied
	return nil
}
