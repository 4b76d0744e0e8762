package testutil

import (
	"context"

	"github.com/credlane/credlane/internal/domain/payment"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	store *InMemoryStore[*payment.Payment]
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		store: NewInMemoryStore(clonePayment),
	}
}

func clonePayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	clone := *p
	if p.ReceiptRef != nil {
		ref := *p.ReceiptRef
		clone.ReceiptRef = &ref
	}
	return &clone
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if _, exists := s.store.Get(ctx, p.ID); exists {
		return ierr.NewError("payment already exists").
			WithHintf("Payment with id %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	s.store.Set(ctx, p.ID, p)
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, ok := s.store.Get(ctx, id)
	if !ok {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment with id %s was not found", id).
			WithDetail("payment_id", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if _, ok := s.store.Get(ctx, p.ID); !ok {
		return ierr.NewError("payment not found").
			WithHintf("Payment with id %s was not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	s.store.Set(ctx, p.ID, p)
	return nil
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	var qf *types.QueryFilter
	if filter != nil {
		qf = filter.QueryFilter
	}
	return paginate(s.match(ctx, filter), qf), nil
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	return len(s.match(ctx, filter)), nil
}

func (s *InMemoryPaymentStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	for _, p := range s.store.All(ctx) {
		if p.InvoiceID == invoiceID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

func (s *InMemoryPaymentStore) SumByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range s.store.All(ctx) {
		if p.InvoiceID == invoiceID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (s *InMemoryPaymentStore) match(ctx context.Context, filter *types.PaymentFilter) []*payment.Payment {
	var matched []*payment.Payment
	for _, p := range s.store.All(ctx) {
		if filter != nil {
			if len(filter.InvoiceIDs) > 0 && !lo.Contains(filter.InvoiceIDs, p.InvoiceID) {
				continue
			}
			if filter.Method != "" && p.Method != filter.Method {
				continue
			}
			if !matchesStatus(p.Status, filter.QueryFilter) {
				continue
			}
		}
		matched = append(matched, p)
	}
	return matched
}

func (s *InMemoryPaymentStore) Clear() {
	s.store.Clear()
}
