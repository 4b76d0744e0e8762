package testutil

import (
	"context"
	"time"

	"github.com/credlane/credlane/internal/domain/invoice"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	store *InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		store: NewInMemoryStore(cloneInvoice),
	}
}

func cloneInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	clone := *inv
	clone.LineItems = make([]*invoice.LineItem, len(inv.LineItems))
	for i, item := range inv.LineItems {
		itemClone := *item
		clone.LineItems[i] = &itemClone
	}
	if inv.CancelledAt != nil {
		t := *inv.CancelledAt
		clone.CancelledAt = &t
	}
	if inv.PaidAt != nil {
		t := *inv.PaidAt
		clone.PaidAt = &t
	}
	return &clone
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if _, exists := s.store.Get(ctx, inv.ID); exists {
		return ierr.NewError("invoice already exists").
			WithHintf("Invoice with id %s already exists", inv.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	s.store.Set(ctx, inv.ID, inv)
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, ok := s.store.Get(ctx, id)
	if !ok {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with id %s was not found", id).
			WithDetail("invoice_id", id).
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if _, ok := s.store.Get(ctx, inv.ID); !ok {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice with id %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	s.store.Set(ctx, inv.ID, inv)
	return nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	var qf *types.QueryFilter
	if filter != nil {
		qf = filter.QueryFilter
	}
	return paginate(s.match(ctx, filter), qf), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return len(s.match(ctx, filter)), nil
}

func (s *InMemoryInvoiceStore) ListPendingByAccount(ctx context.Context, accountID string) ([]*invoice.Invoice, error) {
	var pending []*invoice.Invoice
	for _, inv := range s.store.All(ctx) {
		if inv.AccountID == accountID && inv.InvoiceStatus == types.InvoiceStatusPending {
			pending = append(pending, inv)
		}
	}
	return pending, nil
}

func (s *InMemoryInvoiceStore) ListOverdue(ctx context.Context, providerID string, before time.Time) ([]*invoice.Invoice, error) {
	var overdue []*invoice.Invoice
	for _, inv := range s.store.All(ctx) {
		if providerID != "" && inv.ProviderID != providerID {
			continue
		}
		if inv.InvoiceStatus == types.InvoiceStatusPending && inv.DueDate.Before(before) {
			overdue = append(overdue, inv)
		}
	}
	return overdue, nil
}

func (s *InMemoryInvoiceStore) match(ctx context.Context, filter *types.InvoiceFilter) []*invoice.Invoice {
	var matched []*invoice.Invoice
	for _, inv := range s.store.All(ctx) {
		if filter != nil {
			if filter.AccountID != "" && inv.AccountID != filter.AccountID {
				continue
			}
			if filter.ProviderID != "" && inv.ProviderID != filter.ProviderID {
				continue
			}
			if len(filter.InvoiceStatus) > 0 && !lo.Contains(filter.InvoiceStatus, inv.InvoiceStatus) {
				continue
			}
			if filter.DueBefore != nil && !inv.DueDate.Before(*filter.DueBefore) {
				continue
			}
			if !matchesStatus(inv.Status, filter.QueryFilter) {
				continue
			}
		}
		matched = append(matched, inv)
	}
	return matched
}

func (s *InMemoryInvoiceStore) Clear() {
	s.store.Clear()
}
