package invoice

import (
	"context"
	"time"

	"github.com/credlane/credlane/internal/types"
)

// Repository defines the interface for invoice persistence
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// ListPendingByAccount returns every stored-pending invoice for the
	// account. Callers computing available credit must invoke this inside
	// the same transaction that writes the new invoice.
	ListPendingByAccount(ctx context.Context, accountID string) ([]*Invoice, error)

	// ListOverdue returns pending invoices whose due date is strictly
	// before the given time, optionally scoped to one provider.
	ListOverdue(ctx context.Context, providerID string, before time.Time) ([]*Invoice, error)
}
