package payment

import (
	"context"

	"github.com/credlane/credlane/internal/types"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for payment persistence
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	List(ctx context.Context, filter *types.PaymentFilter) ([]*Payment, error)
	Count(ctx context.Context, filter *types.PaymentFilter) (int, error)

	// ListByInvoice returns every payment applied to the invoice.
	ListByInvoice(ctx context.Context, invoiceID string) ([]*Payment, error)

	// SumByInvoice returns the total amount paid against the invoice.
	// Settlement decisions must call this inside the same transaction
	// that writes the new payment.
	SumByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}
