package payment

import (
	"time"

	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
	"github.com/shopspring/decimal"
)

// Payment represents a payment applied against a single invoice. Many
// payments may settle one invoice; amount and invoice linkage are
// immutable after creation except through the reconciling update path.
type Payment struct {
	// Unique identifier for this payment
	ID string `json:"id"`
	// The invoice this payment is applied to
	InvoiceID string `json:"invoice_id"`
	// The amount field specifies the payment value
	Amount decimal.Decimal `json:"amount"`
	// The date the payment was made, as declared by the payer
	PaymentDate time.Time `json:"payment_date"`
	// How the payment was made
	Method types.PaymentMethod `json:"method"`
	// Opaque handle into the blob store for the uploaded receipt (optional)
	ReceiptRef *string `json:"receipt_ref,omitempty"`

	types.BaseModel
}

// Validate validates the payment
func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("invalid invoice id").
			WithHint("Invoice id is required").
			Mark(ierr.ErrValidation)
	}
	if p.Amount.IsZero() || p.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if p.PaymentDate.IsZero() {
		return ierr.NewError("invalid payment date").
			WithHint("Payment date is required").
			Mark(ierr.ErrValidation)
	}
	if err := p.Method.Validate(); err != nil {
		return err
	}
	return nil
}
