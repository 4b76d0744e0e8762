package invoice

import (
	"time"

	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model
type Invoice struct {
	ID string `json:"id"`
	// Human-readable invoice number, e.g. INV-XYZ12A8Q
	Number string `json:"number"`
	// The client account the invoice is issued to
	AccountID string `json:"account_id"`
	// The provider that issued the invoice
	ProviderID string `json:"provider_id"`
	// The commercial date of the invoice as declared by the provider
	InvoiceDate time.Time `json:"invoice_date"`
	// The date payment falls due; pending invoices past this date are
	// reported as overdue
	DueDate time.Time `json:"due_date"`
	// Sum of all line item totals
	TotalAmount decimal.Decimal `json:"total_amount"`
	// Stored lifecycle state; overdue is derived at read time, never stored
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	// Line items owned exclusively by this invoice
	LineItems []*LineItem `json:"line_items"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`

	types.BaseModel
}

// Validate validates the invoice
func (i *Invoice) Validate() error {
	if i.AccountID == "" {
		return ierr.NewError("invalid account id").
			WithHint("Account id is required").
			Mark(ierr.ErrValidation)
	}
	if i.ProviderID == "" {
		return ierr.NewError("invalid provider id").
			WithHint("Provider id is required").
			Mark(ierr.ErrValidation)
	}
	if i.InvoiceDate.IsZero() {
		return ierr.NewError("invalid invoice date").
			WithHint("Invoice date is required").
			Mark(ierr.ErrValidation)
	}
	if i.DueDate.IsZero() {
		return ierr.NewError("invalid due date").
			WithHint("Due date is required").
			Mark(ierr.ErrValidation)
	}
	if !i.TotalAmount.IsPositive() {
		return ierr.NewError("invalid total amount").
			WithHint("Total amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if len(i.LineItems) == 0 {
		return ierr.NewError("invoice has no line items").
			WithHint("Invoice must have at least one item").
			Mark(ierr.ErrValidation)
	}
	for idx, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("Item %d is invalid", idx+1).
				Mark(ierr.ErrValidation)
		}
	}
	if err := i.InvoiceStatus.Validate(); err != nil {
		return err
	}
	return i.VerifyTotal(i.TotalAmount)
}

// VerifyTotal checks a declared total against the recomputed sum of the
// line item totals within the standard epsilon
func (i *Invoice) VerifyTotal(declared decimal.Decimal) error {
	computed := i.ComputeTotal()
	if declared.Sub(computed).Abs().GreaterThan(types.AmountEpsilonDecimal()) {
		return ierr.NewError("invoice total does not match items").
			WithHintf("Declared total (%s) does not match the sum of item totals (%s)",
				declared.String(), computed.String()).
			WithReportableDetails(map[string]any{
				"declared_total": declared.String(),
				"computed_total": computed.String(),
			}).
			Mark(ierr.ErrAmountMismatch)
	}
	return nil
}

// ComputeTotal returns the sum of quantity*unit_price over all line items
func (i *Invoice) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range i.LineItems {
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return total
}

// Recalculate re-derives every line item total and the invoice total
func (i *Invoice) Recalculate() {
	for _, item := range i.LineItems {
		item.Total = item.Quantity.Mul(item.UnitPrice)
	}
	i.TotalAmount = i.ComputeTotal()
}

// DerivedStatus maps a stored pending status with a past due date onto
// the display-only overdue status
func (i *Invoice) DerivedStatus(now time.Time) types.InvoiceStatus {
	if i.InvoiceStatus == types.InvoiceStatusPending && i.DueDate.Before(now) {
		return types.InvoiceStatusOverdue
	}
	return i.InvoiceStatus
}

// IsMutable reports whether items and amounts may still be edited
func (i *Invoice) IsMutable() bool {
	return i.InvoiceStatus == types.InvoiceStatusPending
}

// FindItem returns the line item with the given id, or nil
func (i *Invoice) FindItem(itemID string) *LineItem {
	for _, item := range i.LineItems {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}
