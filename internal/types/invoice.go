package types

import (
	"time"

	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusPending indicates the invoice is open and counts against
	// the client's trade credit
	InvoiceStatusPending InvoiceStatus = "pending"
	// InvoiceStatusPaid indicates cumulative payments have reached the total;
	// the invoice is terminal and immutable
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusOverdue is a display-only derivation of pending with a
	// past due date; it is never stored
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	// InvoiceStatusCancelled indicates the invoice was cancelled while
	// pending; terminal and immutable
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithDetail("allowed", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether the status permits no further transitions
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanTransitionTo reports whether the stored status may move to target.
// Only pending invoices move anywhere; paid and cancelled never regress.
// Overdue is not a stored state and is never a valid target.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	if s != InvoiceStatusPending {
		return false
	}
	return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
}

const (
	// AmountEpsilon is the tolerance used when comparing a declared invoice
	// total against the recomputed sum of its line items
	AmountEpsilon = "0.01"
)

// AmountEpsilonDecimal returns the comparison tolerance as a decimal
func AmountEpsilonDecimal() decimal.Decimal {
	return decimal.RequireFromString(AmountEpsilon)
}

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	*QueryFilter

	// account_id filters invoices issued to a specific client account
	AccountID string `json:"account_id,omitempty" form:"account_id"`

	// provider_id filters invoices issued by a specific provider
	ProviderID string `json:"provider_id,omitempty" form:"provider_id"`

	// invoice_status filters by the stored state of invoices
	InvoiceStatus []InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`

	// due_before restricts results to invoices due strictly before this time
	DueBefore *time.Time `json:"due_before,omitempty" form:"due_before"`
}

// NewInvoiceFilter creates a new invoice filter with default options
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitInvoiceFilter creates a new invoice filter without pagination
func NewNoLimitInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	for _, s := range f.InvoiceStatus {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
