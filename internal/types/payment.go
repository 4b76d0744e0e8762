package types

import (
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/samber/lo"
)

// PaymentMethod defines how a payment was made
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodCash         PaymentMethod = "cash"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Validate() error {
	allowed := []PaymentMethod{
		PaymentMethodBankTransfer,
		PaymentMethodCreditCard,
		PaymentMethodCash,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid payment method").
			WithHint("Please provide a valid payment method").
			WithDetail("allowed", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentFilter represents the filter options for listing payments
type PaymentFilter struct {
	*QueryFilter

	// invoice_ids restricts results to payments applied to the given invoices
	InvoiceIDs []string `json:"invoice_ids,omitempty" form:"invoice_ids"`

	// method filters payments by how they were made
	Method PaymentMethod `json:"method,omitempty" form:"method"`
}

// NewPaymentFilter creates a new payment filter with default options
func NewPaymentFilter() *PaymentFilter {
	return &PaymentFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitPaymentFilter creates a new payment filter without pagination
func NewNoLimitPaymentFilter() *PaymentFilter {
	return &PaymentFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *PaymentFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.Method != "" {
		return f.Method.Validate()
	}
	return nil
}
