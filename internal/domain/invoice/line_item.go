package invoice

import (
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/shopspring/decimal"
)

// LineItem represents a single billable line on an invoice. Line items
// are owned exclusively by their invoice and are never shared.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Validate validates the line item
func (li *LineItem) Validate() error {
	if li.Description == "" {
		return ierr.NewError("invalid item description").
			WithHint("Item description is required").
			Mark(ierr.ErrValidation)
	}
	if !li.Quantity.IsPositive() {
		return ierr.NewError("invalid item quantity").
			WithHint("Item quantity must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if li.UnitPrice.IsNegative() {
		return ierr.NewError("invalid item unit price").
			WithHint("Item unit price must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
