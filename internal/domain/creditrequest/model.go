package creditrequest

import (
	"time"

	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
	"github.com/shopspring/decimal"
)

// CreditLimitRequest represents a client-initiated, provider-decided
// request to raise the account's trade-credit ceiling
type CreditLimitRequest struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	ProviderID string `json:"provider_id"`
	// The limit at the time the request was made
	CurrentLimit decimal.Decimal `json:"current_limit"`
	// The requested new ceiling; must exceed CurrentLimit
	RequestedLimit decimal.Decimal `json:"requested_limit"`
	RequestStatus  types.CreditRequestStatus `json:"request_status"`
	Notes          string                    `json:"notes,omitempty"`
	DecidedBy      string                    `json:"decided_by,omitempty"`
	DecidedAt      *time.Time                `json:"decided_at,omitempty"`

	types.BaseModel
}

// Validate validates the credit limit request
func (r *CreditLimitRequest) Validate() error {
	if r.AccountID == "" {
		return ierr.NewError("invalid account id").
			WithHint("Account id is required").
			Mark(ierr.ErrValidation)
	}
	if r.ProviderID == "" {
		return ierr.NewError("invalid provider id").
			WithHint("Provider id is required").
			Mark(ierr.ErrValidation)
	}
	if r.RequestedLimit.IsNegative() {
		return ierr.NewError("invalid requested limit").
			WithHint("Requested limit must be non negative").
			Mark(ierr.ErrInvalidLimit)
	}
	if !r.RequestedLimit.GreaterThan(r.CurrentLimit) {
		return ierr.NewError("requested limit does not raise the ceiling").
			WithHintf("Requested limit (%s) must exceed the current limit (%s)",
				r.RequestedLimit.String(), r.CurrentLimit.String()).
			Mark(ierr.ErrInvalidLimit)
	}
	if err := r.RequestStatus.Validate(); err != nil {
		return err
	}
	return nil
}
