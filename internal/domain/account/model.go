package account

import (
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
	"github.com/shopspring/decimal"
)

// Account represents a client account holding a trade-credit ceiling
// with a single provider
type Account struct {
	// Unique identifier for this account
	ID string `json:"id"`
	// The provider that owns the commercial relationship
	ProviderID string `json:"provider_id"`
	// The identity-provider user backing this client, if any
	UserID string `json:"user_id,omitempty"`
	// Display name of the client business
	Name string `json:"name"`
	// Contact details for the client
	Contact ContactDetails `json:"contact"`
	// The trade-credit ceiling; mutated only by the credit request
	// workflow on approval or by an explicit administrative edit
	CreditLimit decimal.Decimal `json:"credit_limit"`
	// Standing of the account with its provider
	AccountStatus types.AccountStatus `json:"account_status"`

	types.BaseModel
}

// ContactDetails holds the client's contact information
type ContactDetails struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Validate validates the account
func (a *Account) Validate() error {
	if a.ProviderID == "" {
		return ierr.NewError("invalid provider id").
			WithHint("Provider id is required").
			Mark(ierr.ErrValidation)
	}
	if a.Name == "" {
		return ierr.NewError("invalid account name").
			WithHint("Account name is required").
			Mark(ierr.ErrValidation)
	}
	if a.CreditLimit.IsNegative() {
		return ierr.NewError("invalid credit limit").
			WithHint("Credit limit must be non negative").
			Mark(ierr.ErrInvalidLimit)
	}
	if err := a.AccountStatus.Validate(); err != nil {
		return err
	}
	return nil
}
