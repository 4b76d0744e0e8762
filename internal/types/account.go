package types

import (
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/samber/lo"
)

// AccountStatus represents the standing of a client account with its provider
type AccountStatus string

const (
	// AccountStatusActive indicates the account may receive new invoices
	AccountStatusActive AccountStatus = "active"
	// AccountStatusSuspended indicates invoicing is paused by the provider
	AccountStatusSuspended AccountStatus = "suspended"
	// AccountStatusClosed indicates the relationship has ended
	AccountStatusClosed AccountStatus = "closed"
)

func (s AccountStatus) String() string {
	return string(s)
}

func (s AccountStatus) Validate() error {
	allowed := []AccountStatus{
		AccountStatusActive,
		AccountStatusSuspended,
		AccountStatusClosed,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid account status").
			WithHint("Please provide a valid account status").
			WithDetail("allowed", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AccountFilter represents the filter options for listing client accounts
type AccountFilter struct {
	*QueryFilter

	ProviderID    string        `json:"provider_id,omitempty" form:"provider_id"`
	AccountStatus AccountStatus `json:"account_status,omitempty" form:"account_status"`
}

// NewAccountFilter creates a new account filter with default options
func NewAccountFilter() *AccountFilter {
	return &AccountFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *AccountFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.AccountStatus != "" {
		return f.AccountStatus.Validate()
	}
	return nil
}
