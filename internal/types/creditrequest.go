package types

import (
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/samber/lo"
)

// CreditRequestStatus represents the state of a credit-limit-increase request
type CreditRequestStatus string

const (
	// CreditRequestStatusPending indicates the request awaits a provider decision
	CreditRequestStatusPending CreditRequestStatus = "pending"
	// CreditRequestStatusApproved indicates the request was approved and the
	// account's credit limit was raised; terminal
	CreditRequestStatusApproved CreditRequestStatus = "approved"
	// CreditRequestStatusRejected indicates the request was declined; terminal
	CreditRequestStatusRejected CreditRequestStatus = "rejected"
)

func (s CreditRequestStatus) String() string {
	return string(s)
}

func (s CreditRequestStatus) Validate() error {
	allowed := []CreditRequestStatus{
		CreditRequestStatusPending,
		CreditRequestStatusApproved,
		CreditRequestStatusRejected,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid credit request status").
			WithHint("Please provide a valid credit request status").
			WithDetail("allowed", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether the request can no longer transition
func (s CreditRequestStatus) IsTerminal() bool {
	return s == CreditRequestStatusApproved || s == CreditRequestStatusRejected
}

// CreditDecision is a provider's decision on a pending credit request
type CreditDecision string

const (
	CreditDecisionApprove CreditDecision = "approve"
	CreditDecisionReject  CreditDecision = "reject"
)

func (d CreditDecision) String() string {
	return string(d)
}

func (d CreditDecision) Validate() error {
	allowed := []CreditDecision{
		CreditDecisionApprove,
		CreditDecisionReject,
	}
	if !lo.Contains(allowed, d) {
		return ierr.NewError("invalid credit decision").
			WithHint("Decision must be approve or reject").
			WithDetail("allowed", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TargetStatus maps a decision onto the terminal request status it produces
func (d CreditDecision) TargetStatus() CreditRequestStatus {
	if d == CreditDecisionApprove {
		return CreditRequestStatusApproved
	}
	return CreditRequestStatusRejected
}

// CreditRequestFilter represents the filter options for listing credit requests
type CreditRequestFilter struct {
	*QueryFilter

	AccountID     string              `json:"account_id,omitempty" form:"account_id"`
	ProviderID    string              `json:"provider_id,omitempty" form:"provider_id"`
	RequestStatus CreditRequestStatus `json:"request_status,omitempty" form:"request_status"`
}

// NewCreditRequestFilter creates a new credit request filter with default options
func NewCreditRequestFilter() *CreditRequestFilter {
	return &CreditRequestFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *CreditRequestFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.RequestStatus != "" {
		return f.RequestStatus.Validate()
	}
	return nil
}
