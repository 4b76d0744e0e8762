package dto

import (
	"context"

	"github.com/credlane/credlane/internal/domain/creditrequest"
	"github.com/credlane/credlane/internal/types"
	"github.com/credlane/credlane/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateCreditRequestRequest carries a client's ask to raise its ceiling
type CreateCreditRequestRequest struct {
	AccountID      string          `json:"account_id" validate:"required"`
	RequestedLimit decimal.Decimal `json:"requested_limit"`
	Notes          string          `json:"notes,omitempty"`
}

func (r *CreateCreditRequestRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToCreditLimitRequest builds the domain request. CurrentLimit and
// ProviderID are resolved from the account by the service.
func (r *CreateCreditRequestRequest) ToCreditLimitRequest(ctx context.Context) *creditrequest.CreditLimitRequest {
	return &creditrequest.CreditLimitRequest{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CREDIT_REQUEST),
		AccountID:      r.AccountID,
		RequestedLimit: r.RequestedLimit,
		Notes:          r.Notes,
		RequestStatus:  types.CreditRequestStatusPending,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// DecideCreditRequestRequest carries a provider's decision on a pending
// request
type DecideCreditRequestRequest struct {
	Decision  types.CreditDecision `json:"decision" validate:"required"`
	DecidedBy string               `json:"decided_by" validate:"required"`
	Notes     string               `json:"notes,omitempty"`
}

func (r *DecideCreditRequestRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Decision.Validate()
}

// CreditRequestResponse represents a credit limit request in API responses
type CreditRequestResponse struct {
	*creditrequest.CreditLimitRequest
}

// NewCreditRequestResponse creates a new credit request response
func NewCreditRequestResponse(req *creditrequest.CreditLimitRequest) *CreditRequestResponse {
	return &CreditRequestResponse{CreditLimitRequest: req}
}

// ListCreditRequestsResponse represents a paginated list of credit requests
type ListCreditRequestsResponse struct {
	Items []*CreditRequestResponse `json:"items"`
	Total int                      `json:"total"`
}
