package dto

import (
	"context"

	"github.com/credlane/credlane/internal/domain/account"
	"github.com/credlane/credlane/internal/types"
	"github.com/credlane/credlane/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest carries the inputs for onboarding a client account
type CreateAccountRequest struct {
	ProviderID  string                 `json:"provider_id" validate:"required"`
	UserID      string                 `json:"user_id"`
	Name        string                 `json:"name" validate:"required"`
	Contact     account.ContactDetails `json:"contact"`
	CreditLimit decimal.Decimal        `json:"credit_limit"`
}

func (r *CreateAccountRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToAccount builds the domain account from the request
func (r *CreateAccountRequest) ToAccount(ctx context.Context) *account.Account {
	return &account.Account{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		ProviderID:    r.ProviderID,
		UserID:        r.UserID,
		Name:          r.Name,
		Contact:       r.Contact,
		CreditLimit:   r.CreditLimit,
		AccountStatus: types.AccountStatusActive,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	*account.Account
}

// NewAccountResponse creates a new account response
func NewAccountResponse(a *account.Account) *AccountResponse {
	return &AccountResponse{Account: a}
}

// AvailableCreditResponse reports a client's credit position
type AvailableCreditResponse struct {
	AccountID    string          `json:"account_id"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	PendingTotal decimal.Decimal `json:"pending_total"`
	Available    decimal.Decimal `json:"available"`
}

// ListAccountsResponse represents a paginated list of accounts
type ListAccountsResponse struct {
	Items []*AccountResponse `json:"items"`
	Total int                `json:"total"`
}
