package service

import (
	"context"

	"github.com/credlane/credlane/internal/api/dto"
	"github.com/credlane/credlane/internal/domain/account"
	"github.com/credlane/credlane/internal/domain/invoice"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/ledger"
	"github.com/credlane/credlane/internal/types"
	"github.com/shopspring/decimal"
)

// AccountService manages client accounts and their trade-credit position
type AccountService interface {
	CreateAccount(ctx context.Context, req *dto.CreateAccountRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error)
	GetAccountByUserID(ctx context.Context, userID string) (*dto.AccountResponse, error)
	ListAccounts(ctx context.Context, filter *types.AccountFilter) (*dto.ListAccountsResponse, error)

	// AvailableCredit reports the account's remaining headroom, computed
	// from a consistent snapshot of its pending invoices.
	AvailableCredit(ctx context.Context, accountID string) (*dto.AvailableCreditResponse, error)

	// ApplyLimitChange sets the credit limit directly, outside the
	// request workflow. Lowering the limit below the pending total is
	// allowed; available credit simply goes negative until invoices are
	// settled.
	ApplyLimitChange(ctx context.Context, accountID string, newLimit decimal.Decimal) (*dto.AccountResponse, error)

	UpdateAccountStatus(ctx context.Context, accountID string, status types.AccountStatus) (*dto.AccountResponse, error)

	// DeleteAccount removes an account that has no invoices. Accounts
	// with invoicing history are refused; close them instead.
	DeleteAccount(ctx context.Context, id string) error
}

type accountService struct {
	ServiceParams
}

func NewAccountService(params ServiceParams) AccountService {
	return &accountService{ServiceParams: params}
}

func (s *accountService) CreateAccount(ctx context.Context, req *dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct := req.ToAccount(ctx)
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		return s.AccountRepo.Create(ctx, acct)
	})
	if err != nil {
		return nil, err
	}

	s.postAudit(ctx, types.ActivityTypeCreate, types.EntityTypeAccount, acct.ID,
		"created client account "+acct.Name, nil)

	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	acct, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) GetAccountByUserID(ctx context.Context, userID string) (*dto.AccountResponse, error) {
	acct, err := s.AccountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter *types.AccountFilter) (*dto.ListAccountsResponse, error) {
	if filter == nil {
		filter = types.NewAccountFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	accounts, err := s.AccountRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.AccountRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListAccountsResponse{
		Items: make([]*dto.AccountResponse, len(accounts)),
		Total: count,
	}
	for i, acct := range accounts {
		resp.Items[i] = dto.NewAccountResponse(acct)
	}
	return resp, nil
}

func (s *accountService) AvailableCredit(ctx context.Context, accountID string) (*dto.AvailableCreditResponse, error) {
	var resp *dto.AvailableCreditResponse

	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		acct, err := s.AccountRepo.Get(ctx, accountID)
		if err != nil {
			return err
		}

		pending, err := pendingInvoiceTotal(ctx, s.InvoiceRepo, accountID)
		if err != nil {
			return err
		}

		resp = &dto.AvailableCreditResponse{
			AccountID:    acct.ID,
			CreditLimit:  acct.CreditLimit,
			PendingTotal: pending,
			Available:    acct.CreditLimit.Sub(pending),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *accountService) ApplyLimitChange(ctx context.Context, accountID string, newLimit decimal.Decimal) (*dto.AccountResponse, error) {
	if newLimit.IsNegative() {
		return nil, ierr.NewError("invalid credit limit").
			WithHint("Credit limit must be non negative").
			Mark(ierr.ErrInvalidLimit)
	}

	var acct *account.Account
	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		var err error
		acct, err = s.AccountRepo.Get(ctx, accountID)
		if err != nil {
			return err
		}

		acct.CreditLimit = newLimit
		acct.UpdatedBy = types.GetUserID(ctx)
		return s.AccountRepo.Update(ctx, acct)
	})
	if err != nil {
		return nil, err
	}

	s.postAudit(ctx, types.ActivityTypeUpdate, types.EntityTypeAccount, acct.ID,
		"set credit limit to "+newLimit.String(), types.Metadata{
			"credit_limit": newLimit.String(),
		})

	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) UpdateAccountStatus(ctx context.Context, accountID string, status types.AccountStatus) (*dto.AccountResponse, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var acct *account.Account
	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		var err error
		acct, err = s.AccountRepo.Get(ctx, accountID)
		if err != nil {
			return err
		}

		acct.AccountStatus = status
		acct.UpdatedBy = types.GetUserID(ctx)
		return s.AccountRepo.Update(ctx, acct)
	})
	if err != nil {
		return nil, err
	}

	s.postAudit(ctx, types.ActivityTypeUpdate, types.EntityTypeAccount, acct.ID,
		"set account status to "+status.String(), nil)

	return dto.NewAccountResponse(acct), nil
}

func (s *accountService) DeleteAccount(ctx context.Context, id string) error {
	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		if _, err := s.AccountRepo.Get(ctx, id); err != nil {
			return err
		}

		filter := types.NewNoLimitInvoiceFilter()
		filter.AccountID = id
		count, err := s.InvoiceRepo.Count(ctx, filter)
		if err != nil {
			return err
		}
		if count > 0 {
			return ierr.NewError("account has invoices").
				WithHintf("Account has %d invoices and cannot be deleted; close it instead", count).
				WithReportableDetails(map[string]any{
					"account_id":    id,
					"invoice_count": count,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		return s.AccountRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.postAudit(ctx, types.ActivityTypeDelete, types.EntityTypeAccount, id,
		"deleted client account", nil)
	return nil
}

// pendingInvoiceTotal sums the stored totals of the account's pending
// invoices. Must run inside the same transaction as any decision that
// depends on it.
func pendingInvoiceTotal(ctx context.Context, repo invoice.Repository, accountID string) (decimal.Decimal, error) {
	pending, err := repo.ListPendingByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, inv := range pending {
		total = total.Add(inv.TotalAmount)
	}
	return total, nil
}
