package service

import (
	"context"
	"time"

	"github.com/credlane/credlane/internal/api/dto"
	"github.com/credlane/credlane/internal/domain/creditrequest"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/ledger"
	"github.com/credlane/credlane/internal/types"
)

// CreditRequestService runs the client-initiated, provider-decided
// workflow for raising an account's trade-credit ceiling.
type CreditRequestService interface {
	RequestLimitChange(ctx context.Context, req *dto.CreateCreditRequestRequest) (*dto.CreditRequestResponse, error)
	GetCreditRequest(ctx context.Context, id string) (*dto.CreditRequestResponse, error)

	// DecideRequest applies a terminal decision. Approval raises the
	// account's limit in the same transaction that marks the request
	// approved. Re-submitting the decision a request already carries is
	// a no-op; a conflicting decision fails.
	DecideRequest(ctx context.Context, id string, req *dto.DecideCreditRequestRequest) (*dto.CreditRequestResponse, error)

	ListCreditRequests(ctx context.Context, filter *types.CreditRequestFilter) (*dto.ListCreditRequestsResponse, error)
}

type creditRequestService struct {
	ServiceParams
}

func NewCreditRequestService(params ServiceParams) CreditRequestService {
	return &creditRequestService{ServiceParams: params}
}

func (s *creditRequestService) RequestLimitChange(ctx context.Context, req *dto.CreateCreditRequestRequest) (*dto.CreditRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r := req.ToCreditLimitRequest(ctx)
	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		acct, err := s.AccountRepo.Get(ctx, r.AccountID)
		if err != nil {
			return err
		}

		r.ProviderID = acct.ProviderID
		r.CurrentLimit = acct.CreditLimit
		if err := r.Validate(); err != nil {
			return err
		}

		return s.CreditRequestRepo.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.postAudit(ctx, types.ActivityTypeCreate, types.EntityTypeCreditRequest, r.ID,
		"requested credit limit increase", types.Metadata{
			"account_id":      r.AccountID,
			"current_limit":   r.CurrentLimit.String(),
			"requested_limit": r.RequestedLimit.String(),
		})

	return dto.NewCreditRequestResponse(r), nil
}

func (s *creditRequestService) GetCreditRequest(ctx context.Context, id string) (*dto.CreditRequestResponse, error) {
	r, err := s.CreditRequestRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCreditRequestResponse(r), nil
}

func (s *creditRequestService) DecideRequest(ctx context.Context, id string, req *dto.DecideCreditRequestRequest) (*dto.CreditRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var r *creditrequest.CreditLimitRequest
	var decided bool

	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		decided = false

		var err error
		r, err = s.CreditRequestRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		target := req.Decision.TargetStatus()
		if r.RequestStatus.IsTerminal() {
			// Repeating the decision already taken is idempotent.
			if r.RequestStatus == target {
				return nil
			}
			return ierr.NewError("credit request already decided").
				WithHintf("Request is already %s and cannot be %s", r.RequestStatus, target).
				WithReportableDetails(map[string]any{
					"request_id":     r.ID,
					"request_status": r.RequestStatus,
				}).
				Mark(ierr.ErrRequestNotPending)
		}

		now := time.Now().UTC()
		r.RequestStatus = target
		r.DecidedBy = req.DecidedBy
		r.DecidedAt = &now
		if req.Notes != "" {
			r.Notes = req.Notes
		}
		r.UpdatedBy = types.GetUserID(ctx)

		if req.Decision == types.CreditDecisionApprove {
			acct, err := s.AccountRepo.Get(ctx, r.AccountID)
			if err != nil {
				return err
			}
			acct.CreditLimit = r.RequestedLimit
			acct.UpdatedBy = types.GetUserID(ctx)
			if err := s.AccountRepo.Update(ctx, acct); err != nil {
				return err
			}
		}

		if err := s.CreditRequestRepo.Update(ctx, r); err != nil {
			return err
		}
		decided = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decided {
		activityType := types.ActivityTypeReject
		if req.Decision == types.CreditDecisionApprove {
			activityType = types.ActivityTypeApprove
		}
		s.Logger.Infow("decided credit request",
			"request_id", r.ID,
			"decision", req.Decision,
			"requested_limit", r.RequestedLimit,
		)
		s.postAudit(ctx, activityType, types.EntityTypeCreditRequest, r.ID,
			"decided credit limit request", types.Metadata{
				"account_id":      r.AccountID,
				"decision":        req.Decision.String(),
				"requested_limit": r.RequestedLimit.String(),
			})
	}

	return dto.NewCreditRequestResponse(r), nil
}

func (s *creditRequestService) ListCreditRequests(ctx context.Context, filter *types.CreditRequestFilter) (*dto.ListCreditRequestsResponse, error) {
	if filter == nil {
		filter = types.NewCreditRequestFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.CreditRequestRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.CreditRequestRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListCreditRequestsResponse{
		Items: make([]*dto.CreditRequestResponse, len(requests)),
		Total: count,
	}
	for i, r := range requests {
		resp.Items[i] = dto.NewCreditRequestResponse(r)
	}
	return resp, nil
}
