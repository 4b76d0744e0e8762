package testutil

import (
	"context"

	"github.com/credlane/credlane/internal/domain/creditrequest"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
)

// InMemoryCreditRequestStore implements creditrequest.Repository
type InMemoryCreditRequestStore struct {
	store *InMemoryStore[*creditrequest.CreditLimitRequest]
}

func NewInMemoryCreditRequestStore() *InMemoryCreditRequestStore {
	return &InMemoryCreditRequestStore{
		store: NewInMemoryStore(cloneCreditRequest),
	}
}

func cloneCreditRequest(r *creditrequest.CreditLimitRequest) *creditrequest.CreditLimitRequest {
	if r == nil {
		return nil
	}
	clone := *r
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		clone.DecidedAt = &t
	}
	return &clone
}

func (s *InMemoryCreditRequestStore) Create(ctx context.Context, r *creditrequest.CreditLimitRequest) error {
	if _, exists := s.store.Get(ctx, r.ID); exists {
		return ierr.NewError("credit request already exists").
			WithHintf("Credit request with id %s already exists", r.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	s.store.Set(ctx, r.ID, r)
	return nil
}

func (s *InMemoryCreditRequestStore) Get(ctx context.Context, id string) (*creditrequest.CreditLimitRequest, error) {
	r, ok := s.store.Get(ctx, id)
	if !ok {
		return nil, ierr.NewError("credit request not found").
			WithHintf("Credit request with id %s was not found", id).
			WithDetail("request_id", id).
			Mark(ierr.ErrNotFound)
	}
	return r, nil
}

func (s *InMemoryCreditRequestStore) Update(ctx context.Context, r *creditrequest.CreditLimitRequest) error {
	if _, ok := s.store.Get(ctx, r.ID); !ok {
		return ierr.NewError("credit request not found").
			WithHintf("Credit request with id %s was not found", r.ID).
			Mark(ierr.ErrNotFound)
	}
	s.store.Set(ctx, r.ID, r)
	return nil
}

func (s *InMemoryCreditRequestStore) List(ctx context.Context, filter *types.CreditRequestFilter) ([]*creditrequest.CreditLimitRequest, error) {
	var qf *types.QueryFilter
	if filter != nil {
		qf = filter.QueryFilter
	}
	return paginate(s.match(ctx, filter), qf), nil
}

func (s *InMemoryCreditRequestStore) Count(ctx context.Context, filter *types.CreditRequestFilter) (int, error) {
	return len(s.match(ctx, filter)), nil
}

func (s *InMemoryCreditRequestStore) match(ctx context.Context, filter *types.CreditRequestFilter) []*creditrequest.CreditLimitRequest {
	var matched []*creditrequest.CreditLimitRequest
	for _, r := range s.store.All(ctx) {
		if filter != nil {
			if filter.AccountID != "" && r.AccountID != filter.AccountID {
				continue
			}
			if filter.ProviderID != "" && r.ProviderID != filter.ProviderID {
				continue
			}
			if filter.RequestStatus != "" && r.RequestStatus != filter.RequestStatus {
				continue
			}
			if !matchesStatus(r.Status, filter.QueryFilter) {
				continue
			}
		}
		matched = append(matched, r)
	}
	return matched
}

func (s *InMemoryCreditRequestStore) Clear() {
	s.store.Clear()
}
