package testutil

import (
	"context"

	"github.com/credlane/credlane/internal/domain/account"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	store *InMemoryStore[*account.Account]
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		store: NewInMemoryStore(cloneAccount),
	}
}

func cloneAccount(a *account.Account) *account.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	if _, exists := s.store.Get(ctx, a.ID); exists {
		return ierr.NewError("account already exists").
			WithHintf("Account with id %s already exists", a.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	s.store.Set(ctx, a.ID, a)
	return nil
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	a, ok := s.store.Get(ctx, id)
	if !ok {
		return nil, ierr.NewError("account not found").
			WithHintf("Account with id %s was not found", id).
			WithDetail("account_id", id).
			Mark(ierr.ErrNotFound)
	}
	return a, nil
}

func (s *InMemoryAccountStore) GetByUserID(ctx context.Context, userID string) (*account.Account, error) {
	for _, a := range s.store.All(ctx) {
		if a.UserID == userID && a.Status != types.StatusDeleted {
			return a, nil
		}
	}
	return nil, ierr.NewError("account not found").
		WithHintf("No account is linked to user %s", userID).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryAccountStore) Update(ctx context.Context, a *account.Account) error {
	if _, ok := s.store.Get(ctx, a.ID); !ok {
		return ierr.NewError("account not found").
			WithHintf("Account with id %s was not found", a.ID).
			Mark(ierr.ErrNotFound)
	}
	s.store.Set(ctx, a.ID, a)
	return nil
}

func (s *InMemoryAccountStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Get(ctx, id); !ok {
		return ierr.NewError("account not found").
			WithHintf("Account with id %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	s.store.Delete(ctx, id)
	return nil
}

func (s *InMemoryAccountStore) List(ctx context.Context, filter *types.AccountFilter) ([]*account.Account, error) {
	var qf *types.QueryFilter
	if filter != nil {
		qf = filter.QueryFilter
	}
	return paginate(s.match(ctx, filter), qf), nil
}

func (s *InMemoryAccountStore) Count(ctx context.Context, filter *types.AccountFilter) (int, error) {
	return len(s.match(ctx, filter)), nil
}

func (s *InMemoryAccountStore) match(ctx context.Context, filter *types.AccountFilter) []*account.Account {
	var matched []*account.Account
	for _, a := range s.store.All(ctx) {
		if filter != nil {
			if filter.ProviderID != "" && a.ProviderID != filter.ProviderID {
				continue
			}
			if filter.AccountStatus != "" && a.AccountStatus != filter.AccountStatus {
				continue
			}
			if !matchesStatus(a.Status, filter.QueryFilter) {
				continue
			}
		}
		matched = append(matched, a)
	}
	return matched
}

func (s *InMemoryAccountStore) Clear() {
	s.store.Clear()
}

// matchesStatus applies the common base-model status filter
func matchesStatus(status types.Status, f *types.QueryFilter) bool {
	if f == nil || f.Status == nil {
		return status != types.StatusDeleted
	}
	return status == *f.Status
}

// paginate applies the common offset and limit options
func paginate[T any](items []T, f *types.QueryFilter) []T {
	offset := f.GetOffset()
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]

	if !f.IsUnlimited() && f.GetLimit() < len(items) {
		items = items[:f.GetLimit()]
	}
	return items
}
