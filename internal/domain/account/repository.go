package account

import (
	"context"

	"github.com/credlane/credlane/internal/types"
)

// Repository defines the interface for account persistence
type Repository interface {
	Create(ctx context.Context, account *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	GetByUserID(ctx context.Context, userID string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.AccountFilter) ([]*Account, error)
	Count(ctx context.Context, filter *types.AccountFilter) (int, error)
}
