package creditrequest

import (
	"context"

	"github.com/credlane/credlane/internal/types"
)

// Repository defines the interface for credit limit request persistence
type Repository interface {
	Create(ctx context.Context, req *CreditLimitRequest) error
	Get(ctx context.Context, id string) (*CreditLimitRequest, error)
	Update(ctx context.Context, req *CreditLimitRequest) error
	List(ctx context.Context, filter *types.CreditRequestFilter) ([]*CreditLimitRequest, error)
	Count(ctx context.Context, filter *types.CreditRequestFilter) (int, error)
}
