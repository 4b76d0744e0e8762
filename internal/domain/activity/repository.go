package activity

import (
	"context"

	"github.com/credlane/credlane/internal/types"
)

// Repository is the append-only audit sink. Log failures are swallowed
// by callers and must never abort or roll back a primary operation.
type Repository interface {
	Log(ctx context.Context, entry *Entry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Entry, error)
	ListByEntity(ctx context.Context, entityType types.EntityType, entityID string) ([]*Entry, error)
}
