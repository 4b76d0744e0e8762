package activity

import (
	"time"

	"github.com/credlane/credlane/internal/types"
)

// Entry is a single append-only audit record. The engine emits entries
// on a best-effort basis and never reads them back for correctness.
type Entry struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	ActivityType types.ActivityType `json:"activity_type"`
	EntityType   types.EntityType   `json:"entity_type"`
	EntityID     string             `json:"entity_id"`
	Description  string             `json:"description"`
	Metadata     types.Metadata     `json:"metadata,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}
