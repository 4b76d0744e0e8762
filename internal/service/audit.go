package service

import (
	"context"
	"time"

	"github.com/credlane/credlane/internal/domain/activity"
	"github.com/credlane/credlane/internal/types"
)

// postAudit writes a best-effort activity entry after a committed
// operation. Failures are logged and swallowed; the audit trail never
// vetoes or rolls back the primary write.
func (p ServiceParams) postAudit(
	ctx context.Context,
	activityType types.ActivityType,
	entityType types.EntityType,
	entityID string,
	description string,
	metadata types.Metadata,
) {
	entry := &activity.Entry{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACTIVITY_LOG),
		UserID:       types.GetUserID(ctx),
		ActivityType: activityType,
		EntityType:   entityType,
		EntityID:     entityID,
		Description:  description,
		Metadata:     metadata,
		Timestamp:    time.Now().UTC(),
	}

	if err := p.ActivityRepo.Log(ctx, entry); err != nil {
		p.Logger.Warnw("failed to record activity entry",
			"activity_type", activityType,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}
