package service

import (
	"context"

	"github.com/credlane/credlane/internal/domain/activity"
	"github.com/credlane/credlane/internal/types"
)

// ActivityService reads the append-only audit trail
type ActivityService interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*activity.Entry, error)
	ListByEntity(ctx context.Context, entityType types.EntityType, entityID string) ([]*activity.Entry, error)
}

type activityService struct {
	ServiceParams
}

func NewActivityService(params ServiceParams) ActivityService {
	return &activityService{ServiceParams: params}
}

func (s *activityService) ListByUser(ctx context.Context, userID string, limit int) ([]*activity.Entry, error) {
	if limit <= 0 {
		limit = types.FilterDefaultLimit
	}
	return s.ActivityRepo.ListByUser(ctx, userID, limit)
}

func (s *activityService) ListByEntity(ctx context.Context, entityType types.EntityType, entityID string) ([]*activity.Entry, error) {
	if err := entityType.Validate(); err != nil {
		return nil, err
	}
	return s.ActivityRepo.ListByEntity(ctx, entityType, entityID)
}
