package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/credlane/credlane/internal/domain/activity"
	"github.com/credlane/credlane/internal/types"
)

// InMemoryActivityLog implements activity.Repository as a plain
// append-only list. It deliberately sits outside the ledger's
// transactional machinery: audit entries are best-effort and never roll
// back with a conflicted transaction.
type InMemoryActivityLog struct {
	mu      sync.RWMutex
	entries []*activity.Entry

	// failWith, when set, makes the next Log call fail. Used to verify
	// audit failures never abort primary operations.
	failWith error
}

func NewInMemoryActivityLog() *InMemoryActivityLog {
	return &InMemoryActivityLog{}
}

// FailNext makes the next Log call return err.
func (s *InMemoryActivityLog) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *InMemoryActivityLog) Log(ctx context.Context, entry *activity.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		err := s.failWith
		s.failWith = nil
		return err
	}

	clone := *entry
	s.entries = append(s.entries, &clone)
	return nil
}

func (s *InMemoryActivityLog) ListByUser(ctx context.Context, userID string, limit int) ([]*activity.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*activity.Entry
	for _, e := range s.entries {
		if e.UserID == userID {
			clone := *e
			matched = append(matched, &clone)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *InMemoryActivityLog) ListByEntity(ctx context.Context, entityType types.EntityType, entityID string) ([]*activity.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*activity.Entry
	for _, e := range s.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			clone := *e
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

// Len reports how many entries have been recorded.
func (s *InMemoryActivityLog) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *InMemoryActivityLog) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.failWith = nil
}
