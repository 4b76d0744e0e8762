package testutil

import (
	"context"
	"sync"

	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
)

// InMemoryBlobStore implements blob.Store over a map.
type InMemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{
		blobs: make(map[string][]byte),
	}
}

func (s *InMemoryBlobStore) UploadReceipt(ctx context.Context, name string, data []byte) (string, error) {
	ref := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RECEIPT)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (s *InMemoryBlobStore) DeleteReceipt(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[ref]; !ok {
		return ierr.NewError("receipt not found").
			WithHintf("No receipt stored under %s", ref).
			Mark(ierr.ErrNotFound)
	}
	delete(s.blobs, ref)
	return nil
}

// Len reports how many receipts are stored.
func (s *InMemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Exists reports whether a receipt is still stored under ref.
func (s *InMemoryBlobStore) Exists(ref string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[ref]
	return ok
}

func (s *InMemoryBlobStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = make(map[string][]byte)
}
