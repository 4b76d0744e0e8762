package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/ledger"
	"github.com/samber/lo"
)

// conflictStore is the non-generic surface a transaction needs from a
// store at commit time.
type conflictStore interface {
	versionOf(key string) int64
	scanVersionOf() int64
	applyStaged(key string, e stagedEntry)
}

type stagedKey struct {
	store conflictStore
	key   string
}

type stagedEntry struct {
	value   any
	deleted bool
}

// txn buffers one transaction's reads and writes across every store it
// touches. Reads record the version observed; scans record the store's
// scan version, so an insert or delete by a concurrent transaction
// invalidates any scan that could have missed it. Commit validates both
// against live state and applies the buffered writes only if all of
// them still hold.
type txn struct {
	mu     sync.Mutex
	reads  map[stagedKey]int64
	scans  map[conflictStore]int64
	staged map[stagedKey]stagedEntry
}

func newTxn() *txn {
	return &txn{
		reads:  make(map[stagedKey]int64),
		scans:  make(map[conflictStore]int64),
		staged: make(map[stagedKey]stagedEntry),
	}
}

func txnFromContext(ctx context.Context) *txn {
	if t, ok := ctx.Value(ledger.CtxTransaction).(*txn); ok {
		return t
	}
	return nil
}

// InMemoryStore is a generic versioned key-value store with optimistic
// concurrency. Inside a transaction, reads see the transaction's own
// staged writes first and stamp the observed version of everything else;
// outside a transaction, reads and writes hit live state directly.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	// versions survive deletion so a delete-recreate cycle still
	// invalidates concurrent readers
	versions map[string]int64
	// scanVersion advances on every change to the key set (insert of a
	// new key, delete of an existing one). Scans stamp it, which makes
	// it a coarse predicate lock: a transaction that scanned this store
	// conflicts with any commit that added or removed keys, even keys
	// the scan never returned.
	scanVersion int64
	clone       func(T) T
}

// NewInMemoryStore creates a store. clone must return an independent
// copy so staged and returned values never alias live state.
func NewInMemoryStore[T any](clone func(T) T) *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items:    make(map[string]T),
		versions: make(map[string]int64),
		clone:    clone,
	}
}

// Get returns the value for key and whether it exists.
func (s *InMemoryStore[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	if t := txnFromContext(ctx); t != nil {
		sk := stagedKey{store: s, key: key}

		t.mu.Lock()
		if e, ok := t.staged[sk]; ok {
			t.mu.Unlock()
			if e.deleted {
				return zero, false
			}
			return s.clone(e.value.(T)), true
		}
		t.mu.Unlock()

		s.mu.RLock()
		value, ok := s.items[key]
		version := s.versions[key]
		s.mu.RUnlock()

		t.mu.Lock()
		if _, seen := t.reads[sk]; !seen {
			t.reads[sk] = version
		}
		t.mu.Unlock()

		if !ok {
			return zero, false
		}
		return s.clone(value), true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	if !ok {
		return zero, false
	}
	return s.clone(value), true
}

// Set writes the value for key. Inside a transaction the write is
// staged; the key's version is stamped so a concurrent committed write
// conflicts this transaction.
func (s *InMemoryStore[T]) Set(ctx context.Context, key string, value T) {
	if t := txnFromContext(ctx); t != nil {
		sk := stagedKey{store: s, key: key}

		s.mu.RLock()
		version := s.versions[key]
		s.mu.RUnlock()

		t.mu.Lock()
		if _, seen := t.reads[sk]; !seen {
			t.reads[sk] = version
		}
		t.staged[sk] = stagedEntry{value: s.clone(value)}
		t.mu.Unlock()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		s.scanVersion++
	}
	s.items[key] = s.clone(value)
	s.versions[key]++
}

// Delete removes the value for key.
func (s *InMemoryStore[T]) Delete(ctx context.Context, key string) {
	if t := txnFromContext(ctx); t != nil {
		sk := stagedKey{store: s, key: key}

		s.mu.RLock()
		version := s.versions[key]
		s.mu.RUnlock()

		t.mu.Lock()
		if _, seen := t.reads[sk]; !seen {
			t.reads[sk] = version
		}
		t.staged[sk] = stagedEntry{deleted: true}
		t.mu.Unlock()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; exists {
		s.scanVersion++
	}
	delete(s.items, key)
	s.versions[key]++
}

// All returns every value, merged with the ambient transaction's staged
// writes, in stable key order. Inside a transaction the store's scan
// version is stamped so a concurrent insert of a key this scan never
// saw still conflicts the transaction at commit.
func (s *InMemoryStore[T]) All(ctx context.Context) []T {
	s.mu.RLock()
	keys := lo.Keys(s.items)
	scanVersion := s.scanVersion
	s.mu.RUnlock()

	if t := txnFromContext(ctx); t != nil {
		t.mu.Lock()
		if _, seen := t.scans[conflictStore(s)]; !seen {
			t.scans[conflictStore(s)] = scanVersion
		}
		for sk := range t.staged {
			if sk.store == conflictStore(s) {
				keys = append(keys, sk.key)
			}
		}
		t.mu.Unlock()
		keys = lo.Uniq(keys)
	}
	sort.Strings(keys)

	out := make([]T, 0, len(keys))
	for _, key := range keys {
		if value, ok := s.Get(ctx, key); ok {
			out = append(out, value)
		}
	}
	return out
}

// Clear drops all state. For test setup only.
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
	s.versions = make(map[string]int64)
	s.scanVersion = 0
}

func (s *InMemoryStore[T]) versionOf(key string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[key]
}

func (s *InMemoryStore[T]) scanVersionOf() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanVersion
}

func (s *InMemoryStore[T]) applyStaged(key string, e stagedEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.items[key]
	if e.deleted {
		if exists {
			s.scanVersion++
		}
		delete(s.items, key)
	} else {
		if !exists {
			s.scanVersion++
		}
		s.items[key] = e.value.(T)
	}
	s.versions[key]++
}

// InMemoryLedger implements ledger.Client over InMemoryStore instances.
// Commit validates every stamped read and scan against live state and
// applies the staged writes atomically; a stale read or an invalidated
// scan fails the whole transaction with a version conflict and nothing
// is written.
type InMemoryLedger struct {
	commitMu sync.Mutex

	// forcedConflicts injects commit-time version conflicts for retry
	// path tests
	forcedConflicts int
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{}
}

// ForceConflicts makes the next n commits fail with a version conflict.
func (l *InMemoryLedger) ForceConflicts(n int) {
	l.commitMu.Lock()
	defer l.commitMu.Unlock()
	l.forcedConflicts = n
}

func (l *InMemoryLedger) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the ambient transaction; the outer call commits
	if txnFromContext(ctx) != nil {
		return fn(ctx)
	}

	t := newTxn()
	if err := fn(context.WithValue(ctx, ledger.CtxTransaction, t)); err != nil {
		return err
	}
	return l.commit(t)
}

func (l *InMemoryLedger) commit(t *txn) error {
	l.commitMu.Lock()
	defer l.commitMu.Unlock()

	if l.forcedConflicts > 0 {
		l.forcedConflicts--
		return ierr.NewError("transaction conflicted").
			WithHint("A concurrent transaction committed first").
			Mark(ierr.ErrVersionConflict)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for sk, version := range t.reads {
		if sk.store.versionOf(sk.key) != version {
			return ierr.NewError("transaction read stale data").
				WithHint("A concurrent transaction committed first").
				Mark(ierr.ErrVersionConflict)
		}
	}
	for cs, scanVersion := range t.scans {
		if cs.scanVersionOf() != scanVersion {
			return ierr.NewError("transaction scan invalidated").
				WithHint("A concurrent transaction committed first").
				Mark(ierr.ErrVersionConflict)
		}
	}
	for sk, e := range t.staged {
		sk.store.applyStaged(sk.key, e)
	}
	return nil
}
