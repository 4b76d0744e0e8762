package ledger

import (
	"context"
)

// Client is the transactional contract the engine requires from the
// ledger store. Implementations must provide per-document optimistic
// concurrency: every document read inside a transaction is validated
// against its commit-time version, and if two transactions with
// overlapping read sets both attempt conflicting writes, at most one
// commits. The loser fails with a version_conflict error and the whole
// callback is expected to be retried from scratch (see Run).
type Client interface {
	// WithTx runs fn inside a single atomic transaction. All reads made
	// through repositories bound to the transactional context observe a
	// consistent snapshot, and all writes commit together or not at all.
	// If the context already carries a transaction it is reused; the
	// outer call owns commit and rollback.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ContextKey is the key type for transaction handles stored in context
type ContextKey string

// CtxTransaction carries the implementation-specific transaction handle
const CtxTransaction ContextKey = "ctx_ledger_transaction"
