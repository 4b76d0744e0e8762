package ledger

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/credlane/credlane/internal/config"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/logger"
)

// Run executes fn inside a ledger transaction, retrying the whole
// callback from scratch on version conflicts. The callback must be a
// pure function of the state it reads inside the transaction: on retry
// it re-reads everything and re-validates its invariants, so a decision
// taken against stale state is never committed.
//
// Retries are bounded by cfg.MaxTxRetries with exponential backoff.
// Exhausted retries surface as operation_conflicted; a cancelled or
// expired context surfaces as timeout. In both cases nothing was
// partially written.
func Run(ctx context.Context, client Client, log *logger.Logger, cfg config.LedgerConfig, fn func(ctx context.Context) error) error {
	if cfg.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TxTimeout)
		defer cancel()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.RetryInitialInterval
	bo.MaxInterval = cfg.RetryMaxInterval
	bo.Reset()

	var err error
	for attempt := 0; ; attempt++ {
		err = client.WithTx(ctx, fn)
		if err == nil {
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ierr.WithError(ctxErr).
				WithHint("The operation timed out before it could commit").
				Mark(ierr.ErrTimeout)
		}

		if !ierr.IsVersionConflict(err) {
			return err
		}

		if attempt >= cfg.MaxTxRetries {
			break
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			break
		}

		log.Debugw("retrying conflicted ledger transaction",
			"attempt", attempt+1,
			"max_retries", cfg.MaxTxRetries,
			"backoff", wait,
		)

		select {
		case <-ctx.Done():
			return ierr.WithError(ctx.Err()).
				WithHint("The operation timed out before it could commit").
				Mark(ierr.ErrTimeout)
		case <-timeAfter(wait):
		}
	}

	return ierr.WithError(err).
		WithHintf("The operation conflicted with concurrent changes %d times", cfg.MaxTxRetries+1).
		Mark(ierr.ErrOperationConflicted)
}
