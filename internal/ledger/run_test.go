package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/credlane/credlane/internal/config"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient fails WithTx with the scripted errors in order, then
// succeeds.
type scriptedClient struct {
	calls int
	errs  []error
}

func (c *scriptedClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	if c.calls <= len(c.errs) {
		return c.errs[c.calls-1]
	}
	return fn(ctx)
}

func conflictErr() error {
	return ierr.NewError("transaction conflicted").Mark(ierr.ErrVersionConflict)
}

func testConfig() config.LedgerConfig {
	return config.LedgerConfig{
		MaxTxRetries:         3,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     5 * time.Millisecond,
		TxTimeout:            time.Second,
	}
}

func testLogger(t *testing.T) *logger.Logger {
	log, err := logger.NewLogger(config.GetDefaultConfig())
	require.NoError(t, err)
	return log
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := timeAfter
	timeAfter = func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}
	t.Cleanup(func() { timeAfter = orig })
}

func TestRunSucceedsFirstAttempt(t *testing.T) {
	client := &scriptedClient{}

	ran := 0
	err := Run(context.Background(), client, testLogger(t), testConfig(), func(ctx context.Context) error {
		ran++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 1, ran)
}

func TestRunRetriesOnVersionConflict(t *testing.T) {
	noSleep(t)
	client := &scriptedClient{errs: []error{conflictErr(), conflictErr()}}

	err := Run(context.Background(), client, testLogger(t), testConfig(), func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, client.calls)
}

func TestRunExhaustsRetries(t *testing.T) {
	noSleep(t)
	client := &scriptedClient{errs: []error{
		conflictErr(), conflictErr(), conflictErr(), conflictErr(), conflictErr(),
	}}

	err := Run(context.Background(), client, testLogger(t), testConfig(), func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, ierr.IsOperationConflicted(err))
	// initial attempt plus MaxTxRetries
	assert.Equal(t, 4, client.calls)
}

func TestRunDoesNotRetryOtherErrors(t *testing.T) {
	boom := errors.New("storage unreachable")
	client := &scriptedClient{errs: []error{boom}}

	err := Run(context.Background(), client, testLogger(t), testConfig(), func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, client.calls)
}

func TestRunDoesNotRetryCallbackErrors(t *testing.T) {
	client := &scriptedClient{}

	sentinel := ierr.NewError("credit limit exceeded").Mark(ierr.ErrCreditLimitExceeded)
	err := Run(context.Background(), client, testLogger(t), testConfig(), func(ctx context.Context) error {
		return sentinel
	})
	require.Error(t, err)
	assert.True(t, ierr.IsCreditLimitExceeded(err))
	assert.Equal(t, 1, client.calls)
}

func TestRunSurfacesTimeout(t *testing.T) {
	noSleep(t)

	cfg := testConfig()
	cfg.TxTimeout = time.Nanosecond
	client := &scriptedClient{errs: []error{conflictErr()}}

	err := Run(context.Background(), client, testLogger(t), cfg, func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, ierr.IsTimeout(err))
}
