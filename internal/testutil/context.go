package testutil

import (
	"context"

	"github.com/credlane/credlane/internal/types"
)

// TestUserID is the acting user stamped on every test context
const TestUserID = "user_test_01"

// SetupContext returns a context carrying a test actor and request id
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, TestUserID)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
