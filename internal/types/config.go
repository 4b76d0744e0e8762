package types

import (
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/samber/lo"
)

// LogLevel is the level of the log
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) String() string {
	return string(l)
}

func (l LogLevel) Validate() error {
	allowed := []LogLevel{
		LogLevelDebug,
		LogLevelInfo,
		LogLevelWarn,
		LogLevelError,
	}
	if !lo.Contains(allowed, l) {
		return ierr.NewError("invalid log level").
			WithHint("Please provide a valid log level").
			WithDetail("allowed", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}
