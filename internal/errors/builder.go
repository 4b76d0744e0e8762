package errors

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder provides a fluent interface for building errors
// but does not implement the error interface. This is intentional.
// Mark must be the last call in the chain when using the builder.
//
// Details accumulate in the builder and are attached once, when the
// chain is finalized, so WithDetail calls spread across a chain end up
// in a single reportable payload.
type ErrorBuilder struct {
	err     error
	details map[string]any
}

// NewError starts a new error builder chain
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

// WithError starts a builder chain with an existing error
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage adds context to the error
// this is for the internal error messages
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint adds context to the error
// this is for the frontend error messages
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

// WithHintf is a helper for WithHint that allows for formatting
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithDetail adds a single reportable detail
func (b *ErrorBuilder) WithDetail(key string, value any) *ErrorBuilder {
	b.detail(key, value)
	return b
}

// WithDetailf is a helper for WithDetail that allows for formatting
func (b *ErrorBuilder) WithDetailf(key string, format string, args ...any) *ErrorBuilder {
	b.detail(key, fmt.Sprintf(format, args...))
	return b
}

// WithReportableDetails adds a batch of structured details
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	for k, v := range details {
		b.detail(k, v)
	}
	return b
}

func (b *ErrorBuilder) detail(key string, value any) {
	if b.details == nil {
		b.details = make(map[string]any)
	}
	b.details[key] = value
}

// Mark marks the error with a sentinel error
// should be the last call in the chain
func (b *ErrorBuilder) Mark(reference error) error {
	b.flushDetails()
	b.err = errors.Mark(b.err, reference)
	return b.err
}

// Err finalizes the chain without marking a sentinel
func (b *ErrorBuilder) Err() error {
	b.flushDetails()
	return b.err
}

func (b *ErrorBuilder) flushDetails() {
	if len(b.details) == 0 {
		return
	}
	if marshaled, err := json.Marshal(b.details); err == nil {
		b.err = errors.WithSafeDetails(b.err, "__json__:%s", errors.Safe(string(marshaled)))
	}
	b.details = nil
}
