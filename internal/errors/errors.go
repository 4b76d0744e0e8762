package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the engine
var (
	ErrNotFound            = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists       = new(ErrCodeAlreadyExists, "resource already exists")
	ErrVersionConflict     = new(ErrCodeVersionConflict, "version conflict")
	ErrValidation          = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation    = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied    = new(ErrCodePermissionDenied, "permission denied")
	ErrDatabase            = new(ErrCodeDatabase, "database error")
	ErrSystem              = new(ErrCodeSystemError, "system error")
	ErrTimeout             = new(ErrCodeTimeout, "operation timed out")
	ErrCreditLimitExceeded = new(ErrCodeCreditLimitExceeded, "credit limit exceeded")
	ErrAmountMismatch      = new(ErrCodeAmountMismatch, "amount mismatch")
	ErrImmutableInvoice    = new(ErrCodeImmutableInvoice, "invoice is immutable")
	ErrInvoiceNotPending   = new(ErrCodeInvoiceNotPending, "invoice is not pending")
	ErrAlreadyPaid         = new(ErrCodeAlreadyPaid, "invoice is already paid")
	ErrInvoiceNotPayable   = new(ErrCodeInvoiceNotPayable, "invoice is not payable")
	ErrRequestNotPending   = new(ErrCodeRequestNotPending, "credit request is not pending")
	ErrInvalidLimit        = new(ErrCodeInvalidLimit, "invalid credit limit")
	ErrOperationConflicted = new(ErrCodeOperationConflicted, "operation conflicted")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrDatabase:            http.StatusInternalServerError,
		ErrNotFound:            http.StatusNotFound,
		ErrAlreadyExists:       http.StatusConflict,
		ErrVersionConflict:     http.StatusConflict,
		ErrValidation:          http.StatusBadRequest,
		ErrInvalidOperation:    http.StatusBadRequest,
		ErrPermissionDenied:    http.StatusForbidden,
		ErrSystem:              http.StatusInternalServerError,
		ErrTimeout:             http.StatusRequestTimeout,
		ErrCreditLimitExceeded: http.StatusUnprocessableEntity,
		ErrAmountMismatch:      http.StatusBadRequest,
		ErrImmutableInvoice:    http.StatusConflict,
		ErrInvoiceNotPending:   http.StatusConflict,
		ErrAlreadyPaid:         http.StatusConflict,
		ErrInvoiceNotPayable:   http.StatusConflict,
		ErrRequestNotPending:   http.StatusConflict,
		ErrInvalidLimit:        http.StatusBadRequest,
		ErrOperationConflicted: http.StatusConflict,
	}
)

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeVersionConflict  = "version_conflict"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"
	ErrCodeTimeout          = "timeout"

	ErrCodeCreditLimitExceeded = "credit_limit_exceeded"
	ErrCodeAmountMismatch      = "amount_mismatch"
	ErrCodeImmutableInvoice    = "immutable_invoice"
	ErrCodeInvoiceNotPending   = "invoice_not_pending"
	// ErrCodeAlreadyPaid keeps the legacy wire code emitted by the first
	// generation of the payments API.
	ErrCodeAlreadyPaid         = "already-paid"
	ErrCodeInvoiceNotPayable   = "invoice_not_payable"
	ErrCodeRequestNotPending   = "request_not_pending"
	ErrCodeInvalidLimit        = "invalid_limit"
	ErrCodeOperationConflicted = "operation_conflicted"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict checks if an error is a version conflict error
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCreditLimitExceeded checks if an error is a credit limit refusal
func IsCreditLimitExceeded(err error) bool {
	return errors.Is(err, ErrCreditLimitExceeded)
}

// IsOperationConflicted checks if an error is a terminal conflict error
func IsOperationConflicted(err error) bool {
	return errors.Is(err, ErrOperationConflicted)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
