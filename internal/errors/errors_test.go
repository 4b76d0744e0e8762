package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkedErrorsMatchSentinels(t *testing.T) {
	err := NewError("invoice inv_01 not found").
		WithHint("Invoice was not found").
		Mark(ErrNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))

	wrapped := WithError(err).
		WithMessage("loading invoice").
		Mark(ErrDatabase)
	assert.True(t, IsNotFound(wrapped))
	assert.True(t, errors.Is(wrapped, ErrDatabase))
}

func TestDomainSentinelCodes(t *testing.T) {
	// the settled-invoice refusal keeps the legacy wire code
	assert.Equal(t, "already-paid", ErrAlreadyPaid.Code)
	assert.Equal(t, "credit_limit_exceeded", ErrCreditLimitExceeded.Code)
	assert.Equal(t, "operation_conflicted", ErrOperationConflicted.Code)
}

func TestHTTPStatusFromErr(t *testing.T) {
	cases := map[error]int{
		NewError("x").Mark(ErrNotFound):            http.StatusNotFound,
		NewError("x").Mark(ErrValidation):          http.StatusBadRequest,
		NewError("x").Mark(ErrCreditLimitExceeded): http.StatusUnprocessableEntity,
		NewError("x").Mark(ErrAlreadyPaid):         http.StatusConflict,
		NewError("x").Mark(ErrVersionConflict):     http.StatusConflict,
		NewError("x").Mark(ErrTimeout):             http.StatusRequestTimeout,
		errors.New("unmarked"):                     http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatusFromErr(err))
	}
}

func TestNewErrorResponse(t *testing.T) {
	err := NewError("credit limit exceeded").
		WithHint("Invoice of 300 exceeds the available credit of 200").
		WithReportableDetails(map[string]any{
			"available": "200",
			"requested": "300",
		}).
		Mark(ErrCreditLimitExceeded)

	resp := NewErrorResponse(err)
	require.NotNil(t, resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error.Display, "available credit of 200")
	assert.Equal(t, "200", resp.Error.Details["available"])
	assert.Equal(t, "300", resp.Error.Details["requested"])

	assert.Nil(t, NewErrorResponse(nil))
}

func TestBuilderAccumulatesDetailsIntoOnePayload(t *testing.T) {
	err := NewError("invoice is not payable").
		WithHint("Invoice inv_01 cannot accept payments").
		WithDetail("invoice_id", "inv_01").
		WithDetailf("invoice_status", "%s", "cancelled").
		WithReportableDetails(map[string]any{
			"provider_id": "prov_01",
		}).
		Mark(ErrInvoiceNotPayable)

	resp := NewErrorResponse(err)
	require.NotNil(t, resp)
	assert.Equal(t, "inv_01", resp.Error.Details["invoice_id"])
	assert.Equal(t, "cancelled", resp.Error.Details["invoice_status"])
	assert.Equal(t, "prov_01", resp.Error.Details["provider_id"])
}

func TestBuilderErrFinalizesWithoutSentinel(t *testing.T) {
	err := NewError("upstream unavailable").
		WithDetail("attempts", 3).
		Err()

	require.Error(t, err)
	assert.False(t, IsNotFound(err))

	resp := NewErrorResponse(err)
	require.NotNil(t, resp)
	assert.Equal(t, float64(3), resp.Error.Details["attempts"])
}
