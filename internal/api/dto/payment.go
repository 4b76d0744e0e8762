package dto

import (
	"context"
	"time"

	"github.com/credlane/credlane/internal/domain/payment"
	"github.com/credlane/credlane/internal/types"
	"github.com/credlane/credlane/internal/validator"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest carries the inputs for applying a payment to an
// invoice
type RecordPaymentRequest struct {
	InvoiceID   string              `json:"invoice_id" validate:"required"`
	Amount      decimal.Decimal     `json:"amount"`
	PaymentDate time.Time           `json:"payment_date" validate:"required"`
	Method      types.PaymentMethod `json:"method" validate:"required"`
	// Opaque blob-store reference for a previously uploaded receipt
	ReceiptRef *string `json:"receipt_ref,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToPayment builds the domain payment from the request
func (r *RecordPaymentRequest) ToPayment(ctx context.Context) *payment.Payment {
	return &payment.Payment{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:   r.InvoiceID,
		Amount:      r.Amount,
		PaymentDate: r.PaymentDate,
		Method:      r.Method,
		ReceiptRef:  r.ReceiptRef,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// ReceiptUpload carries replacement receipt bytes for a payment amendment
type ReceiptUpload struct {
	Name string `json:"name" validate:"required"`
	Data []byte `json:"data" validate:"required"`
}

// UpdatePaymentRequest carries a partial payment amendment. The owning
// invoice can never be changed; an amount change re-derives the owning
// invoice's settlement status in the same transaction.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal     `json:"amount,omitempty"`
	PaymentDate *time.Time           `json:"payment_date,omitempty"`
	Method      *types.PaymentMethod `json:"method,omitempty"`
	Receipt     *ReceiptUpload       `json:"receipt,omitempty"`
}

func (r *UpdatePaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Method != nil {
		return r.Method.Validate()
	}
	return nil
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	*payment.Payment
}

// NewPaymentResponse creates a new payment response
func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{Payment: p}
}

// ListPaymentsResponse represents a paginated list of payments
type ListPaymentsResponse struct {
	Items []*PaymentResponse `json:"items"`
	Total int                `json:"total"`
}

// PaymentMethodStats aggregates one payment method's share
type PaymentMethodStats struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentStatsResponse aggregates payment volume for a provider dashboard
type PaymentStatsResponse struct {
	TotalPayments int                                        `json:"total_payments"`
	TotalAmount   decimal.Decimal                            `json:"total_amount"`
	ByMethod      map[types.PaymentMethod]PaymentMethodStats `json:"by_method"`
}
