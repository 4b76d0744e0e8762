package dto

import (
	"context"
	"time"

	"github.com/credlane/credlane/internal/domain/invoice"
	"github.com/credlane/credlane/internal/types"
	"github.com/credlane/credlane/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest carries the inputs for raising a new invoice
type CreateInvoiceRequest struct {
	AccountID   string    `json:"account_id" validate:"required"`
	ProviderID  string    `json:"provider_id" validate:"required"`
	InvoiceDate time.Time `json:"invoice_date" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	// The declared total; must match the recomputed sum of item totals
	// within the standard epsilon
	TotalAmount decimal.Decimal         `json:"total_amount"`
	Items       []CreateLineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateLineItemRequest carries one billable line
type CreateLineItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (r *CreateInvoiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToInvoice builds the domain invoice with server-assigned ids. The
// stored timestamps are commit-time values, not caller-submitted ones.
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		Number:        types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE_NUMBER),
		AccountID:     r.AccountID,
		ProviderID:    r.ProviderID,
		InvoiceDate:   r.InvoiceDate,
		DueDate:       r.DueDate,
		TotalAmount:   r.TotalAmount,
		InvoiceStatus: types.InvoiceStatusPending,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	inv.LineItems = make([]*invoice.LineItem, len(r.Items))
	for i, item := range r.Items {
		inv.LineItems[i] = item.ToLineItem()
	}
	return inv
}

// ToLineItem builds the domain line item with a stable server-assigned id
func (r *CreateLineItemRequest) ToLineItem() *invoice.LineItem {
	return &invoice.LineItem{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Total:       r.Quantity.Mul(r.UnitPrice),
	}
}

// UpdateLineItemRequest carries a partial line item edit
type UpdateLineItemRequest struct {
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// InvoiceResponse represents an invoice in API responses. DisplayStatus
// carries the read-time overdue derivation; the stored status never
// holds overdue.
type InvoiceResponse struct {
	*invoice.Invoice
	DisplayStatus types.InvoiceStatus `json:"display_status"`
}

// NewInvoiceResponse creates a new invoice response
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		Invoice:       inv,
		DisplayStatus: inv.DerivedStatus(time.Now().UTC()),
	}
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}

// InvoiceSummaryResponse counts a provider's invoices by display status
type InvoiceSummaryResponse struct {
	Total   int `json:"total"`
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
	Overdue int `json:"overdue"`
}

// InvoiceStatsResponse aggregates invoice value for a provider dashboard
type InvoiceStatsResponse struct {
	TotalInvoices      int             `json:"total_invoices"`
	TotalValue         decimal.Decimal `json:"total_value"`
	PaidValue          decimal.Decimal `json:"paid_value"`
	PendingValue       decimal.Decimal `json:"pending_value"`
	OverdueValue       decimal.Decimal `json:"overdue_value"`
	AveragePaymentDays int             `json:"average_payment_days"`
}
