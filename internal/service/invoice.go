package service

import (
	"context"
	"time"

	"github.com/credlane/credlane/internal/api/dto"
	"github.com/credlane/credlane/internal/domain/invoice"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/ledger"
	"github.com/credlane/credlane/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceService manages the invoice lifecycle. Every operation that
// changes an amount runs the credit check against a transactional
// snapshot, so concurrent invoicing can never admit more pending debt
// than the account's ceiling.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)

	// Item edits are permitted on pending invoices only. Edits that grow
	// the total re-run the credit check.
	AddItem(ctx context.Context, invoiceID string, req *dto.CreateLineItemRequest) (*dto.InvoiceResponse, error)
	UpdateItem(ctx context.Context, invoiceID, itemID string, req *dto.UpdateLineItemRequest) (*dto.InvoiceResponse, error)
	RemoveItem(ctx context.Context, invoiceID, itemID string) (*dto.InvoiceResponse, error)

	UpdateDueDate(ctx context.Context, invoiceID string, dueDate time.Time) (*dto.InvoiceResponse, error)
	CancelInvoice(ctx context.Context, invoiceID, reason string) (*dto.InvoiceResponse, error)

	// ListOverdue reports pending invoices past their due date at call
	// time. Overdue is derived, never stored.
	ListOverdue(ctx context.Context, providerID string) (*dto.ListInvoicesResponse, error)

	InvoiceSummary(ctx context.Context, providerID string) (*dto.InvoiceSummaryResponse, error)
	InvoiceStats(ctx context.Context, providerID string) (*dto.InvoiceStatsResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv := req.ToInvoice(ctx)
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		acct, err := s.AccountRepo.Get(ctx, inv.AccountID)
		if err != nil {
			return err
		}

		pending, err := pendingInvoiceTotal(ctx, s.InvoiceRepo, inv.AccountID)
		if err != nil {
			return err
		}

		available := acct.CreditLimit.Sub(pending)
		if inv.TotalAmount.GreaterThan(available) {
			return creditLimitExceeded(acct.CreditLimit, pending, available, inv.TotalAmount)
		}

		return s.InvoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"account_id", inv.AccountID,
		"total_amount", inv.TotalAmount,
	)
	s.postAudit(ctx, types.ActivityTypeCreate, types.EntityTypeInvoice, inv.ID,
		"created invoice "+inv.Number, types.Metadata{
			"account_id":   inv.AccountID,
			"total_amount": inv.TotalAmount.String(),
		})

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListInvoicesResponse{
		Items: make([]*dto.InvoiceResponse, len(invoices)),
		Total: count,
	}
	for i, inv := range invoices {
		resp.Items[i] = dto.NewInvoiceResponse(inv)
	}
	return resp, nil
}

func (s *invoiceService) AddItem(ctx context.Context, invoiceID string, req *dto.CreateLineItemRequest) (*dto.InvoiceResponse, error) {
	item := req.ToLineItem()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	return s.mutateItems(ctx, invoiceID, "added item to invoice", func(inv *invoice.Invoice) error {
		inv.LineItems = append(inv.LineItems, item)
		return nil
	})
}

func (s *invoiceService) UpdateItem(ctx context.Context, invoiceID, itemID string, req *dto.UpdateLineItemRequest) (*dto.InvoiceResponse, error) {
	return s.mutateItems(ctx, invoiceID, "updated invoice item", func(inv *invoice.Invoice) error {
		item := inv.FindItem(itemID)
		if item == nil {
			return itemNotFound(invoiceID, itemID)
		}

		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.UnitPrice != nil {
			item.UnitPrice = *req.UnitPrice
		}
		return item.Validate()
	})
}

func (s *invoiceService) RemoveItem(ctx context.Context, invoiceID, itemID string) (*dto.InvoiceResponse, error) {
	return s.mutateItems(ctx, invoiceID, "removed invoice item", func(inv *invoice.Invoice) error {
		if inv.FindItem(itemID) == nil {
			return itemNotFound(invoiceID, itemID)
		}
		if len(inv.LineItems) == 1 {
			return ierr.NewError("cannot remove last item").
				WithHint("An invoice must keep at least one item; cancel the invoice instead").
				Mark(ierr.ErrInvalidOperation)
		}

		items := make([]*invoice.LineItem, 0, len(inv.LineItems)-1)
		for _, item := range inv.LineItems {
			if item.ID != itemID {
				items = append(items, item)
			}
		}
		inv.LineItems = items
		return nil
	})
}

// mutateItems runs an item edit inside a transaction: it re-reads the
// invoice, applies the edit, re-derives every total, and re-runs the
// credit check whenever the total grew.
func (s *invoiceService) mutateItems(ctx context.Context, invoiceID, auditDescription string, edit func(inv *invoice.Invoice) error) (*dto.InvoiceResponse, error) {
	var inv *invoice.Invoice

	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !inv.IsMutable() {
			return immutableInvoice(inv)
		}

		previousTotal := inv.TotalAmount
		if err := edit(inv); err != nil {
			return err
		}
		inv.Recalculate()

		if inv.TotalAmount.GreaterThan(previousTotal) {
			acct, err := s.AccountRepo.Get(ctx, inv.AccountID)
			if err != nil {
				return err
			}
			pending, err := pendingInvoiceTotal(ctx, s.InvoiceRepo, inv.AccountID)
			if err != nil {
				return err
			}

			// The snapshot still carries this invoice at its previous
			// total; substitute the edited one before comparing.
			effectivePending := pending.Sub(previousTotal).Add(inv.TotalAmount)
			if effectivePending.GreaterThan(acct.CreditLimit) {
				available := acct.CreditLimit.Sub(pending)
				return creditLimitExceeded(acct.CreditLimit, pending, available, inv.TotalAmount.Sub(previousTotal))
			}
		}

		inv.UpdatedBy = types.GetUserID(ctx)
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.postAudit(ctx, types.ActivityTypeUpdate, types.EntityTypeInvoice, inv.ID,
		auditDescription, types.Metadata{
			"total_amount": inv.TotalAmount.String(),
		})

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) UpdateDueDate(ctx context.Context, invoiceID string, dueDate time.Time) (*dto.InvoiceResponse, error) {
	if dueDate.IsZero() {
		return nil, ierr.NewError("invalid due date").
			WithHint("Due date is required").
			Mark(ierr.ErrValidation)
	}

	var inv *invoice.Invoice
	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !inv.IsMutable() {
			return immutableInvoice(inv)
		}

		inv.DueDate = dueDate
		inv.UpdatedBy = types.GetUserID(ctx)
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.postAudit(ctx, types.ActivityTypeUpdate, types.EntityTypeInvoice, inv.ID,
		"updated invoice due date", types.Metadata{
			"due_date": dueDate.Format(time.RFC3339),
		})

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID, reason string) (*dto.InvoiceResponse, error) {
	var inv *invoice.Invoice

	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !inv.InvoiceStatus.CanTransitionTo(types.InvoiceStatusCancelled) {
			return ierr.NewError("invoice is not pending").
				WithHintf("Only pending invoices can be cancelled; invoice is %s", inv.InvoiceStatus).
				WithReportableDetails(map[string]any{
					"invoice_id":     inv.ID,
					"invoice_status": inv.InvoiceStatus,
				}).
				Mark(ierr.ErrInvoiceNotPending)
		}

		now := time.Now().UTC()
		inv.InvoiceStatus = types.InvoiceStatusCancelled
		inv.CancellationReason = reason
		inv.CancelledBy = types.GetUserID(ctx)
		inv.CancelledAt = &now
		inv.UpdatedBy = types.GetUserID(ctx)
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled invoice", "invoice_id", inv.ID, "reason", reason)
	s.postAudit(ctx, types.ActivityTypeCancel, types.EntityTypeInvoice, inv.ID,
		"cancelled invoice "+inv.Number, types.Metadata{
			"reason": reason,
		})

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListOverdue(ctx context.Context, providerID string) (*dto.ListInvoicesResponse, error) {
	invoices, err := s.InvoiceRepo.ListOverdue(ctx, providerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	resp := &dto.ListInvoicesResponse{
		Items: make([]*dto.InvoiceResponse, len(invoices)),
		Total: len(invoices),
	}
	for i, inv := range invoices {
		resp.Items[i] = dto.NewInvoiceResponse(inv)
	}
	return resp, nil
}

func (s *invoiceService) InvoiceSummary(ctx context.Context, providerID string) (*dto.InvoiceSummaryResponse, error) {
	invoices, err := s.listByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summary := &dto.InvoiceSummaryResponse{Total: len(invoices)}
	for _, inv := range invoices {
		switch inv.DerivedStatus(now) {
		case types.InvoiceStatusPaid:
			summary.Paid++
		case types.InvoiceStatusPending:
			summary.Pending++
		case types.InvoiceStatusOverdue:
			summary.Overdue++
		}
	}
	return summary, nil
}

func (s *invoiceService) InvoiceStats(ctx context.Context, providerID string) (*dto.InvoiceStatsResponse, error) {
	invoices, err := s.listByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stats := &dto.InvoiceStatsResponse{
		TotalValue:   decimal.Zero,
		PaidValue:    decimal.Zero,
		PendingValue: decimal.Zero,
		OverdueValue: decimal.Zero,
	}

	paymentDays := 0
	paidWithDate := 0
	for _, inv := range invoices {
		if inv.InvoiceStatus == types.InvoiceStatusCancelled {
			continue
		}
		stats.TotalInvoices++
		stats.TotalValue = stats.TotalValue.Add(inv.TotalAmount)

		switch inv.DerivedStatus(now) {
		case types.InvoiceStatusPaid:
			stats.PaidValue = stats.PaidValue.Add(inv.TotalAmount)
			if inv.PaidAt != nil {
				paymentDays += int(inv.PaidAt.Sub(inv.InvoiceDate).Hours() / 24)
				paidWithDate++
			}
		case types.InvoiceStatusPending:
			stats.PendingValue = stats.PendingValue.Add(inv.TotalAmount)
		case types.InvoiceStatusOverdue:
			stats.OverdueValue = stats.OverdueValue.Add(inv.TotalAmount)
		}
	}
	if paidWithDate > 0 {
		stats.AveragePaymentDays = paymentDays / paidWithDate
	}
	return stats, nil
}

func (s *invoiceService) listByProvider(ctx context.Context, providerID string) ([]*invoice.Invoice, error) {
	filter := types.NewNoLimitInvoiceFilter()
	filter.ProviderID = providerID
	return s.InvoiceRepo.List(ctx, filter)
}

func creditLimitExceeded(limit, pending, available, requested decimal.Decimal) error {
	return ierr.NewError("credit limit exceeded").
		WithHintf("Invoice of %s exceeds the available credit of %s", requested.String(), available.String()).
		WithReportableDetails(map[string]any{
			"credit_limit":  limit.String(),
			"pending_total": pending.String(),
			"available":     available.String(),
			"requested":     requested.String(),
		}).
		Mark(ierr.ErrCreditLimitExceeded)
}

func immutableInvoice(inv *invoice.Invoice) error {
	return ierr.NewError("invoice is immutable").
		WithHintf("Invoice is %s and can no longer be edited", inv.InvoiceStatus).
		WithReportableDetails(map[string]any{
			"invoice_id":     inv.ID,
			"invoice_status": inv.InvoiceStatus,
		}).
		Mark(ierr.ErrImmutableInvoice)
}

func itemNotFound(invoiceID, itemID string) error {
	return ierr.NewError("item not found").
		WithHintf("Invoice has no item %s", itemID).
		WithReportableDetails(map[string]any{
			"invoice_id": invoiceID,
			"item_id":    itemID,
		}).
		Mark(ierr.ErrNotFound)
}
