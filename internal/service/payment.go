package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/credlane/credlane/internal/api/dto"
	"github.com/credlane/credlane/internal/domain/invoice"
	"github.com/credlane/credlane/internal/domain/payment"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/ledger"
	"github.com/credlane/credlane/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

// invoiceIDBatchSize bounds how many invoice ids a single payment list
// query may carry.
const invoiceIDBatchSize = 10

// PaymentService records and amends payments against invoices. Recording
// and amendment read the invoice and the paid-so-far sum inside the same
// transaction that writes the payment, so a settled invoice can never
// be unsettled by a concurrent write nor settled twice.
type PaymentService interface {
	RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)

	// UpdatePayment amends a payment in place. The owning invoice never
	// changes; an amount change re-derives the invoice's settlement
	// status in the same transaction.
	UpdatePayment(ctx context.Context, id string, req *dto.UpdatePaymentRequest) (*dto.PaymentResponse, error)

	ListByInvoice(ctx context.Context, invoiceID string) (*dto.ListPaymentsResponse, error)
	PaymentsForAccount(ctx context.Context, accountID string) (*dto.ListPaymentsResponse, error)
	PaymentsForProvider(ctx context.Context, providerID string) (*dto.ListPaymentsResponse, error)

	PaymentStats(ctx context.Context, providerID string) (*dto.PaymentStatsResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPayment(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var settled bool
	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		settled = false

		inv, err := s.InvoiceRepo.Get(ctx, p.InvoiceID)
		if err != nil {
			return err
		}
		if err := payableInvoice(inv); err != nil {
			return err
		}

		paidSoFar, err := s.PaymentRepo.SumByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}

		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}

		// Overpayment is accepted and recorded as-is; the invoice still
		// settles at the threshold.
		if paidSoFar.Add(p.Amount).GreaterThanOrEqual(inv.TotalAmount) {
			now := time.Now().UTC()
			inv.InvoiceStatus = types.InvoiceStatusPaid
			inv.PaidAt = &now
			inv.UpdatedBy = types.GetUserID(ctx)
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return err
			}
			settled = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded payment",
		"payment_id", p.ID,
		"invoice_id", p.InvoiceID,
		"amount", p.Amount,
		"settled", settled,
	)
	s.postAudit(ctx, types.ActivityTypeCreate, types.EntityTypePayment, p.ID,
		"recorded payment", types.Metadata{
			"invoice_id": p.InvoiceID,
			"amount":     p.Amount.String(),
		})

	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) UpdatePayment(ctx context.Context, id string, req *dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The replacement receipt is uploaded before the transaction; blob
	// writes cannot be rolled back, so the dangling side must always be
	// a receipt nobody references.
	var newRef *string
	if req.Receipt != nil {
		ref, err := s.Blob.UploadReceipt(ctx, req.Receipt.Name, req.Receipt.Data)
		if err != nil {
			return nil, err
		}
		newRef = &ref
	}

	var p *payment.Payment
	var oldRef *string
	err := ledger.Run(ctx, s.DB, s.Logger, s.Config.Ledger, func(ctx context.Context) error {
		var err error
		p, err = s.PaymentRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		oldRef = p.ReceiptRef
		amountChanged := req.Amount != nil && !req.Amount.Equal(p.Amount)

		if req.Amount != nil {
			p.Amount = *req.Amount
		}
		if req.PaymentDate != nil {
			p.PaymentDate = *req.PaymentDate
		}
		if req.Method != nil {
			p.Method = *req.Method
		}
		if newRef != nil {
			p.ReceiptRef = newRef
		}
		if err := p.Validate(); err != nil {
			return err
		}

		p.UpdatedBy = types.GetUserID(ctx)
		if err := s.PaymentRepo.Update(ctx, p); err != nil {
			return err
		}

		if amountChanged {
			return s.rederiveSettlement(ctx, p.InvoiceID)
		}
		return nil
	})
	if err != nil {
		if newRef != nil {
			s.discardReceipt(ctx, *newRef)
		}
		return nil, err
	}

	if newRef != nil && oldRef != nil {
		s.discardReceipt(ctx, *oldRef)
	}

	s.postAudit(ctx, types.ActivityTypeUpdate, types.EntityTypePayment, p.ID,
		"updated payment", types.Metadata{
			"invoice_id": p.InvoiceID,
			"amount":     p.Amount.String(),
		})

	return dto.NewPaymentResponse(p), nil
}

// rederiveSettlement recomputes the owning invoice's settlement status
// from the paid-so-far sum. Pending moves to paid when the sum reaches
// the total; paid moves back to pending when an amended amount drops the
// sum below it. Cancelled invoices are never touched.
func (s *paymentService) rederiveSettlement(ctx context.Context, invoiceID string) error {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv.InvoiceStatus == types.InvoiceStatusCancelled {
		return nil
	}

	paid, err := s.PaymentRepo.SumByInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	switch {
	case inv.InvoiceStatus == types.InvoiceStatusPending && paid.GreaterThanOrEqual(inv.TotalAmount):
		now := time.Now().UTC()
		inv.InvoiceStatus = types.InvoiceStatusPaid
		inv.PaidAt = &now
	case inv.InvoiceStatus == types.InvoiceStatusPaid && paid.LessThan(inv.TotalAmount):
		inv.InvoiceStatus = types.InvoiceStatusPending
		inv.PaidAt = nil
	default:
		return nil
	}

	inv.UpdatedBy = types.GetUserID(ctx)
	return s.InvoiceRepo.Update(ctx, inv)
}

func (s *paymentService) ListByInvoice(ctx context.Context, invoiceID string) (*dto.ListPaymentsResponse, error) {
	payments, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return newListPaymentsResponse(payments), nil
}

func (s *paymentService) PaymentsForAccount(ctx context.Context, accountID string) (*dto.ListPaymentsResponse, error) {
	filter := types.NewNoLimitInvoiceFilter()
	filter.AccountID = accountID
	return s.paymentsForInvoices(ctx, filter)
}

func (s *paymentService) PaymentsForProvider(ctx context.Context, providerID string) (*dto.ListPaymentsResponse, error) {
	filter := types.NewNoLimitInvoiceFilter()
	filter.ProviderID = providerID
	return s.paymentsForInvoices(ctx, filter)
}

// paymentsForInvoices fans out over the owning invoices in bounded id
// batches. Read-only; no transaction needed.
func (s *paymentService) paymentsForInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListPaymentsResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return newListPaymentsResponse(nil), nil
	}

	invoiceIDs := lo.Map(invoices, func(inv *invoice.Invoice, _ int) string {
		return inv.ID
	})

	var mu sync.Mutex
	var payments []*payment.Payment

	workers := pool.New().WithContext(ctx).WithCancelOnError()
	for _, batch := range lo.Chunk(invoiceIDs, invoiceIDBatchSize) {
		batch := batch
		workers.Go(func(ctx context.Context) error {
			batchFilter := types.NewNoLimitPaymentFilter()
			batchFilter.InvoiceIDs = batch

			found, err := s.PaymentRepo.List(ctx, batchFilter)
			if err != nil {
				return err
			}

			mu.Lock()
			payments = append(payments, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(payments, func(i, j int) bool {
		return payments[i].PaymentDate.After(payments[j].PaymentDate)
	})
	return newListPaymentsResponse(payments), nil
}

func (s *paymentService) PaymentStats(ctx context.Context, providerID string) (*dto.PaymentStatsResponse, error) {
	payments, err := s.PaymentsForProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	stats := &dto.PaymentStatsResponse{
		TotalAmount: decimal.Zero,
		ByMethod:    make(map[types.PaymentMethod]dto.PaymentMethodStats),
	}
	for _, p := range payments.Items {
		stats.TotalPayments++
		stats.TotalAmount = stats.TotalAmount.Add(p.Amount)

		m := stats.ByMethod[p.Method]
		m.Count++
		m.Amount = m.Amount.Add(p.Amount)
		stats.ByMethod[p.Method] = m
	}
	return stats, nil
}

// discardReceipt deletes an orphaned receipt best-effort. A dangling
// blob is preferable to failing the payment operation.
func (s *paymentService) discardReceipt(ctx context.Context, ref string) {
	if err := s.Blob.DeleteReceipt(ctx, ref); err != nil {
		s.Logger.Warnw("failed to delete orphaned receipt", "receipt_ref", ref, "error", err)
	}
}

func payableInvoice(inv *invoice.Invoice) error {
	switch inv.InvoiceStatus {
	case types.InvoiceStatusPaid:
		return ierr.NewError("invoice is already paid").
			WithHint("The invoice is fully settled; no further payments can be applied").
			WithDetail("invoice_id", inv.ID).
			Mark(ierr.ErrAlreadyPaid)
	case types.InvoiceStatusCancelled:
		return ierr.NewError("invoice is cancelled").
			WithHint("Payments cannot be applied to a cancelled invoice").
			WithDetail("invoice_id", inv.ID).
			Mark(ierr.ErrInvoiceNotPayable)
	}
	return nil
}

func newListPaymentsResponse(payments []*payment.Payment) *dto.ListPaymentsResponse {
	resp := &dto.ListPaymentsResponse{
		Items: make([]*dto.PaymentResponse, len(payments)),
		Total: len(payments),
	}
	for i, p := range payments {
		resp.Items[i] = dto.NewPaymentResponse(p)
	}
	return resp
}
