package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/credlane/credlane/internal/api/dto"
	"github.com/credlane/credlane/internal/ledger"
	"github.com/credlane/credlane/internal/testutil"
	"github.com/shopspring/decimal"
)

func newTestParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		DB:                s.GetDB(),
		AccountRepo:       stores.Accounts,
		InvoiceRepo:       stores.Invoices,
		PaymentRepo:       stores.Payments,
		CreditRequestRepo: stores.CreditRequests,
		ActivityRepo:      stores.Activities,
		Blob:              stores.Blobs,
	}
}

// invoiceRequest builds a create request with one unit-quantity item per
// amount and a matching declared total.
func invoiceRequest(accountID, providerID string, amounts ...string) *dto.CreateInvoiceRequest {
	items := make([]dto.CreateLineItemRequest, len(amounts))
	total := decimal.Zero
	for i, a := range amounts {
		price := decimal.RequireFromString(a)
		items[i] = dto.CreateLineItemRequest{
			Description: fmt.Sprintf("line %d", i+1),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   price,
		}
		total = total.Add(price)
	}

	now := time.Now().UTC()
	return &dto.CreateInvoiceRequest{
		AccountID:   accountID,
		ProviderID:  providerID,
		InvoiceDate: now,
		DueDate:     now.Add(14 * 24 * time.Hour),
		TotalAmount: total,
		Items:       items,
	}
}

func paymentRequest(invoiceID, amount string) *dto.RecordPaymentRequest {
	return &dto.RecordPaymentRequest{
		InvoiceID:   invoiceID,
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: time.Now().UTC(),
		Method:      "bank_transfer",
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// overlapLedger holds every transaction's commit until the configured
// number of callbacks have run, forcing their read sets to genuinely
// overlap. Once released it is transparent, so conflict retries pass
// straight through to the wrapped ledger.
type overlapLedger struct {
	inner ledger.Client

	mu       sync.Mutex
	parties  int
	arrived  int
	released chan struct{}
}

func newOverlapLedger(inner ledger.Client, parties int) *overlapLedger {
	return &overlapLedger{
		inner:    inner,
		parties:  parties,
		released: make(chan struct{}),
	}
}

func (l *overlapLedger) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return l.inner.WithTx(ctx, func(txCtx context.Context) error {
		if err := fn(txCtx); err != nil {
			return err
		}

		l.mu.Lock()
		l.arrived++
		if l.arrived >= l.parties {
			select {
			case <-l.released:
			default:
				close(l.released)
			}
		}
		l.mu.Unlock()

		select {
		case <-l.released:
			return nil
		case <-txCtx.Done():
			return txCtx.Err()
		}
	})
}
