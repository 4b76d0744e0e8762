package invoice

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	ierr "github.com/credlane/credlane/internal/errors"
	"github.com/credlane/credlane/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testInvoice() *Invoice {
	now := time.Now().UTC()
	return &Invoice{
		ID:            "inv_01",
		Number:        "INV-TEST01",
		AccountID:     "acct_01",
		ProviderID:    "prov_01",
		InvoiceDate:   now,
		DueDate:       now.Add(14 * 24 * time.Hour),
		TotalAmount:   decimal.RequireFromString("300"),
		InvoiceStatus: types.InvoiceStatusPending,
		LineItems: []*LineItem{
			{
				ID:          "item_01",
				Description: "widgets",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.RequireFromString("100"),
				Total:       decimal.RequireFromString("200"),
			},
			{
				ID:          "item_02",
				Description: "freight",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.RequireFromString("100"),
				Total:       decimal.RequireFromString("100"),
			},
		},
	}
}

func TestVerifyTotalWithinEpsilon(t *testing.T) {
	inv := testInvoice()

	assert.NoError(t, inv.VerifyTotal(decimal.RequireFromString("300")))
	assert.NoError(t, inv.VerifyTotal(decimal.RequireFromString("300.01")))
	assert.NoError(t, inv.VerifyTotal(decimal.RequireFromString("299.99")))

	err := inv.VerifyTotal(decimal.RequireFromString("300.02"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrAmountMismatch))
}

func TestRecalculateRederivesTotals(t *testing.T) {
	inv := testInvoice()
	inv.LineItems[0].Quantity = decimal.NewFromInt(5)

	inv.Recalculate()

	assert.True(t, inv.LineItems[0].Total.Equal(decimal.RequireFromString("500")))
	assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("600")))
}

func TestDerivedStatus(t *testing.T) {
	inv := testInvoice()
	now := time.Now().UTC()

	assert.Equal(t, types.InvoiceStatusPending, inv.DerivedStatus(now))

	inv.DueDate = now.Add(-time.Hour)
	assert.Equal(t, types.InvoiceStatusOverdue, inv.DerivedStatus(now))

	// only pending derives to overdue
	inv.InvoiceStatus = types.InvoiceStatusPaid
	assert.Equal(t, types.InvoiceStatusPaid, inv.DerivedStatus(now))

	inv.InvoiceStatus = types.InvoiceStatusCancelled
	assert.Equal(t, types.InvoiceStatusCancelled, inv.DerivedStatus(now))
}

func TestValidateRejectsBadItems(t *testing.T) {
	inv := testInvoice()
	inv.LineItems[0].Quantity = decimal.Zero
	assert.Error(t, inv.Validate())

	inv = testInvoice()
	inv.LineItems = nil
	assert.Error(t, inv.Validate())

	inv = testInvoice()
	inv.LineItems[1].UnitPrice = decimal.RequireFromString("-1")
	assert.Error(t, inv.Validate())
}

func TestFindItem(t *testing.T) {
	inv := testInvoice()

	assert.NotNil(t, inv.FindItem("item_02"))
	assert.Nil(t, inv.FindItem("item_99"))
}
