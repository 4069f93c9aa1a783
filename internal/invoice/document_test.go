package invoice_test

import (
	"testing"

	"github.com/dhruv-4604/inventory-cli/internal/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

// sample builds the two-line invoice used across these tests.
func sample(t *testing.T) *invoice.Document {
	t.Helper()
	doc := invoice.New("INV-0001")
	doc.AddLineItem()
	doc.AddLineItem()
	require.NoError(t, doc.UpdateLineItem(0, invoice.FieldQuantity, "2"))
	require.NoError(t, doc.UpdateLineItem(0, invoice.FieldRate, "50"))
	require.NoError(t, doc.UpdateLineItem(1, invoice.FieldQuantity, "1"))
	require.NoError(t, doc.UpdateLineItem(1, invoice.FieldRate, "731"))
	return doc
}

func TestTotals_ReferenceScenario(t *testing.T) {
	doc := sample(t)
	require.NoError(t, doc.SetAdjustment(invoice.AdjustTax, "10"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustDiscount, "31"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustShipping, "0"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustPaid, "500"))

	got := doc.Totals()
	assertDec(t, "831.00", got.Subtotal, "subtotal")
	assertDec(t, "83.10", got.TaxAmount, "tax")
	assertDec(t, "883.10", got.Total, "total")
	assertDec(t, "383.10", got.BalanceDue, "balance")

	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxAmount).Sub(doc.Discount).Add(doc.Shipping)))
	assert.True(t, got.BalanceDue.Equal(got.Total.Sub(doc.AmountPaid)))
}

func TestTotals_AdjustmentsDefaultToZero(t *testing.T) {
	doc := sample(t)
	got := doc.Totals()
	assertDec(t, "831", got.Subtotal, "subtotal")
	assertDec(t, "0", got.TaxAmount, "tax")
	assertDec(t, "831", got.Total, "total")
	assertDec(t, "831", got.BalanceDue, "balance")
}

func TestTotals_RemovingAllItems(t *testing.T) {
	doc := sample(t)
	require.NoError(t, doc.SetAdjustment(invoice.AdjustTax, "10"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustDiscount, "31"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustShipping, "12.5"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustPaid, "4"))

	require.NoError(t, doc.RemoveLineItem(1))
	require.NoError(t, doc.RemoveLineItem(0))
	assert.Empty(t, doc.Items)

	got := doc.Totals()
	assertDec(t, "0", got.Subtotal, "subtotal")
	assertDec(t, "0", got.TaxAmount, "tax")
	assertDec(t, "-18.50", got.Total, "total")
	assertDec(t, "-22.50", got.BalanceDue, "balance")
}

func TestTotals_RoundsHalfAwayFromZero(t *testing.T) {
	doc := invoice.New("R-1")
	doc.AddLineItem()
	require.NoError(t, doc.UpdateLineItem(0, invoice.FieldQuantity, "3"))
	require.NoError(t, doc.UpdateLineItem(0, invoice.FieldRate, "0.335"))
	assertDec(t, "1.01", doc.Items[0].Amount(), "amount 1.005")

	require.NoError(t, doc.SetAdjustment(invoice.AdjustTax, "12.5"))
	// 1.01 * 12.5% = 0.12625
	assertDec(t, "0.13", doc.Totals().TaxAmount, "tax")

	require.NoError(t, doc.SetAdjustment(invoice.AdjustPaid, "1.2"))
	assertDec(t, "-0.06", doc.Totals().BalanceDue, "balance")
}

func TestAddLineItem_Defaults(t *testing.T) {
	doc := invoice.New("X")
	doc.AddLineItem()
	require.Len(t, doc.Items, 1)

	it := doc.Items[0]
	assert.Equal(t, "", it.Description)
	assertDec(t, "1", it.Quantity, "quantity")
	assertDec(t, "0", it.Rate, "rate")
	assertDec(t, "0", it.Amount(), "amount")
}

func TestUpdateLineItem_AmountTracksQuantityAndRate(t *testing.T) {
	doc := invoice.New("X")
	doc.AddLineItem()

	cases := []struct{ qty, rate, amount string }{
		{"0", "19.99", "0"},
		{"2", "19.99", "39.98"},
		{"1.5", "10", "15"},
		{"7", "0", "0"},
		{"1,000", "1.25", "1250"},
	}
	for _, tc := range cases {
		require.NoError(t, doc.UpdateLineItem(0, invoice.FieldQuantity, tc.qty))
		require.NoError(t, doc.UpdateLineItem(0, invoice.FieldRate, tc.rate))
		it := doc.Items[0]
		assertDec(t, tc.amount, it.Amount(), tc.qty+" x "+tc.rate)
		assert.True(t, it.Amount().Equal(it.Quantity.Mul(it.Rate).Round(2)))
	}
}

func TestUpdateLineItem_RejectsBadInput(t *testing.T) {
	doc := invoice.New("X")
	doc.AddLineItem()

	for _, raw := range []string{"abc", "NaN", "-1", "1e", "Inf"} {
		err := doc.UpdateLineItem(0, invoice.FieldQuantity, raw)
		assert.ErrorIs(t, err, invoice.ErrInvalidLineValue, raw)
	}
	assertDec(t, "1", doc.Items[0].Quantity, "quantity untouched")

	err := doc.SetQuantity(0, dec("-2"))
	assert.ErrorIs(t, err, invoice.ErrInvalidLineValue)
	err = doc.SetRate(0, dec("-0.01"))
	assert.ErrorIs(t, err, invoice.ErrInvalidLineValue)

	require.NoError(t, doc.SetRate(0, dec("4.5")))
	require.NoError(t, doc.SetDescription(0, "Widget"))
	assert.Equal(t, "Widget", doc.Items[0].Description)
	assertDec(t, "4.5", doc.Items[0].Amount(), "amount")
}

func TestLineItemOps_IndexOutOfRange(t *testing.T) {
	doc := invoice.New("X")
	doc.AddLineItem()

	assert.ErrorIs(t, doc.UpdateLineItem(1, invoice.FieldRate, "1"), invoice.ErrIndexOutOfRange)
	assert.ErrorIs(t, doc.UpdateLineItem(-1, invoice.FieldDescription, "x"), invoice.ErrIndexOutOfRange)
	assert.ErrorIs(t, doc.SetQuantity(3, dec("1")), invoice.ErrIndexOutOfRange)
	assert.ErrorIs(t, doc.RemoveLineItem(1), invoice.ErrIndexOutOfRange)

	require.NoError(t, doc.RemoveLineItem(0))
	assert.ErrorIs(t, doc.RemoveLineItem(0), invoice.ErrIndexOutOfRange)
}

func TestRemoveLineItem_KeepsOrder(t *testing.T) {
	doc := invoice.New("X")
	for _, d := range []string{"a", "b", "c"} {
		doc.AddLineItem()
		require.NoError(t, doc.SetDescription(len(doc.Items)-1, d))
	}

	require.NoError(t, doc.RemoveLineItem(1))
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "a", doc.Items[0].Description)
	assert.Equal(t, "c", doc.Items[1].Description)
}

func TestSetAdjustment(t *testing.T) {
	doc := invoice.New("X")

	require.NoError(t, doc.SetAdjustment(invoice.AdjustDiscount, " 12.50 "))
	assertDec(t, "12.5", doc.Discount, "discount")

	require.NoError(t, doc.SetAdjustment(invoice.AdjustDiscount, ""))
	assertDec(t, "0", doc.Discount, "discount cleared")

	for _, raw := range []string{"ten", "-5", "NaN", "5%"} {
		err := doc.SetAdjustment(invoice.AdjustShipping, raw)
		assert.ErrorIs(t, err, invoice.ErrNonNumericAdjustment, raw)
	}
	assertDec(t, "0", doc.Shipping, "shipping untouched")

	assert.Error(t, doc.SetAdjustment(invoice.Adjustment("bogus"), "1"))
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"INV-0001":   "invoice_INV-0001.pdf",
		"2024/05 #7": "invoice_2024-05-7.pdf",
		"":           "invoice_draft.pdf",
		"../../etc":  "invoice_etc.pdf",
		"  SO 12  ":  "invoice_SO-12.pdf",
	}
	for number, want := range cases {
		doc := invoice.New(number)
		assert.Equal(t, want, doc.FileName(), number)
	}
}
