package invoice_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/dhruv-4604/inventory-cli/internal/invoice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_RowsAndFooter(t *testing.T) {
	doc := sample(t)
	doc.Currency = "USD"
	doc.Date = "2024-05-01"
	doc.PurchaseOrder = "PO-77"
	doc.From = invoice.Party{Name: "Acme Supply", Address: "1 Main St\nSpringfield"}
	require.NoError(t, doc.SetDescription(0, "Widget"))
	require.NoError(t, doc.SetDescription(1, "Gadget"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustTax, "10"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustDiscount, "31"))
	require.NoError(t, doc.SetAdjustment(invoice.AdjustPaid, "500"))

	l := doc.Layout()

	assert.Equal(t, "INVOICE", l.Title)
	assert.Equal(t, "USD", l.Symbol)
	assert.Equal(t, []string{"Acme Supply", "1 Main St", "Springfield"}, l.From)
	assert.Empty(t, l.ShipTo)
	assert.Equal(t, []invoice.FooterLine{
		{Label: "Invoice #", Value: "INV-0001"},
		{Label: "Date", Value: "2024-05-01"},
		{Label: "PO Number", Value: "PO-77"},
	}, l.Meta)

	assert.Equal(t, []invoice.Row{
		{Description: "Widget", Quantity: "2", Rate: "50.00", Amount: "100.00"},
		{Description: "Gadget", Quantity: "1", Rate: "731.00", Amount: "731.00"},
	}, l.Rows)

	assert.Equal(t, []invoice.FooterLine{
		{Label: "Subtotal", Value: "831.00"},
		{Label: "Tax (10%)", Value: "83.10"},
		{Label: "Discount", Value: "-31.00"},
		{Label: "Total", Value: "883.10"},
		{Label: "Amount Paid", Value: "500.00"},
		{Label: "Balance Due", Value: "383.10"},
	}, l.Footer)
}

func TestLayout_EmptyInvoice(t *testing.T) {
	l := invoice.New("").Layout()
	assert.Empty(t, l.Rows)

	labels := make([]string, len(l.Footer))
	for i, f := range l.Footer {
		labels[i] = f.Label
	}
	assert.Equal(t, []string{"Subtotal", "Tax (0%)", "Total", "Amount Paid", "Balance Due"}, labels)
}

func TestRender_WritesPDF(t *testing.T) {
	doc := sample(t)
	doc.Notes = "Thanks for your business."
	require.NoError(t, doc.SetAdjustment(invoice.AdjustShipping, "9.95"))

	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRender_ManyRowsSpanPages(t *testing.T) {
	doc := invoice.New("LONG-1")
	for i := range 120 {
		doc.AddLineItem()
		require.NoError(t, doc.SetDescription(i, fmt.Sprintf("Line %d", i+1)))
	}

	var small, large bytes.Buffer
	require.NoError(t, invoice.New("LONG-0").Render(&small))
	require.NoError(t, doc.Render(&large))
	assert.Greater(t, large.Len(), small.Len())
}
