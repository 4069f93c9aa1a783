package inv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhruv-4604/inventory-cli/internal/invoice"
	"github.com/shopspring/decimal"
)

// NewInvoiceFromSalesOrder prefills an invoice with the order's lines,
// adjustments and customer. brand becomes the "from" party.
func NewInvoiceFromSalesOrder(so *SalesOrder, customer *Customer, brand, currency string) *invoice.Document {
	number := so.Number
	if number == "" {
		number = string(so.ID)
	}

	doc := invoice.New(number)
	doc.Date = so.Date
	doc.DueDate = so.DueDate
	doc.PaymentTerms = so.PaymentTerms
	doc.PurchaseOrder = so.CustomerPO
	doc.Currency = strings.ToUpper(so.Currency)
	if doc.Currency == "" {
		doc.Currency = currency
	}
	doc.From = invoice.Party{Name: brand}

	doc.BillTo = invoice.Party{Name: so.Customer, Address: so.BillTo}
	if customer != nil {
		doc.BillTo.Name = customer.Name
		doc.BillTo.Email = customer.Email
		if doc.BillTo.Address == "" {
			doc.BillTo.Address = joinNonEmpty("\n", customer.Address, joinNonEmpty(", ", customer.City, customer.Country))
		}
	}
	doc.ShipTo = invoice.Party{Name: doc.BillTo.Name, Address: so.ShipTo}
	if so.ShipTo == "" {
		doc.ShipTo.Address = doc.BillTo.Address
	}

	// The setters reject negative quantities and rates; such lines keep the
	// defaults of AddLineItem.
	for i, line := range so.Items {
		doc.AddLineItem()
		desc := line.Description
		if desc == "" {
			desc = line.SKU
		}
		_ = doc.SetDescription(i, desc)
		_ = doc.SetQuantity(i, line.Quantity)
		_ = doc.SetRate(i, line.Rate)
	}

	doc.TaxPercent = nonNegative(so.TaxPercent)
	doc.Discount = nonNegative(so.Discount)
	doc.Shipping = nonNegative(so.Shipping)
	doc.AmountPaid = nonNegative(so.AmountPaid)
	return doc
}

// LoadInvoiceForOrder fetches a sales order and its customer and builds the
// invoice for it. A missing customer record is not an error.
func (c *Client) LoadInvoiceForOrder(ctx context.Context, id string) (*invoice.Document, error) {
	so, err := c.SalesOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	var customer *Customer
	if so.Customer != "" {
		customer, err = c.Customer(ctx, so.Customer)
		if err != nil {
			c.Log.WithField("customer", so.Customer).Warn("customer lookup failed, using order fields")
			customer = nil
		}
	}
	return NewInvoiceFromSalesOrder(so, customer, c.Config.Brand, c.Config.Currency), nil
}

// SaveInvoice renders doc into dir under its download name and returns the path.
func SaveInvoice(doc *invoice.Document, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create invoice dir: %w", err)
	}
	path := filepath.Join(dir, doc.FileName())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot create invoice file: %w", err)
	}
	if err := doc.Render(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("cannot write invoice file: %w", err)
	}
	return path, nil
}

// nonNegative maps negative backend amounts to zero.
func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
