// Package invoice keeps invoice totals consistent with their line items and
// adjustments, and renders the final document as a PDF.
package invoice

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrIndexOutOfRange      = errors.New("line item index out of range")
	ErrNonNumericAdjustment = errors.New("adjustment is not a non-negative number")
	ErrInvalidLineValue     = errors.New("line item value is not a non-negative number")
)

// Field selects an editable line item field.
type Field string

const (
	FieldDescription Field = "description"
	FieldQuantity    Field = "quantity"
	FieldRate        Field = "rate"
)

// Adjustment selects one of the invoice-level adjustments.
type Adjustment string

const (
	AdjustTax      Adjustment = "tax"
	AdjustDiscount Adjustment = "discount"
	AdjustShipping Adjustment = "shipping"
	AdjustPaid     Adjustment = "paid"
)

// Party is one side of the invoice.
type Party struct {
	Name    string
	Address string
	Email   string
}

// Header holds the descriptive fields of an invoice.
type Header struct {
	Number        string
	PurchaseOrder string
	From          Party
	BillTo        Party
	ShipTo        Party
	Date          string
	DueDate       string
	PaymentTerms  string
	Currency      string
	Notes         string
	Terms         string
}

// LineItem is one billed row. Its amount is always derived.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// Amount returns quantity * rate rounded to cents.
func (l LineItem) Amount() decimal.Decimal {
	return round2(l.Quantity.Mul(l.Rate))
}

// Adjustments are the invoice-level inputs applied on top of the subtotal.
type Adjustments struct {
	TaxPercent decimal.Decimal
	Discount   decimal.Decimal
	Shipping   decimal.Decimal
	AmountPaid decimal.Decimal
}

// Totals are the derived monetary fields.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	BalanceDue decimal.Decimal
}

// Document is an invoice being edited. The zero value is an empty invoice.
type Document struct {
	Header
	Adjustments
	Items []LineItem
}

// New returns an empty invoice with the given number.
func New(number string) *Document {
	return &Document{Header: Header{Number: number}}
}

// Clone returns a copy that shares no line items with d.
func (d *Document) Clone() *Document {
	c := *d
	c.Items = slices.Clone(d.Items)
	return &c
}

// Totals recomputes every derived field from the current line items and
// adjustments.
func (d *Document) Totals() Totals {
	sum := decimal.Zero
	for _, it := range d.Items {
		sum = sum.Add(it.Amount())
	}
	subtotal := round2(sum)
	tax := round2(subtotal.Mul(d.TaxPercent).Div(hundred))
	total := round2(subtotal.Add(tax).Sub(d.Discount).Add(d.Shipping))
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		Total:      total,
		BalanceDue: round2(total.Sub(d.AmountPaid)),
	}
}

// AddLineItem appends a blank line with quantity 1 and rate 0.
func (d *Document) AddLineItem() {
	d.Items = append(d.Items, LineItem{Quantity: decimal.NewFromInt(1), Rate: decimal.Zero})
}

// UpdateLineItem sets one field of the line at index from user input.
// Quantity and rate must parse as non-negative numbers.
func (d *Document) UpdateLineItem(index int, field Field, value string) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	switch field {
	case FieldDescription:
		d.Items[index].Description = value
		return nil
	case FieldQuantity, FieldRate:
		n, err := parseNonNegative(value)
		if err != nil {
			return fmt.Errorf("%w: %s %q: %v", ErrInvalidLineValue, field, value, err)
		}
		if field == FieldQuantity {
			d.Items[index].Quantity = n
		} else {
			d.Items[index].Rate = n
		}
		return nil
	}
	return fmt.Errorf("unknown line item field %q", field)
}

// SetDescription sets the description of the line at index.
func (d *Document) SetDescription(index int, s string) error {
	return d.UpdateLineItem(index, FieldDescription, s)
}

// SetQuantity sets the quantity of the line at index.
func (d *Document) SetQuantity(index int, q decimal.Decimal) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if q.IsNegative() {
		return fmt.Errorf("%w: quantity %s", ErrInvalidLineValue, q)
	}
	d.Items[index].Quantity = q
	return nil
}

// SetRate sets the rate of the line at index.
func (d *Document) SetRate(index int, r decimal.Decimal) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if r.IsNegative() {
		return fmt.Errorf("%w: rate %s", ErrInvalidLineValue, r)
	}
	d.Items[index].Rate = r
	return nil
}

// RemoveLineItem deletes the line at index. Removing the last line leaves
// an empty invoice.
func (d *Document) RemoveLineItem(index int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return nil
}

// SetAdjustment parses raw into the named adjustment. Empty input resets it to 0.
func (d *Document) SetAdjustment(kind Adjustment, raw string) error {
	n, err := parseNonNegative(raw)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrNonNumericAdjustment, kind, raw, err)
	}
	switch kind {
	case AdjustTax:
		d.TaxPercent = n
	case AdjustDiscount:
		d.Discount = n
	case AdjustShipping:
		d.Shipping = n
	case AdjustPaid:
		d.AmountPaid = n
	default:
		return fmt.Errorf("unknown adjustment %q", kind)
	}
	return nil
}

func (d *Document) checkIndex(index int) error {
	if index < 0 || index >= len(d.Items) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(d.Items))
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName is the download name of the rendered document.
func (d *Document) FileName() string {
	number := unsafeFileChars.ReplaceAllString(strings.TrimSpace(d.Number), "-")
	number = strings.Trim(number, "-.")
	if number == "" {
		number = "draft"
	}
	return "invoice_" + number + ".pdf"
}
