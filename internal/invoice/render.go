package invoice

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Row is one rendered line of the items table.
type Row struct {
	Description string
	Quantity    string
	Rate        string
	Amount      string
}

// FooterLine is one label/value pair of the totals block.
type FooterLine struct {
	Label string
	Value string
}

// Layout is the text content of a rendered invoice, in drawing order.
type Layout struct {
	Title  string
	Meta   []FooterLine
	From   []string
	BillTo []string
	ShipTo []string
	Rows   []Row
	Footer []FooterLine
	Notes  string
	Terms  string
	Symbol string
}

// Layout computes everything Render draws. Page breaks are not decided here.
func (d *Document) Layout() Layout {
	t := d.Totals()
	l := Layout{
		Title:  "INVOICE",
		From:   partyLines(d.From),
		BillTo: partyLines(d.BillTo),
		ShipTo: partyLines(d.ShipTo),
		Notes:  d.Notes,
		Terms:  d.Terms,
		Symbol: d.Currency,
	}

	l.Meta = append(l.Meta, FooterLine{"Invoice #", d.Number})
	if d.Date != "" {
		l.Meta = append(l.Meta, FooterLine{"Date", d.Date})
	}
	if d.PaymentTerms != "" {
		l.Meta = append(l.Meta, FooterLine{"Payment Terms", d.PaymentTerms})
	}
	if d.DueDate != "" {
		l.Meta = append(l.Meta, FooterLine{"Due Date", d.DueDate})
	}
	if d.PurchaseOrder != "" {
		l.Meta = append(l.Meta, FooterLine{"PO Number", d.PurchaseOrder})
	}

	l.Rows = make([]Row, len(d.Items))
	for i, it := range d.Items {
		l.Rows[i] = Row{
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			Rate:        FormatAmount(it.Rate),
			Amount:      FormatAmount(it.Amount()),
		}
	}

	l.Footer = append(l.Footer,
		FooterLine{"Subtotal", FormatAmount(t.Subtotal)},
		FooterLine{fmt.Sprintf("Tax (%s%%)", d.TaxPercent.String()), FormatAmount(t.TaxAmount)},
	)
	if !d.Discount.IsZero() {
		l.Footer = append(l.Footer, FooterLine{"Discount", "-" + FormatAmount(d.Discount)})
	}
	if !d.Shipping.IsZero() {
		l.Footer = append(l.Footer, FooterLine{"Shipping", FormatAmount(d.Shipping)})
	}
	l.Footer = append(l.Footer,
		FooterLine{"Total", FormatAmount(t.Total)},
		FooterLine{"Amount Paid", FormatAmount(d.AmountPaid)},
		FooterLine{"Balance Due", FormatAmount(t.BalanceDue)},
	)
	return l
}

func partyLines(p Party) []string {
	var out []string
	for _, s := range []string{p.Name, p.Address, p.Email} {
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// Table column widths in mm; they add up to the A4 content width.
var colWidths = [4]float64{95, 25, 30, 30}

// Render writes the invoice as an A4 PDF. Rows that do not fit continue on
// the next page through gofpdf's automatic page break.
func (d *Document) Render(w io.Writer) error {
	l := d.Layout()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(l.Title+" "+d.Number, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Header block
	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(90, 12, l.Title, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for i, m := range l.Meta {
		if i > 0 {
			pdf.CellFormat(90, 6, "", "", 0, "", false, 0, "")
		}
		pdf.CellFormat(40, 6, tr(m.Label), "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, tr(m.Value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Parties block
	y := pdf.GetY()
	drawParty(pdf, tr, 15, y, "From", l.From)
	drawParty(pdf, tr, 75, y, "Bill To", l.BillTo)
	drawParty(pdf, tr, 135, y, "Ship To", l.ShipTo)
	pdf.SetY(y + 8 + 5*float64(max(len(l.From), len(l.BillTo), len(l.ShipTo), 1)))
	pdf.Ln(4)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(51, 51, 51)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Item", "Quantity", "Rate", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(colWidths[i], 8, h, "", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	for _, r := range l.Rows {
		drawRow(pdf, tr, l.Symbol, r)
	}
	pdf.Ln(4)

	// Totals footer
	for _, f := range l.Footer {
		style := ""
		if f.Label == "Balance Due" {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(120, 7, "", "", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, f.Label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, withSymbol(l.Symbol, f.Value), "", 1, "R", false, 0, "")
	}

	// Notes and terms
	for _, block := range []struct{ title, body string }{{"Notes", l.Notes}, {"Terms", l.Terms}} {
		if strings.TrimSpace(block.body) == "" {
			continue
		}
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, block.title, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(block.body), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice %s: %w", d.Number, err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write invoice %s: %w", d.Number, err)
	}
	return nil
}

const (
	rowHeight  = 7.0
	lineHeight = 5.0
	cellPad    = 2.0
)

// descriptionLines wraps a description to the Item column.
func descriptionLines(pdf *gofpdf.Fpdf, tr func(string) string, desc string) []string {
	var out []string
	for _, line := range pdf.SplitLines([]byte(tr(desc)), colWidths[0]-cellPad) {
		out = append(out, string(line))
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// drawRow draws one item row. A wrapped description grows the whole row, and
// a row that would cross the bottom margin starts on a new page as a unit.
func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, symbol string, r Row) {
	lines := descriptionLines(pdf, tr, r.Description)
	h := max(rowHeight, lineHeight*float64(len(lines))+cellPad)

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+h > pageH-bottom {
		pdf.AddPage()
	}

	x, y := pdf.GetXY()
	pdf.CellFormat(colWidths[0], h, "", "B", 0, "", false, 0, "")
	for i, line := range lines {
		pdf.SetXY(x, y+cellPad/2+lineHeight*float64(i))
		pdf.CellFormat(colWidths[0], lineHeight, line, "", 0, "L", false, 0, "")
	}
	pdf.SetXY(x+colWidths[0], y)
	pdf.CellFormat(colWidths[1], h, r.Quantity, "B", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[2], h, withSymbol(symbol, r.Rate), "B", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], h, withSymbol(symbol, r.Amount), "B", 1, "R", false, 0, "")
}

func drawParty(pdf *gofpdf.Fpdf, tr func(string) string, x, y float64, title string, lines []string) {
	pdf.SetXY(x, y)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(58, 6, title, "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		pdf.CellFormat(58, 5, tr(line), "", 2, "L", false, 0, "")
	}
}

func withSymbol(symbol, amount string) string {
	if symbol == "" {
		return amount
	}
	return symbol + " " + amount
}
