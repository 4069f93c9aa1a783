package inv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dhruv-4604/inventory-cli/internal/invoice"
)

// invoiceField binds one header input to the document.
type invoiceField struct {
	label string
	get   func(*invoice.Document) string
	set   func(*invoice.Document, string) error
}

func checkDate(s string) error {
	if s == "" {
		return nil
	}
	if validate.Var(s, "datetime=2006-01-02") != nil {
		return errors.New("expected YYYY-MM-DD")
	}
	return nil
}

func adjustmentField(label string, kind invoice.Adjustment, get func(*invoice.Document) string) invoiceField {
	return invoiceField{
		label: label,
		get:   get,
		set:   func(d *invoice.Document, s string) error { return d.SetAdjustment(kind, s) },
	}
}

var headerFields = []invoiceField{
	{"Invoice #", func(d *invoice.Document) string { return d.Number },
		func(d *invoice.Document, s string) error { d.Number = s; return nil }},
	{"Date", func(d *invoice.Document) string { return d.Date },
		func(d *invoice.Document, s string) error {
			if err := checkDate(s); err != nil {
				return err
			}
			d.Date = s
			return nil
		}},
	{"Due Date", func(d *invoice.Document) string { return d.DueDate },
		func(d *invoice.Document, s string) error {
			if err := checkDate(s); err != nil {
				return err
			}
			d.DueDate = s
			return nil
		}},
	{"Payment Terms", func(d *invoice.Document) string { return d.PaymentTerms },
		func(d *invoice.Document, s string) error { d.PaymentTerms = s; return nil }},
	{"PO Number", func(d *invoice.Document) string { return d.PurchaseOrder },
		func(d *invoice.Document, s string) error { d.PurchaseOrder = s; return nil }},
	{"Currency", func(d *invoice.Document) string { return d.Currency },
		func(d *invoice.Document, s string) error {
			if s != "" && validate.Var(s, "alpha,len=3") != nil {
				return errors.New("expected a 3-letter code")
			}
			d.Currency = strings.ToUpper(s)
			return nil
		}},
	{"From", func(d *invoice.Document) string { return d.From.Name },
		func(d *invoice.Document, s string) error { d.From.Name = s; return nil }},
	{"Bill To", func(d *invoice.Document) string { return d.BillTo.Name },
		func(d *invoice.Document, s string) error { d.BillTo.Name = s; return nil }},
	{"Bill To Addr", func(d *invoice.Document) string { return d.BillTo.Address },
		func(d *invoice.Document, s string) error { d.BillTo.Address = s; return nil }},
	{"Bill To Email", func(d *invoice.Document) string { return d.BillTo.Email },
		func(d *invoice.Document, s string) error {
			if s != "" && validate.Var(s, "email") != nil {
				return errors.New("not an email address")
			}
			d.BillTo.Email = s
			return nil
		}},
	{"Ship To", func(d *invoice.Document) string { return d.ShipTo.Name },
		func(d *invoice.Document, s string) error { d.ShipTo.Name = s; return nil }},
	{"Ship To Addr", func(d *invoice.Document) string { return d.ShipTo.Address },
		func(d *invoice.Document, s string) error { d.ShipTo.Address = s; return nil }},
	{"Notes", func(d *invoice.Document) string { return d.Notes },
		func(d *invoice.Document, s string) error { d.Notes = s; return nil }},
	{"Terms", func(d *invoice.Document) string { return d.Terms },
		func(d *invoice.Document, s string) error { d.Terms = s; return nil }},
	adjustmentField("Tax %", invoice.AdjustTax, func(d *invoice.Document) string { return d.TaxPercent.String() }),
	adjustmentField("Discount", invoice.AdjustDiscount, func(d *invoice.Document) string { return d.Discount.String() }),
	adjustmentField("Shipping", invoice.AdjustShipping, func(d *invoice.Document) string { return d.Shipping.String() }),
	adjustmentField("Amount Paid", invoice.AdjustPaid, func(d *invoice.Document) string { return d.AmountPaid.String() }),
}

// lineFields are the inputs of one line item, in column order.
var lineFields = []invoice.Field{invoice.FieldDescription, invoice.FieldQuantity, invoice.FieldRate}

var lineWidths = []int{28, 8, 10}

// maxVisibleLines bounds how many line items are drawn around the cursor.
const maxVisibleLines = 8

// invoiceEditor is the invoice form. inputs holds the header fields followed
// by three inputs per line item. An input that does not parse keeps its text
// and an entry in errs; the document keeps its last valid value.
type invoiceEditor struct {
	doc    *invoice.Document
	inputs []textinput.Model
	focus  int
	errs   map[int]error
}

func newInvoiceEditor(doc *invoice.Document) invoiceEditor {
	e := invoiceEditor{doc: doc, errs: map[int]error{}}
	if doc == nil {
		return e
	}
	for _, f := range headerFields {
		e.inputs = append(e.inputs, newEditorInput(f.get(doc), 30))
	}
	for i := range doc.Items {
		e.inputs = append(e.inputs, lineInputs(doc.Items[i])...)
	}
	e.setFocus(0)
	return e
}

func newEditorInput(value string, width int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Width = width
	in.SetValue(value)
	return in
}

func lineInputs(it invoice.LineItem) []textinput.Model {
	values := []string{it.Description, it.Quantity.String(), it.Rate.String()}
	out := make([]textinput.Model, len(values))
	for i, v := range values {
		out[i] = newEditorInput(v, lineWidths[i])
	}
	return out
}

// line maps an input index to its line item and field. ok is false for
// header inputs.
func (e invoiceEditor) line(i int) (index, col int, ok bool) {
	j := i - len(headerFields)
	if j < 0 {
		return 0, 0, false
	}
	return j / len(lineFields), j % len(lineFields), true
}

func (e *invoiceEditor) setFocus(i int) {
	if len(e.inputs) == 0 {
		e.focus = 0
		return
	}
	e.focus = (i + len(e.inputs)) % len(e.inputs)
	for j := range e.inputs {
		if j == e.focus {
			e.inputs[j].Focus()
		} else {
			e.inputs[j].Blur()
		}
	}
}

// apply writes input i into the document.
func (e *invoiceEditor) apply(i int) {
	value := strings.TrimSpace(e.inputs[i].Value())
	var err error
	if idx, col, ok := e.line(i); ok {
		if lineFields[col] == invoice.FieldDescription {
			value = e.inputs[i].Value()
		}
		err = e.doc.UpdateLineItem(idx, lineFields[col], value)
	} else {
		err = headerFields[i].set(e.doc, value)
	}
	if err != nil {
		e.errs[i] = err
	} else {
		delete(e.errs, i)
	}
}

func (e *invoiceEditor) addLine() {
	e.doc.AddLineItem()
	e.inputs = append(e.inputs, lineInputs(e.doc.Items[len(e.doc.Items)-1])...)
	e.setFocus(len(e.inputs) - len(lineFields))
}

// removeLine drops the focused line item and its inputs.
func (e *invoiceEditor) removeLine() {
	idx, _, ok := e.line(e.focus)
	if !ok || e.doc.RemoveLineItem(idx) != nil {
		return
	}
	start := len(headerFields) + idx*len(lineFields)
	end := start + len(lineFields)
	e.inputs = append(e.inputs[:start], e.inputs[end:]...)

	errs := make(map[int]error, len(e.errs))
	for i, err := range e.errs {
		switch {
		case i < start:
			errs[i] = err
		case i >= end:
			errs[i-len(lineFields)] = err
		}
	}
	e.errs = errs
	e.setFocus(min(start, len(e.inputs)-1))
}

// openInvoiceForSelected prefills the invoice editor from the selected
// sales order.
func (m Model) openInvoiceForSelected() (tea.Model, tea.Cmd) {
	if m.page.res == nil || m.page.res.Name != "sales-orders" || m.selectedID == "" {
		return m, nil
	}
	m.prevView = m.view
	m.view = ViewInvoice
	m.loading = true
	m.editor = newInvoiceEditor(nil)
	m.breadcrumbs = []string{"Main", m.page.res.Title, m.selectedID, "Invoice"}
	return m, m.loadInvoice(m.selectedID)
}

func (m Model) loadInvoice(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		doc, err := m.client.LoadInvoiceForOrder(ctx, id)
		if err != nil {
			return errorMsg{err}
		}
		return invoiceLoadedMsg{doc}
	}
}

// saveInvoice renders a snapshot of doc so later edits cannot race the write.
func (m Model) saveInvoice(doc *invoice.Document) tea.Cmd {
	dir := m.client.Config.InvoiceDir
	return func() tea.Msg {
		path, err := SaveInvoice(doc, dir)
		if err != nil {
			LogError(m.client.Log, "invoice", "saveInvoice", doc.FileName(), nil, err)
		}
		return invoiceSavedMsg{path: path, err: err}
	}
}

func (m Model) updateInvoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.editor
	if msg.String() == "esc" {
		m.view = m.prevView
		switch m.view {
		case ViewMain:
			return m.goMain()
		case ViewDetail:
			m.breadcrumbs = []string{"Main", m.page.res.Title, m.selectedID}
		default:
			m.breadcrumbs = []string{"Main", m.page.res.Title}
		}
		return m, nil
	}
	if e.doc == nil || m.loading {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		e.setFocus(e.focus + 1)
		return m, nil
	case "shift+tab", "up":
		e.setFocus(e.focus - 1)
		return m, nil
	case "ctrl+n":
		e.addLine()
		return m, nil
	case "ctrl+x":
		e.removeLine()
		return m, nil
	case "ctrl+s":
		if len(e.errs) > 0 {
			m.message = fmt.Sprintf("fix %d invalid field(s) before downloading", len(e.errs))
			m.messageType = "error"
			return m, nil
		}
		m.message = ""
		m.loading = true
		return m, m.saveInvoice(e.doc.Clone())
	}

	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	e.apply(e.focus)
	return m, cmd
}

func (m Model) renderInvoice() string {
	e := m.editor
	if e.doc == nil {
		if m.loading {
			return fmt.Sprintf("\n  %s Loading sales order...", m.spinner.View())
		}
		return "\n  No invoice loaded"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" Invoice "+e.doc.Number+" ") + "\n\n")

	for i, f := range headerFields {
		b.WriteString(e.renderInput(i, fmt.Sprintf("%-14s", f.label+":")))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %-3s %-28s %8s %10s %12s\n", "#", "Description", "Qty", "Rate", "Amount"))
	first, last := e.visibleLines()
	if first > 0 {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d more above", first)) + "\n")
	}
	for idx := first; idx < last; idx++ {
		start := len(headerFields) + idx*len(lineFields)
		b.WriteString(fmt.Sprintf("  %-3d ", idx+1))
		for col := range lineFields {
			b.WriteString(e.renderCell(start + col))
			b.WriteString(" ")
		}
		b.WriteString(fmt.Sprintf("%12s\n", invoice.FormatAmount(e.doc.Items[idx].Amount())))
	}
	if rest := len(e.doc.Items) - last; rest > 0 {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d more below", rest)) + "\n")
	}
	if len(e.doc.Items) == 0 {
		b.WriteString(helpStyle.Render("  no line items (ctrl+n to add)") + "\n")
	}
	for i := len(headerFields); i < len(e.inputs); i++ {
		if err, ok := e.errs[i]; ok {
			idx, col, _ := e.line(i)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  line %d %s: %v", idx+1, lineFields[col], err)) + "\n")
		}
	}

	b.WriteString("\n")
	for _, l := range e.doc.Layout().Footer {
		value := l.Value
		if e.doc.Currency != "" {
			value = e.doc.Currency + " " + value
		}
		line := fmt.Sprintf("  %-20s %16s", l.Label, value)
		if l.Label == "Balance Due" {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if m.loading {
		b.WriteString(fmt.Sprintf("\n  %s Rendering PDF...", m.spinner.View()))
	}

	return boxStyle.Render(b.String())
}

// visibleLines returns the window of line items drawn around the focus.
func (e invoiceEditor) visibleLines() (first, last int) {
	n := len(e.doc.Items)
	if n <= maxVisibleLines {
		return 0, n
	}
	focusLine := 0
	if idx, _, ok := e.line(e.focus); ok {
		focusLine = idx
	}
	first = max(0, min(focusLine-maxVisibleLines/2, n-maxVisibleLines))
	return first, first + maxVisibleLines
}

func (e invoiceEditor) renderInput(i int, label string) string {
	if i == e.focus {
		label = selectedStyle.Render(label)
	}
	out := "  " + label + " " + e.inputs[i].View()
	if err, ok := e.errs[i]; ok {
		out += " " + errorStyle.Render(err.Error())
	}
	return out
}

func (e invoiceEditor) renderCell(i int) string {
	_, col, _ := e.line(i)
	style := lipgloss.NewStyle().Width(lineWidths[col] + 1)
	if _, bad := e.errs[i]; bad {
		style = style.Foreground(lipgloss.Color("#FF0000"))
	}
	return style.Render(e.inputs[i].View())
}
