package inv

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dhruv-4604/inventory-cli/internal/listview"
)

// listPage is one resource list. It owns the fetched records and the
// listview.State; the table only ever shows state.Apply(records).
type listPage struct {
	res       *Resource
	records   []listview.Record
	state     listview.State
	view      listview.View
	table     table.Model
	search    textinput.Model
	searching bool
	loading   bool
	err       error

	// seq numbers fetches; a response is applied only if it carries the
	// latest seq.
	seq int
}

func newListPage(res *Resource, pageSize, width, height int) listPage {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"

	p := listPage{
		res:    res,
		state:  listview.NewState(pageSize),
		view:   listview.View{Rows: []listview.Record{}, PageCount: 1},
		search: search,
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Bold(false)

	p.table = table.New(
		table.WithColumns(p.columns()),
		table.WithFocused(true),
	)
	p.table.SetStyles(styles)
	p.resize(width, height)
	return p
}

func (p *listPage) resize(width, height int) {
	if p.res == nil {
		return
	}
	p.table.SetHeight(max(1, min(p.state.Page.Size, height-6)))
	if width > 0 {
		p.table.SetWidth(width)
	}
}

// fetch issues a new list request and invalidates any in flight.
func (p listPage) fetch(client *Client) (listPage, tea.Cmd) {
	p.seq++
	p.loading = true
	res, seq := p.res, p.seq
	return p, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.Config.Timeout())
		defer cancel()
		records, err := client.List(ctx, res)
		return listLoadedMsg{resource: res.Name, seq: seq, records: records, err: err}
	}
}

func (p *listPage) setRecords(records []listview.Record) {
	p.records = records
	p.recompute()
}

// recompute derives the visible rows from records and state. A page number
// left past the end (after a delete or a narrower search) is clamped here.
func (p *listPage) recompute() {
	v, err := p.state.Apply(p.records)
	if err == nil && p.state.Page.Number > v.PageCount {
		p.state = p.state.Clamp(v.PageCount)
		v, err = p.state.Apply(p.records)
	}
	if err != nil {
		p.err = err
		return
	}
	p.err = nil
	p.view = v

	rows := make([]table.Row, len(v.Rows))
	for i, rec := range v.Rows {
		row := make(table.Row, len(p.res.Columns))
		for j, c := range p.res.Columns {
			row[j], _ = listview.Stringify(rec[c.Field])
		}
		rows[i] = row
	}
	p.table.SetColumns(p.columns())
	p.table.SetRows(rows)
	if n := len(rows); n > 0 && (p.table.Cursor() >= n || p.table.Cursor() < 0) {
		p.table.SetCursor(n - 1)
	}
}

// columns numbers each header so "1".."9" can toggle its sort.
func (p listPage) columns() []table.Column {
	cols := make([]table.Column, len(p.res.Columns))
	for i, c := range p.res.Columns {
		title := c.Title
		if i < 9 {
			title = fmt.Sprintf("%d %s", i+1, c.Title)
		}
		if s := p.state.Sort; s != nil && s.Field == c.Field {
			if s.Direction == listview.Desc {
				title += " ↓"
			} else {
				title += " ↑"
			}
		}
		cols[i] = table.Column{Title: title, Width: max(c.Width, len(title))}
	}
	return cols
}

func (p listPage) selected() (listview.Record, bool) {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.view.Rows) {
		return nil, false
	}
	return p.view.Rows[i], true
}

// recordID picks the identifier used in REST paths.
func recordID(rec listview.Record) string {
	for _, key := range []string{"id", "number", "sku", "name"} {
		if s, ok := listview.Stringify(rec[key]); ok && s != "" {
			return s
		}
	}
	return ""
}

var pageSizes = []int{5, 10, 25, 50, 100}

// stepPageSize moves size to the next (dir > 0) or previous preset. A size
// between presets snaps to the neighbouring one.
func stepPageSize(size, dir int) int {
	if dir > 0 {
		for _, s := range pageSizes {
			if s > size {
				return s
			}
		}
		return max(size, pageSizes[len(pageSizes)-1])
	}
	for i := len(pageSizes) - 1; i >= 0; i-- {
		if pageSizes[i] < size {
			return pageSizes[i]
		}
	}
	return min(size, pageSizes[0])
}

// updateList handles keys on a list page.
func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.page

	if p.searching {
		switch msg.String() {
		case "enter":
			p.searching = false
			p.search.Blur()
			return m, nil
		case "esc":
			p.searching = false
			p.search.Blur()
			p.search.SetValue("")
			p.state = p.state.WithQuery("")
			p.recompute()
			return m, nil
		}
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		if q := p.search.Value(); q != p.state.Query {
			p.state = p.state.WithQuery(q)
			p.recompute()
		}
		return m, cmd
	}

	key := msg.String()
	switch key {
	case "esc", "q":
		return m.goMain()
	case "/":
		p.searching = true
		return m, p.search.Focus()
	case "o":
		p.state = p.state.ClearSort()
		p.recompute()
		return m, nil
	case "left", "h":
		p.state = p.state.PrevPage()
		p.recompute()
		return m, nil
	case "right", "l":
		p.state = p.state.NextPage(p.view.PageCount)
		p.recompute()
		return m, nil
	case "+", "=":
		p.state = p.state.WithPageSize(stepPageSize(p.state.Page.Size, 1))
		p.recompute()
		return m, nil
	case "-":
		p.state = p.state.WithPageSize(stepPageSize(p.state.Page.Size, -1))
		p.recompute()
		return m, nil
	case "r":
		return m.refreshCurrentView()
	case "n":
		m.openForm("", nil)
		return m, nil
	case "e":
		if rec, ok := p.selected(); ok {
			m.selectedID = recordID(rec)
			m.openForm(m.selectedID, rec)
		}
		return m, nil
	case "d":
		if rec, ok := p.selected(); ok {
			m.selectedID = recordID(rec)
			m.prevView = ViewList
			m.view = ViewConfirmDelete
		}
		return m, nil
	case "enter":
		if rec, ok := p.selected(); ok {
			m.selectedID = recordID(rec)
			m.detail = nil
			m.view = ViewDetail
			m.loading = true
			m.breadcrumbs = []string{"Main", p.res.Title, m.selectedID}
			return m, m.loadDetail(p.res, m.selectedID)
		}
		return m, nil
	case "i":
		if rec, ok := p.selected(); ok {
			m.selectedID = recordID(rec)
			return m.openInvoiceForSelected()
		}
		return m, nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if idx := int(key[0] - '1'); idx < len(p.res.Columns) {
			p.state = p.state.ToggleSort(p.res.Columns[idx].Field)
			p.recompute()
		}
		return m, nil
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return m, cmd
}

func (m Model) renderList() string {
	p := m.page
	var b strings.Builder

	b.WriteString(titleStyle.Render(" "+p.res.Title+" ") + "\n")
	if p.searching || p.state.Query != "" {
		b.WriteString(p.search.View())
	}
	b.WriteString("\n")

	if p.loading && p.records == nil {
		b.WriteString(fmt.Sprintf("\n  %s Loading...", m.spinner.View()))
		return b.String()
	}

	b.WriteString(p.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderListFooter())
	return b.String()
}

// renderListFooter shows paging and sort status for the open list.
func (m Model) renderListFooter() string {
	p := m.page
	if p.err != nil {
		return errorStyle.Render("  " + p.err.Error())
	}
	footer := fmt.Sprintf("  Page %d/%d • %d of %d matched • sort: %s",
		p.state.Page.Number, p.view.PageCount, p.view.TotalMatched, len(p.records), p.state.SortLabel())
	if p.loading {
		footer += " • " + m.spinner.View() + " refreshing"
	}
	return helpStyle.Render(footer)
}
