package inv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dhruv-4604/inventory-cli/internal/invoice"
	"github.com/dhruv-4604/inventory-cli/internal/listview"
)

// Version info
const Version = "0.4.0"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#333333")).
			Padding(0, 1)

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF9500")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	creditStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 2)

	notificationSuccess = lipgloss.NewStyle().
				Background(lipgloss.Color("#04B575")).
				Foreground(lipgloss.Color("#FFF")).
				Padding(0, 1).
				Bold(true)

	breadcrumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// View represents different screens
type View int

const (
	ViewMain View = iota
	ViewDashboard
	ViewList
	ViewDetail
	ViewForm
	ViewConfirmDelete
	ViewInvoice
)

// MenuItem for the main menu
type MenuItem struct {
	title       string
	description string
	view        View
	resource    *Resource
}

func (i MenuItem) Title() string       { return i.title }
func (i MenuItem) Description() string { return i.description }
func (i MenuItem) FilterValue() string { return i.title }

// Model is the main TUI model
type Model struct {
	client      *Client
	view        View
	prevView    View
	width       int
	height      int
	mainMenu    list.Model
	page        listPage
	form        recordForm
	editor      invoiceEditor
	detail      listview.Record
	selectedID  string
	message     string
	messageType string
	loading     bool
	online      bool

	dashboardData *ReportData

	spinner          spinner.Model
	breadcrumbs      []string
	notification     string
	showNotification bool
	viewport         viewport.Model
	viewportReady    bool
}

// Messages
type connectedMsg struct {
	latency time.Duration
	err     error
}

type errorMsg struct {
	err error
}

type listLoadedMsg struct {
	resource string
	seq      int
	records  []listview.Record
	err      error
}

type itemDetailMsg struct {
	data listview.Record
}

type actionDoneMsg struct {
	message string
}

type dashboardLoadedMsg struct {
	data *ReportData
}

type formSubmittedMsg struct {
	success bool
	message string
}

type invoiceLoadedMsg struct {
	doc *invoice.Document
}

type invoiceSavedMsg struct {
	path string
	err  error
}

type clearNotificationMsg struct{}

// NewTUI creates a new TUI model
func NewTUI(client *Client) Model {
	menuItems := []list.Item{
		MenuItem{title: "Dashboard", description: "Stock, sales and purchasing at a glance", view: ViewDashboard},
	}
	for _, res := range Resources {
		menuItems = append(menuItems, MenuItem{
			title:       res.Title,
			description: fmt.Sprintf("Search, sort and edit %s", strings.ToLower(res.Title)),
			view:        ViewList,
			resource:    res,
		})
	}
	menuItems = append(menuItems, MenuItem{title: "Invoice", description: "Compose an invoice and download it as PDF", view: ViewInvoice})

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	mainMenu := list.New(menuItems, delegate, 0, 0)
	mainMenu.Title = client.Config.Brand
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)
	mainMenu.Styles.Title = titleStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return Model{
		client:      client,
		view:        ViewMain,
		mainMenu:    mainMenu,
		spinner:     s,
		breadcrumbs: []string{"Main"},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.checkConnection(),
		m.spinner.Tick,
	)
}

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.client.Config.Timeout())
}

func (m Model) checkConnection() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		latency, err := m.client.Ping(ctx)
		return connectedMsg{latency: latency, err: err}
	}
}

func (m Model) loadDetail(res *Resource, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		rec, err := m.client.Get(ctx, res, id)
		if err != nil {
			return errorMsg{err}
		}
		return itemDetailMsg{rec}
	}
}

func (m Model) deleteRecord(res *Resource, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		if err := m.client.Delete(ctx, res, id); err != nil {
			return errorMsg{err}
		}
		return actionDoneMsg{fmt.Sprintf("Deleted: %s", id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.capturesText() {
			m.message = ""
			m.messageType = ""
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		h := msg.Height - 8
		w := msg.Width - 4

		m.mainMenu.SetSize(w, h)
		m.page.resize(w, h)

		headerHeight := 4
		footerHeight := 4
		m.viewport = viewport.New(w, msg.Height-headerHeight-footerHeight)
		m.viewport.YPosition = headerHeight
		m.viewportReady = true
		if m.dashboardData != nil {
			m.viewport.SetContent(m.renderDashboardContent())
		}
		return m, nil

	case connectedMsg:
		m.online = msg.err == nil
		if msg.err != nil {
			m.message = msg.err.Error()
			m.messageType = "error"
		}
		return m, nil

	case errorMsg:
		m.loading = false
		m.message = msg.err.Error()
		m.messageType = "error"
		return m, nil

	case listLoadedMsg:
		// Only the response to the most recent fetch of the open page counts.
		if m.page.res == nil || msg.resource != m.page.res.Name || msg.seq != m.page.seq {
			return m, nil
		}
		m.loading = false
		m.page.loading = false
		if msg.err != nil {
			m.message = msg.err.Error()
			m.messageType = "error"
			return m, nil
		}
		m.page.setRecords(msg.records)
		return m, nil

	case itemDetailMsg:
		m.loading = false
		m.detail = msg.data
		return m, nil

	case actionDoneMsg:
		m.message = msg.message
		m.messageType = "success"
		return m.refreshCurrentView()

	case dashboardLoadedMsg:
		m.loading = false
		m.dashboardData = msg.data
		if m.viewportReady {
			m.viewport.SetContent(m.renderDashboardContent())
			m.viewport.GotoTop()
		}
		return m, nil

	case formSubmittedMsg:
		m.loading = false
		if msg.success {
			m.view = ViewList
			m.breadcrumbs = []string{"Main", m.page.res.Title}
			m.notification = msg.message
			m.showNotification = true
			refreshModel, refreshCmd := m.refreshCurrentView()
			m = refreshModel.(Model)
			return m, tea.Batch(
				refreshCmd,
				tea.Tick(3*time.Second, func(time.Time) tea.Msg {
					return clearNotificationMsg{}
				}),
			)
		}
		m.message = msg.message
		m.messageType = "error"
		return m, nil

	case invoiceLoadedMsg:
		m.loading = false
		m.editor = newInvoiceEditor(msg.doc)
		return m, nil

	case invoiceSavedMsg:
		m.loading = false
		if msg.err != nil {
			m.message = msg.err.Error()
			m.messageType = "error"
			return m, nil
		}
		m.notification = "Saved " + msg.path
		m.showNotification = true
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearNotificationMsg{}
		})

	case clearNotificationMsg:
		m.showNotification = false
		m.notification = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.view {
	case ViewMain:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case ViewDashboard:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// capturesText reports whether key presses are currently typed into an input.
func (m Model) capturesText() bool {
	switch m.view {
	case ViewForm, ViewInvoice:
		return true
	case ViewList:
		return m.page.searching
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewMain:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		}
		var cmd tea.Cmd
		m.mainMenu, cmd = m.mainMenu.Update(msg)
		return m, cmd

	case ViewDashboard:
		switch msg.String() {
		case "esc", "q":
			return m.goMain()
		case "r":
			return m.refreshCurrentView()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ViewList:
		return m.updateList(msg)

	case ViewDetail:
		switch msg.String() {
		case "esc", "q":
			m.view = ViewList
			m.breadcrumbs = []string{"Main", m.page.res.Title}
			return m, nil
		case "e":
			if m.detail != nil {
				m.openForm(m.selectedID, m.detail)
			}
			return m, nil
		case "d":
			m.prevView = ViewDetail
			m.view = ViewConfirmDelete
			return m, nil
		case "i":
			return m.openInvoiceForSelected()
		}
		return m, nil

	case ViewConfirmDelete:
		switch msg.String() {
		case "y":
			m.view = ViewList
			m.breadcrumbs = []string{"Main", m.page.res.Title}
			m.loading = true
			return m, m.deleteRecord(m.page.res, m.selectedID)
		case "n", "esc":
			m.view = m.prevView
			return m, nil
		}
		return m, nil

	case ViewForm:
		return m.updateForm(msg)

	case ViewInvoice:
		return m.updateInvoice(msg)
	}
	return m, nil
}

func (m Model) goMain() (tea.Model, tea.Cmd) {
	m.view = ViewMain
	m.breadcrumbs = []string{"Main"}
	m.loading = false
	return m, nil
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	item, ok := m.mainMenu.SelectedItem().(MenuItem)
	if !ok {
		return m, nil
	}
	m.view = item.view
	m.breadcrumbs = []string{"Main", item.title}

	switch item.view {
	case ViewDashboard:
		m.loading = true
		return m, m.loadDashboard()
	case ViewList:
		m.page = newListPage(item.resource, m.client.Config.PageSize, m.width-4, m.height-8)
		return m.refreshCurrentView()
	case ViewInvoice:
		doc := invoice.New("")
		doc.Currency = m.client.Config.Currency
		doc.From = invoice.Party{Name: m.client.Config.Brand}
		doc.AddLineItem()
		m.editor = newInvoiceEditor(doc)
		m.prevView = ViewMain
		return m, nil
	}
	return m, nil
}

func (m Model) refreshCurrentView() (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewDashboard:
		m.loading = true
		return m, m.loadDashboard()
	case ViewList, ViewDetail, ViewConfirmDelete:
		if m.page.res == nil {
			return m, nil
		}
		m.loading = true
		var cmd tea.Cmd
		m.page, cmd = m.page.fetch(m.client)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string

	switch m.view {
	case ViewMain:
		content = m.mainMenu.View()
	case ViewList:
		content = m.renderList()
	case ViewDetail:
		content = m.renderDetail()
	case ViewConfirmDelete:
		content = m.renderConfirmDelete()
	case ViewDashboard:
		content = m.renderDashboard()
	case ViewForm:
		content = m.renderForm()
	case ViewInvoice:
		content = m.renderInvoice()
	}

	var b strings.Builder

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	b.WriteString(m.renderBreadcrumbs())
	b.WriteString("\n")

	if m.showNotification {
		b.WriteString(notificationSuccess.Render("✓ " + m.notification))
		b.WriteString("\n")
	}

	b.WriteString(content)

	// Error message (persists until user takes action)
	if m.message != "" {
		b.WriteString("\n\n")
		if m.messageType == "error" {
			b.WriteString(errorStyle.Render("Error: " + m.message))
		} else if m.messageType == "success" {
			b.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())

	b.WriteString("\n")
	b.WriteString(m.renderCredits())

	return b.String()
}

func (m Model) renderStatusBar() string {
	var state string
	if m.online {
		state = onlineStyle.Render("● Online")
	} else {
		state = offlineStyle.Render("● Offline")
	}

	status := fmt.Sprintf(" %s | %s | %s ", m.client.Config.Brand, state, m.client.Config.APIURL)
	return statusBarStyle.Render(status)
}

func (m Model) renderBreadcrumbs() string {
	if len(m.breadcrumbs) == 0 {
		return ""
	}
	return breadcrumbStyle.Render("  " + strings.Join(m.breadcrumbs, " > "))
}

func (m Model) renderHelp() string {
	var help string
	switch m.view {
	case ViewMain:
		help = "↑/↓: navigate • enter: select • q: quit"
	case ViewList:
		if m.page.searching {
			help = "type to filter • enter: done • esc: clear search"
		} else {
			help = "↑/↓: navigate • enter: detail • /: search • 1-9: sort by column • o: unsort • ←/→: page • +/-: page size • n: new • e: edit • d: delete • r: refresh • esc: back"
			if m.page.res != nil && m.page.res.Name == "sales-orders" {
				help += " • i: invoice"
			}
		}
	case ViewDetail:
		help = "esc: back • e: edit • d: delete"
		if m.page.res != nil && m.page.res.Name == "sales-orders" {
			help += " • i: invoice"
		}
	case ViewDashboard:
		help = "↑/↓/pgup/pgdn: scroll • r: refresh • esc: back"
	case ViewConfirmDelete:
		help = "y: confirm • n: cancel"
	case ViewForm:
		help = "tab: next field • enter: submit • esc: cancel"
	case ViewInvoice:
		help = "tab: next field • ctrl+n: add line • ctrl+x: remove line • ctrl+s: download PDF • esc: back"
	}
	return helpStyle.Render(help)
}

func (m Model) renderCredits() string {
	return creditStyle.Render(fmt.Sprintf("%s • v%s", m.client.Config.Brand, Version))
}

func (m Model) renderDetail() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading...", m.spinner.View())
	}

	if m.detail == nil {
		return "\n  No data"
	}

	res := m.page.res
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(" %s: %s ", res.Singular, m.selectedID)) + "\n\n")

	for _, f := range res.Fields {
		val, _ := listview.Stringify(m.detail[f.Key])
		b.WriteString(fmt.Sprintf("  %-16s %s\n", f.Label+":", val))
	}

	if lines, ok := m.detail["items"].([]OrderLine); ok && len(lines) > 0 {
		b.WriteString(fmt.Sprintf("\n  Lines (%d):\n", len(lines)))
		for i, l := range lines {
			if i >= 10 {
				b.WriteString(fmt.Sprintf("  ... and %d more\n", len(lines)-10))
				break
			}
			desc := l.Description
			if desc == "" {
				desc = l.SKU
			}
			b.WriteString(fmt.Sprintf("    • %-28s %8s x %10s = %s\n",
				desc, l.Quantity.String(), l.Rate.StringFixed(2), m.client.FormatCurrency(l.Amount())))
		}
	}

	return boxStyle.Render(b.String())
}

func (m Model) renderConfirmDelete() string {
	content := fmt.Sprintf(`
  Delete %s "%s"?

  This action cannot be undone.

  [y] Yes, delete    [n] No, cancel
`, strings.ToLower(m.page.res.Singular), m.selectedID)

	return boxStyle.Render(content)
}

// RunTUI starts the TUI
func RunTUI(client *Client) error {
	p := tea.NewProgram(NewTUI(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
