package inv

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// loadDashboard fetches dashboard data
func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return dashboardLoadedMsg{m.client.FetchReport(ctx)}
	}
}

// renderDashboard renders the dashboard view with scrollable viewport
func (m Model) renderDashboard() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading dashboard...", m.spinner.View())
	}

	if m.dashboardData == nil {
		return "\n  No data available"
	}

	if !m.viewportReady {
		return "\n  Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  ↑↓ scroll • %.0f%% ", m.viewport.ScrollPercent()*100)))
	}

	return b.String()
}

// renderDashboardContent returns the dashboard content for the viewport
func (m Model) renderDashboardContent() string {
	if m.dashboardData == nil {
		return "No data available"
	}

	data := m.dashboardData
	var b strings.Builder

	b.WriteString(titleStyle.Render(" " + strings.ToUpper(m.client.Config.Brand) + " "))
	b.WriteString("\n\n")

	b.WriteString(m.renderDashboardStock(data))
	b.WriteString("\n")
	b.WriteString(m.renderDashboardSales(data))
	b.WriteString("\n")
	b.WriteString(m.renderDashboardPurchases(data))
	b.WriteString("\n")
	b.WriteString(m.renderDashboardMaster(data))
	b.WriteString("\n\n")

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	b.WriteString(helpStyle.Render(fmt.Sprintf("Updated: %s | Currency: %s", timestamp, m.client.Config.Currency)))

	if len(data.Errors) > 0 {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Warnings:"))
		for _, err := range data.Errors {
			b.WriteString(fmt.Sprintf("\n  - %s", err))
		}
	}

	return b.String()
}

// highlight renders n in the error style when it is non-zero.
func highlight(n int) string {
	if n > 0 {
		return errorStyle.Render(fmt.Sprintf("%d", n))
	}
	return fmt.Sprintf("%d", n)
}

func (m Model) renderDashboardStock(data *ReportData) string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("STOCK"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Total Items:        %d\n", data.TotalItems))
	b.WriteString(fmt.Sprintf("  Inventory Value:    %s\n", m.client.FormatCurrency(data.InventoryValue)))
	b.WriteString(fmt.Sprintf("  Low Stock Items:    %s\n", highlight(data.LowStockItems)))
	b.WriteString(fmt.Sprintf("  Zero Stock Items:   %s\n", highlight(data.ZeroStockItems)))

	return boxStyle.Render(b.String())
}

func (m Model) renderDashboardSales(data *ReportData) string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("SALES"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Open Orders:        %d\n", data.OpenSalesOrders))
	b.WriteString(fmt.Sprintf("  Open Order Value:   %s\n", m.client.FormatCurrency(data.OpenSalesValue)))
	b.WriteString(fmt.Sprintf("  Outstanding:        %s\n", m.client.FormatCurrency(data.OutstandingValue)))
	b.WriteString(fmt.Sprintf("  Pending Shipments:  %d\n", data.PendingShipments))

	if len(data.TopCustomers) > 0 {
		b.WriteString("\n  Top Customers:\n")
		for i, c := range data.TopCustomers {
			b.WriteString(fmt.Sprintf("    %d. %-24s %3d orders  %s\n", i+1, c.Name, c.Orders, m.client.FormatCurrency(c.Value)))
		}
	}

	return boxStyle.Render(b.String())
}

func (m Model) renderDashboardPurchases(data *ReportData) string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("PURCHASES"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Open POs:           %d\n", data.OpenPurchaseOrders))
	b.WriteString(fmt.Sprintf("  Open PO Value:      %s\n", m.client.FormatCurrency(data.OpenPurchaseValue)))

	return boxStyle.Render(b.String())
}

func (m Model) renderDashboardMaster(data *ReportData) string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("MASTER DATA"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Vendors:            %d\n", data.TotalVendors))
	b.WriteString(fmt.Sprintf("  Customers:          %d\n", data.TotalCustomers))
	b.WriteString(fmt.Sprintf("  Categories:         %d\n", data.TotalCategories))
	b.WriteString(fmt.Sprintf("  Price List Entries: %d\n", data.PriceEntries))

	return boxStyle.Render(b.String())
}
