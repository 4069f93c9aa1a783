package inv

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// ReportData holds all dashboard metrics
type ReportData struct {
	// Stock
	TotalItems     int
	InventoryValue decimal.Decimal
	LowStockItems  int
	ZeroStockItems int

	// Sales
	OpenSalesOrders  int
	OpenSalesValue   decimal.Decimal
	OutstandingValue decimal.Decimal
	PendingShipments int
	TopCustomers     []CustomerStat

	// Purchasing
	OpenPurchaseOrders int
	OpenPurchaseValue  decimal.Decimal

	// Master data
	TotalVendors    int
	TotalCustomers  int
	TotalCategories int
	PriceEntries    int

	// Errors (for partial data display)
	Errors []string
}

// CustomerStat holds customer statistics
type CustomerStat struct {
	Name   string
	Orders int
	Value  decimal.Decimal
}

func isOpen(status string) bool {
	return !closedStatuses[strings.ToLower(strings.TrimSpace(status))]
}

// FetchReport loads every dashboard metric concurrently. A failing source is
// recorded in Errors and leaves its metrics at zero.
func (c *Client) FetchReport(ctx context.Context) *ReportData {
	var wg sync.WaitGroup
	var mu sync.Mutex
	data := &ReportData{}

	fetchers := []func(context.Context, *ReportData, *sync.Mutex){
		c.fetchStockMetrics,
		c.fetchSalesMetrics,
		c.fetchShipmentMetrics,
		c.fetchPurchaseMetrics,
		c.fetchMasterMetrics,
	}
	wg.Add(len(fetchers))
	for _, fetch := range fetchers {
		go func() {
			defer wg.Done()
			fetch(ctx, data, &mu)
		}()
	}
	wg.Wait()

	slices.Sort(data.Errors)
	return data
}

func (c *Client) reportFailure(data *ReportData, mu *sync.Mutex, what string, err error) {
	LogError(c.Log, "report", "FetchReport", what, nil, err)
	mu.Lock()
	data.Errors = append(data.Errors, fmt.Sprintf("Failed to fetch %s", what))
	mu.Unlock()
}

// fetchStockMetrics fetches stock-related metrics
func (c *Client) fetchStockMetrics(ctx context.Context, data *ReportData, mu *sync.Mutex) {
	items, err := fetchAll[Item](ctx, c, "items")
	if err != nil {
		c.reportFailure(data, mu, "items", err)
		return
	}

	value := decimal.Zero
	low, zero := 0, 0
	for _, it := range items {
		value = value.Add(it.Cost.Mul(decimal.NewFromFloat(it.Quantity)))
		if it.Quantity <= 0 {
			zero++
		} else if it.LowStock() {
			low++
		}
	}

	mu.Lock()
	data.TotalItems = len(items)
	data.InventoryValue = value.Round(2)
	data.LowStockItems = low
	data.ZeroStockItems = zero
	mu.Unlock()
}

// fetchSalesMetrics fetches open orders and the top customers by order value.
func (c *Client) fetchSalesMetrics(ctx context.Context, data *ReportData, mu *sync.Mutex) {
	orders, err := fetchAll[SalesOrder](ctx, c, "sales-orders")
	if err != nil {
		c.reportFailure(data, mu, "sales orders", err)
		return
	}

	open := 0
	openValue, outstanding := decimal.Zero, decimal.Zero
	byCustomer := map[string]*CustomerStat{}
	for _, so := range orders {
		if isOpen(so.Status) {
			open++
			openValue = openValue.Add(so.Total)
		}
		if due := so.Total.Sub(so.AmountPaid); due.IsPositive() {
			outstanding = outstanding.Add(due)
		}
		stat, ok := byCustomer[so.Customer]
		if !ok {
			stat = &CustomerStat{Name: so.Customer}
			byCustomer[so.Customer] = stat
		}
		stat.Orders++
		stat.Value = stat.Value.Add(so.Total)
	}

	top := make([]CustomerStat, 0, len(byCustomer))
	for _, s := range byCustomer {
		top = append(top, *s)
	}
	slices.SortFunc(top, func(a, b CustomerStat) int {
		if d := b.Value.Cmp(a.Value); d != 0 {
			return d
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(top) > 5 {
		top = top[:5]
	}

	mu.Lock()
	data.OpenSalesOrders = open
	data.OpenSalesValue = openValue
	data.OutstandingValue = outstanding
	data.TopCustomers = top
	mu.Unlock()
}

func (c *Client) fetchShipmentMetrics(ctx context.Context, data *ReportData, mu *sync.Mutex) {
	shipments, err := fetchAll[Shipment](ctx, c, "shipments")
	if err != nil {
		c.reportFailure(data, mu, "shipments", err)
		return
	}
	pending := 0
	for _, s := range shipments {
		if isOpen(s.Status) {
			pending++
		}
	}
	mu.Lock()
	data.PendingShipments = pending
	mu.Unlock()
}

// fetchPurchaseMetrics fetches purchasing-related metrics
func (c *Client) fetchPurchaseMetrics(ctx context.Context, data *ReportData, mu *sync.Mutex) {
	orders, err := fetchAll[PurchaseOrder](ctx, c, "purchase-orders")
	if err != nil {
		c.reportFailure(data, mu, "purchase orders", err)
		return
	}
	open := 0
	value := decimal.Zero
	for _, po := range orders {
		if isOpen(po.Status) {
			open++
			value = value.Add(po.Total)
		}
	}
	mu.Lock()
	data.OpenPurchaseOrders = open
	data.OpenPurchaseValue = value
	mu.Unlock()
}

// fetchMasterMetrics counts vendors, customers, categories and price entries.
func (c *Client) fetchMasterMetrics(ctx context.Context, data *ReportData, mu *sync.Mutex) {
	counts := []struct {
		name string
		dst  *int
	}{
		{"vendors", &data.TotalVendors},
		{"customers", &data.TotalCustomers},
		{"categories", &data.TotalCategories},
		{"price-list", &data.PriceEntries},
	}
	for _, cnt := range counts {
		res, err := LookupResource(cnt.name)
		if err != nil {
			continue
		}
		records, err := c.List(ctx, res)
		if err != nil {
			c.reportFailure(data, mu, cnt.name, err)
			continue
		}
		mu.Lock()
		*cnt.dst = len(records)
		mu.Unlock()
	}
}
