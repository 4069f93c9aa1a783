package inv

import (
	"encoding/json"
	"fmt"

	"github.com/dhruv-4604/inventory-cli/internal/listview"
	"github.com/shopspring/decimal"
)

// ID is a record identifier. Backends send either strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

// money exposes a decimal as a numeric record value.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// Item is a stocked product.
type Item struct {
	ID           ID              `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	Quantity     float64         `json:"quantity"`
	ReorderLevel float64         `json:"reorder_level"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	Active       bool            `json:"active"`
}

func (i Item) Record() listview.Record {
	return listview.Record{
		"id":            string(i.ID),
		"sku":           i.SKU,
		"name":          i.Name,
		"category":      i.Category,
		"unit":          i.Unit,
		"quantity":      i.Quantity,
		"reorder_level": i.ReorderLevel,
		"cost":          money(i.Cost),
		"price":         money(i.Price),
		"active":        i.Active,
	}
}

// LowStock reports whether the item is at or below its reorder level.
func (i Item) LowStock() bool {
	return i.ReorderLevel > 0 && i.Quantity <= i.ReorderLevel
}

type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Parent      string `json:"parent"`
}

func (c Category) Record() listview.Record {
	return listview.Record{
		"id":          string(c.ID),
		"name":        c.Name,
		"description": c.Description,
		"parent":      c.Parent,
	}
}

type Vendor struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Active      bool   `json:"active"`
}

func (v Vendor) Record() listview.Record {
	return listview.Record{
		"id":           string(v.ID),
		"name":         v.Name,
		"contact_name": v.ContactName,
		"email":        v.Email,
		"phone":        v.Phone,
		"address":      v.Address,
		"city":         v.City,
		"country":      v.Country,
		"active":       v.Active,
	}
}

type Customer struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Country     string          `json:"country"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

func (c Customer) Record() listview.Record {
	return listview.Record{
		"id":           string(c.ID),
		"name":         c.Name,
		"email":        c.Email,
		"phone":        c.Phone,
		"address":      c.Address,
		"city":         c.City,
		"country":      c.Country,
		"credit_limit": money(c.CreditLimit),
	}
}

// OrderLine is one line of a sales or purchase order.
type OrderLine struct {
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// Amount is quantity * rate rounded to cents.
func (l OrderLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.Rate).Round(2)
}

type SalesOrder struct {
	ID           ID              `json:"id"`
	Number       string          `json:"number"`
	Customer     string          `json:"customer"`
	BillTo       string          `json:"bill_to"`
	ShipTo       string          `json:"ship_to"`
	Date         string          `json:"date"`
	DueDate      string          `json:"due_date"`
	PaymentTerms string          `json:"payment_terms"`
	CustomerPO   string          `json:"customer_po"`
	Status       string          `json:"status"`
	Currency     string          `json:"currency"`
	TaxPercent   decimal.Decimal `json:"tax_percent"`
	Discount     decimal.Decimal `json:"discount"`
	Shipping     decimal.Decimal `json:"shipping"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	Total        decimal.Decimal `json:"total"`
	Items        []OrderLine     `json:"items"`
}

// Record keeps the order lines as a nested value, so they never take part
// in search.
func (o SalesOrder) Record() listview.Record {
	return listview.Record{
		"id":            string(o.ID),
		"number":        o.Number,
		"customer":      o.Customer,
		"bill_to":       o.BillTo,
		"ship_to":       o.ShipTo,
		"date":          o.Date,
		"due_date":      o.DueDate,
		"payment_terms": o.PaymentTerms,
		"customer_po":   o.CustomerPO,
		"status":        o.Status,
		"currency":      o.Currency,
		"tax_percent":   money(o.TaxPercent),
		"discount":      money(o.Discount),
		"shipping":      money(o.Shipping),
		"total":         money(o.Total),
		"amount_paid":   money(o.AmountPaid),
		"lines":         len(o.Items),
		"items":         o.Items,
	}
}

type PurchaseOrder struct {
	ID           ID              `json:"id"`
	Number       string          `json:"number"`
	Vendor       string          `json:"vendor"`
	Date         string          `json:"date"`
	ExpectedDate string          `json:"expected_date"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	Items        []OrderLine     `json:"items"`
}

func (o PurchaseOrder) Record() listview.Record {
	return listview.Record{
		"id":            string(o.ID),
		"number":        o.Number,
		"vendor":        o.Vendor,
		"date":          o.Date,
		"expected_date": o.ExpectedDate,
		"status":        o.Status,
		"total":         money(o.Total),
		"lines":         len(o.Items),
		"items":         o.Items,
	}
}

type Shipment struct {
	ID             ID     `json:"id"`
	Number         string `json:"number"`
	SalesOrder     string `json:"sales_order"`
	Customer       string `json:"customer"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
	ShipDate       string `json:"ship_date"`
	Status         string `json:"status"`
}

func (s Shipment) Record() listview.Record {
	return listview.Record{
		"id":              string(s.ID),
		"number":          s.Number,
		"sales_order":     s.SalesOrder,
		"customer":        s.Customer,
		"carrier":         s.Carrier,
		"tracking_number": s.TrackingNumber,
		"ship_date":       s.ShipDate,
		"status":          s.Status,
	}
}

type PriceListEntry struct {
	ID        ID              `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	ValidFrom string          `json:"valid_from"`
	ValidTo   string          `json:"valid_to"`
}

func (p PriceListEntry) Record() listview.Record {
	return listview.Record{
		"id":         string(p.ID),
		"sku":        p.SKU,
		"name":       p.Name,
		"price":      money(p.Price),
		"currency":   p.Currency,
		"valid_from": p.ValidFrom,
		"valid_to":   p.ValidTo,
	}
}

type recorder interface {
	Record() listview.Record
}

// decodeList decodes a JSON array into typed entities and returns their records.
func decodeList[T recorder](raw json.RawMessage) ([]listview.Record, error) {
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	out := make([]listview.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Record()
	}
	return out, nil
}

func decodeOne[T recorder](raw json.RawMessage) (listview.Record, error) {
	var row T
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return row.Record(), nil
}

// closedStatuses are order/shipment statuses that no longer need attention.
var closedStatuses = map[string]bool{
	"completed": true,
	"closed":    true,
	"cancelled": true,
	"canceled":  true,
	"delivered": true,
	"paid":      true,
	"received":  true,
}
