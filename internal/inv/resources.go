package inv

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dhruv-4604/inventory-cli/internal/listview"
	"github.com/shopspring/decimal"
)

// FieldKind tells form and CLI input how to convert a raw string.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindBool
)

// Column is one table column of a resource list.
type Column struct {
	Field string
	Title string
	Width int
}

// FormField is one editable field of a resource.
type FormField struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	// Rule is an extra validator tag applied to non-empty values.
	Rule string
}

// Resource describes one REST collection and how it is shown.
type Resource struct {
	Name     string
	Title    string
	Singular string
	Aliases  []string
	Columns  []Column
	Fields   []FormField

	decodeList func(json.RawMessage) ([]listview.Record, error)
	decodeOne  func(json.RawMessage) (listview.Record, error)
}

// Path is the collection endpoint, relative to API_URL.
func (r *Resource) Path() string {
	return r.Name
}

// Field returns the form field named key.
func (r *Resource) Field(key string) (FormField, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FormField{}, false
}

var Resources = []*Resource{
	{
		Name: "items", Title: "Items", Singular: "Item",
		Aliases: []string{"item", "products", "product"},
		Columns: []Column{
			{"sku", "SKU", 12}, {"name", "Name", 28}, {"category", "Category", 16},
			{"quantity", "Qty", 8}, {"unit", "Unit", 6}, {"price", "Price", 10},
		},
		Fields: []FormField{
			{Key: "sku", Label: "SKU", Required: true, Rule: "max=64"},
			{Key: "name", Label: "Name", Required: true},
			{Key: "category", Label: "Category"},
			{Key: "unit", Label: "Unit"},
			{Key: "quantity", Label: "Quantity", Kind: KindNumber},
			{Key: "reorder_level", Label: "Reorder Level", Kind: KindNumber},
			{Key: "cost", Label: "Cost", Kind: KindNumber},
			{Key: "price", Label: "Price", Kind: KindNumber},
			{Key: "active", Label: "Active", Kind: KindBool},
		},
		decodeList: decodeList[Item],
		decodeOne:  decodeOne[Item],
	},
	{
		Name: "categories", Title: "Categories", Singular: "Category",
		Aliases: []string{"category", "groups"},
		Columns: []Column{
			{"name", "Name", 24}, {"parent", "Parent", 20}, {"description", "Description", 40},
		},
		Fields: []FormField{
			{Key: "name", Label: "Name", Required: true},
			{Key: "parent", Label: "Parent"},
			{Key: "description", Label: "Description"},
		},
		decodeList: decodeList[Category],
		decodeOne:  decodeOne[Category],
	},
	{
		Name: "vendors", Title: "Vendors", Singular: "Vendor",
		Aliases: []string{"vendor", "suppliers", "supplier"},
		Columns: []Column{
			{"name", "Name", 24}, {"contact_name", "Contact", 18}, {"email", "Email", 26},
			{"phone", "Phone", 14}, {"city", "City", 14},
		},
		Fields: []FormField{
			{Key: "name", Label: "Name", Required: true},
			{Key: "contact_name", Label: "Contact"},
			{Key: "email", Label: "Email", Rule: "email"},
			{Key: "phone", Label: "Phone", Rule: "max=32"},
			{Key: "address", Label: "Address"},
			{Key: "city", Label: "City"},
			{Key: "country", Label: "Country"},
			{Key: "active", Label: "Active", Kind: KindBool},
		},
		decodeList: decodeList[Vendor],
		decodeOne:  decodeOne[Vendor],
	},
	{
		Name: "customers", Title: "Customers", Singular: "Customer",
		Aliases: []string{"customer", "clients"},
		Columns: []Column{
			{"name", "Name", 24}, {"email", "Email", 26}, {"phone", "Phone", 14},
			{"city", "City", 14}, {"credit_limit", "Credit", 10},
		},
		Fields: []FormField{
			{Key: "name", Label: "Name", Required: true},
			{Key: "email", Label: "Email", Rule: "email"},
			{Key: "phone", Label: "Phone", Rule: "max=32"},
			{Key: "address", Label: "Address"},
			{Key: "city", Label: "City"},
			{Key: "country", Label: "Country"},
			{Key: "credit_limit", Label: "Credit Limit", Kind: KindNumber},
		},
		decodeList: decodeList[Customer],
		decodeOne:  decodeOne[Customer],
	},
	{
		Name: "sales-orders", Title: "Sales Orders", Singular: "Sales Order",
		Aliases: []string{"sales-order", "so", "orders"},
		Columns: []Column{
			{"number", "Number", 12}, {"customer", "Customer", 22}, {"date", "Date", 11},
			{"status", "Status", 11}, {"lines", "Lines", 6}, {"total", "Total", 12},
		},
		Fields: []FormField{
			{Key: "number", Label: "Number", Required: true},
			{Key: "customer", Label: "Customer", Required: true},
			{Key: "date", Label: "Date", Rule: "datetime=2006-01-02"},
			{Key: "due_date", Label: "Due Date", Rule: "datetime=2006-01-02"},
			{Key: "payment_terms", Label: "Payment Terms"},
			{Key: "status", Label: "Status"},
			{Key: "tax_percent", Label: "Tax %", Kind: KindNumber},
			{Key: "discount", Label: "Discount", Kind: KindNumber},
			{Key: "shipping", Label: "Shipping", Kind: KindNumber},
		},
		decodeList: decodeList[SalesOrder],
		decodeOne:  decodeOne[SalesOrder],
	},
	{
		Name: "purchase-orders", Title: "Purchase Orders", Singular: "Purchase Order",
		Aliases: []string{"purchase-order", "po"},
		Columns: []Column{
			{"number", "Number", 12}, {"vendor", "Vendor", 22}, {"date", "Date", 11},
			{"expected_date", "Expected", 11}, {"status", "Status", 11}, {"total", "Total", 12},
		},
		Fields: []FormField{
			{Key: "number", Label: "Number", Required: true},
			{Key: "vendor", Label: "Vendor", Required: true},
			{Key: "date", Label: "Date", Rule: "datetime=2006-01-02"},
			{Key: "expected_date", Label: "Expected Date", Rule: "datetime=2006-01-02"},
			{Key: "status", Label: "Status"},
		},
		decodeList: decodeList[PurchaseOrder],
		decodeOne:  decodeOne[PurchaseOrder],
	},
	{
		Name: "shipments", Title: "Shipments", Singular: "Shipment",
		Aliases: []string{"shipment", "deliveries"},
		Columns: []Column{
			{"number", "Number", 12}, {"sales_order", "Order", 12}, {"customer", "Customer", 20},
			{"carrier", "Carrier", 12}, {"ship_date", "Shipped", 11}, {"status", "Status", 11},
		},
		Fields: []FormField{
			{Key: "number", Label: "Number", Required: true},
			{Key: "sales_order", Label: "Sales Order", Required: true},
			{Key: "customer", Label: "Customer"},
			{Key: "carrier", Label: "Carrier"},
			{Key: "tracking_number", Label: "Tracking Number"},
			{Key: "ship_date", Label: "Ship Date", Rule: "datetime=2006-01-02"},
			{Key: "status", Label: "Status"},
		},
		decodeList: decodeList[Shipment],
		decodeOne:  decodeOne[Shipment],
	},
	{
		Name: "price-list", Title: "Price List", Singular: "Price",
		Aliases: []string{"prices", "price"},
		Columns: []Column{
			{"sku", "SKU", 12}, {"name", "Name", 28}, {"price", "Price", 10},
			{"currency", "Cur", 4}, {"valid_from", "From", 11}, {"valid_to", "To", 11},
		},
		Fields: []FormField{
			{Key: "sku", Label: "SKU", Required: true},
			{Key: "name", Label: "Name"},
			{Key: "price", Label: "Price", Kind: KindNumber, Required: true},
			{Key: "currency", Label: "Currency", Rule: "alpha,len=3"},
			{Key: "valid_from", Label: "Valid From", Rule: "datetime=2006-01-02"},
			{Key: "valid_to", Label: "Valid To", Rule: "datetime=2006-01-02"},
		},
		decodeList: decodeList[PriceListEntry],
		decodeOne:  decodeOne[PriceListEntry],
	},
}

// LookupResource finds a resource by name or alias, case-insensitively.
func LookupResource(name string) (*Resource, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range Resources {
		if r.Name == name || slices.Contains(r.Aliases, name) {
			return r, nil
		}
	}
	names := make([]string, len(Resources))
	for i, r := range Resources {
		names[i] = r.Name
	}
	return nil, fmt.Errorf("unknown resource %q (valid: %s)", name, strings.Join(names, ", "))
}

// BuildPayload converts raw form or command-line values into a JSON body.
// With partial set, fields absent from values are left out and required
// fields are only checked when present.
func BuildPayload(res *Resource, values map[string]string, partial bool) (map[string]any, error) {
	for key := range values {
		if _, ok := res.Field(key); !ok {
			return nil, fmt.Errorf("%s has no field %q", res.Singular, key)
		}
	}

	payload := make(map[string]any, len(values))
	for _, f := range res.Fields {
		raw, present := values[f.Key]
		value := strings.TrimSpace(raw)

		if f.Required && (!partial || present) {
			if err := validate.Var(value, "required"); err != nil {
				return nil, fmt.Errorf("%s is required", f.Label)
			}
		}
		if !present || (value == "" && !partial) {
			continue
		}
		if value != "" && f.Rule != "" {
			if err := validate.Var(value, f.Rule); err != nil {
				return nil, fmt.Errorf("%s: invalid value %q", f.Label, value)
			}
		}

		switch f.Kind {
		case KindNumber:
			if value == "" {
				payload[f.Key] = nil
				continue
			}
			n, err := decimal.NewFromString(value)
			if err != nil || n.IsNegative() {
				return nil, fmt.Errorf("%s must be a non-negative number, got %q", f.Label, value)
			}
			payload[f.Key] = json.Number(n.String())
		case KindBool:
			if value == "" {
				payload[f.Key] = false
				continue
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%s must be true or false, got %q", f.Label, value)
			}
			payload[f.Key] = b
		default:
			payload[f.Key] = value
		}
	}
	return payload, nil
}

// ParseAssignments splits key=value command-line arguments.
func ParseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		values[key] = value
	}
	return values, nil
}

// FormValues renders a record's editable fields as strings for a form.
func FormValues(res *Resource, rec listview.Record) map[string]string {
	values := make(map[string]string, len(res.Fields))
	for _, f := range res.Fields {
		if s, ok := listview.Stringify(rec[f.Key]); ok {
			values[f.Key] = s
		}
	}
	return values
}
