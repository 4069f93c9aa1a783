package invoice

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// fileParty mirrors Party in invoice definition files.
type fileParty struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Email   string `yaml:"email" validate:"omitempty,email"`
}

type fileItem struct {
	Description string `yaml:"description" validate:"required"`
	Quantity    string `yaml:"quantity"`
	Rate        string `yaml:"rate"`
}

// definition is the on-disk shape of an invoice. Numbers are kept as strings
// so they pass through the same parsers as interactive input.
type definition struct {
	Number        string     `yaml:"number" validate:"required"`
	PurchaseOrder string     `yaml:"purchase_order"`
	Date          string     `yaml:"date"`
	DueDate       string     `yaml:"due_date"`
	PaymentTerms  string     `yaml:"payment_terms"`
	Currency      string     `yaml:"currency" validate:"omitempty,alpha,len=3"`
	From          fileParty  `yaml:"from"`
	BillTo        fileParty  `yaml:"bill_to"`
	ShipTo        fileParty  `yaml:"ship_to"`
	Items         []fileItem `yaml:"items" validate:"dive"`
	TaxPercent    string     `yaml:"tax_percent"`
	Discount      string     `yaml:"discount"`
	Shipping      string     `yaml:"shipping"`
	AmountPaid    string     `yaml:"amount_paid"`
	Notes         string     `yaml:"notes"`
	Terms         string     `yaml:"terms"`
}

var validate = validator.New()

// LoadFile reads an invoice definition from a YAML file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read invoice file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse builds a Document from YAML. Every numeric field goes through the
// same boundary checks as UpdateLineItem and SetAdjustment.
func Parse(data []byte) (*Document, error) {
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing invoice: %w", err)
	}
	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("invalid invoice: %w", describeValidation(err))
	}

	doc := &Document{Header: Header{
		Number:        def.Number,
		PurchaseOrder: def.PurchaseOrder,
		From:          Party(def.From),
		BillTo:        Party(def.BillTo),
		ShipTo:        Party(def.ShipTo),
		Date:          def.Date,
		DueDate:       def.DueDate,
		PaymentTerms:  def.PaymentTerms,
		Currency:      strings.ToUpper(def.Currency),
		Notes:         def.Notes,
		Terms:         def.Terms,
	}}

	for i, it := range def.Items {
		doc.AddLineItem()
		if err := doc.SetDescription(i, it.Description); err != nil {
			return nil, err
		}
		if it.Quantity != "" {
			if err := doc.UpdateLineItem(i, FieldQuantity, it.Quantity); err != nil {
				return nil, fmt.Errorf("item %d: %w", i+1, err)
			}
		}
		if err := doc.UpdateLineItem(i, FieldRate, it.Rate); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	adjustments := []struct {
		kind Adjustment
		raw  string
	}{
		{AdjustTax, def.TaxPercent},
		{AdjustDiscount, def.Discount},
		{AdjustShipping, def.Shipping},
		{AdjustPaid, def.AmountPaid},
	}
	for _, a := range adjustments {
		if err := doc.SetAdjustment(a.kind, a.raw); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// describeValidation flattens validator errors into "field: tag" pairs.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, ", "))
}
