package cli

import (
	"fmt"
	"io"

	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/dhruv-4604/inventory-cli/internal/invoice"
	"github.com/spf13/cobra"
)

// adjustmentFlags override invoice adjustments from the command line.
type adjustmentFlags struct {
	tax, discount, shipping, paid string
}

func (a *adjustmentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.tax, "tax", "", "Tax percent")
	cmd.Flags().StringVar(&a.discount, "discount", "", "Discount amount")
	cmd.Flags().StringVar(&a.shipping, "shipping", "", "Shipping amount")
	cmd.Flags().StringVar(&a.paid, "paid", "", "Amount already paid")
}

// apply sets every adjustment whose flag was given.
func (a *adjustmentFlags) apply(cmd *cobra.Command, doc *invoice.Document) error {
	overrides := []struct {
		flag  string
		kind  invoice.Adjustment
		value string
	}{
		{"tax", invoice.AdjustTax, a.tax},
		{"discount", invoice.AdjustDiscount, a.discount},
		{"shipping", invoice.AdjustShipping, a.shipping},
		{"paid", invoice.AdjustPaid, a.paid},
	}
	for _, o := range overrides {
		if !cmd.Flags().Changed(o.flag) {
			continue
		}
		if err := doc.SetAdjustment(o.kind, o.value); err != nil {
			return fmt.Errorf("--%s: %w", o.flag, err)
		}
	}
	return nil
}

func newInvoiceCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Render invoices as PDF",
	}
	cmd.AddCommand(newInvoiceRenderCmd())
	cmd.AddCommand(newInvoiceFromOrderCmd(opts))
	return cmd
}

func newInvoiceRenderCmd() *cobra.Command {
	var (
		outDir string
		adj    adjustmentFlags
	)

	cmd := &cobra.Command{
		Use:   "render <file.yaml>",
		Short: "Render an invoice definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := invoice.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := adj.apply(cmd, doc); err != nil {
				return err
			}
			return saveAndReport(cmd.OutOrStdout(), doc, outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	adj.register(cmd)
	return cmd
}

func newInvoiceFromOrderCmd(opts *options) *cobra.Command {
	var (
		outDir string
		adj    adjustmentFlags
	)

	cmd := &cobra.Command{
		Use:   "from-order <sales-order-id>",
		Short: "Render the invoice for a sales order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeLog, err := opts.client()
			if err != nil {
				return err
			}
			defer closeLog()

			doc, err := client.LoadInvoiceForOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := adj.apply(cmd, doc); err != nil {
				return err
			}
			if outDir == "" {
				outDir = client.Config.InvoiceDir
			}
			return saveAndReport(cmd.OutOrStdout(), doc, outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: INVOICE_DIR from config)")
	adj.register(cmd)
	return cmd
}

func saveAndReport(out io.Writer, doc *invoice.Document, dir string) error {
	path, err := inv.SaveInvoice(doc, dir)
	if err != nil {
		return err
	}
	for _, l := range doc.Layout().Footer {
		value := l.Value
		if doc.Currency != "" {
			value = doc.Currency + " " + value
		}
		fmt.Fprintf(out, "  %-16s %14s\n", l.Label, value)
	}
	fmt.Fprintf(out, "%s✓ Saved %s%s\n", inv.Green, path, inv.Reset)
	return nil
}
