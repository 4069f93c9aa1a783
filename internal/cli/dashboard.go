package cli

import (
	"fmt"

	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/spf13/cobra"
)

func newDashboardCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print stock, sales and purchasing metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeLog, err := opts.client()
			if err != nil {
				return err
			}
			defer closeLog()

			data := client.FetchReport(cmd.Context())
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, data)
			}

			money := client.FormatCurrency
			fmt.Fprintf(out, "%sSTOCK%s\n", inv.Cyan, inv.Reset)
			fmt.Fprintf(out, "  Total Items:        %d\n", data.TotalItems)
			fmt.Fprintf(out, "  Inventory Value:    %s\n", money(data.InventoryValue))
			fmt.Fprintf(out, "  Low Stock Items:    %d\n", data.LowStockItems)
			fmt.Fprintf(out, "  Zero Stock Items:   %d\n", data.ZeroStockItems)

			fmt.Fprintf(out, "\n%sSALES%s\n", inv.Cyan, inv.Reset)
			fmt.Fprintf(out, "  Open Orders:        %d\n", data.OpenSalesOrders)
			fmt.Fprintf(out, "  Open Order Value:   %s\n", money(data.OpenSalesValue))
			fmt.Fprintf(out, "  Outstanding:        %s\n", money(data.OutstandingValue))
			fmt.Fprintf(out, "  Pending Shipments:  %d\n", data.PendingShipments)
			for i, c := range data.TopCustomers {
				fmt.Fprintf(out, "    %d. %-24s %3d orders  %s\n", i+1, c.Name, c.Orders, money(c.Value))
			}

			fmt.Fprintf(out, "\n%sPURCHASES%s\n", inv.Cyan, inv.Reset)
			fmt.Fprintf(out, "  Open POs:           %d\n", data.OpenPurchaseOrders)
			fmt.Fprintf(out, "  Open PO Value:      %s\n", money(data.OpenPurchaseValue))

			fmt.Fprintf(out, "\n%sMASTER DATA%s\n", inv.Cyan, inv.Reset)
			fmt.Fprintf(out, "  Vendors:            %d\n", data.TotalVendors)
			fmt.Fprintf(out, "  Customers:          %d\n", data.TotalCustomers)
			fmt.Fprintf(out, "  Categories:         %d\n", data.TotalCategories)
			fmt.Fprintf(out, "  Price List Entries: %d\n", data.PriceEntries)

			if len(data.Errors) > 0 {
				fmt.Fprintf(out, "\n%sWarnings:%s\n", inv.Yellow, inv.Reset)
				for _, e := range data.Errors {
					fmt.Fprintf(out, "  - %s\n", e)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print metrics as JSON")
	return cmd
}
