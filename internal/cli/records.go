package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/dhruv-4604/inventory-cli/internal/listview"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// pageJSON is the --json output of list.
type pageJSON struct {
	Rows         []listview.Record `json:"rows"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	PageCount    int               `json:"page_count"`
	TotalMatched int               `json:"total_matched"`
	Total        int               `json:"total"`
}

func newListCmd(opts *options) *cobra.Command {
	var (
		search   string
		sortBy   string
		desc     bool
		page     int
		pageSize int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Search, sort and page through a collection",
		Long: "Fetch a whole collection and print one page of it. --search keeps records where any scalar field " +
			"contains the text (ignoring case); --sort orders by one field before paging.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := inv.LookupResource(args[0])
			if err != nil {
				return err
			}
			if sortBy != "" && !hasField(res, sortBy) {
				return fmt.Errorf("%s cannot be sorted by %q", res.Title, sortBy)
			}
			if desc && sortBy == "" {
				return errors.New("--desc needs --sort")
			}

			client, closeLog, err := opts.client()
			if err != nil {
				return err
			}
			defer closeLog()

			if pageSize == 0 {
				pageSize = client.Config.PageSize
			}
			state := listview.NewState(pageSize).WithQuery(search).WithPage(page)
			if sortBy != "" {
				state = state.ToggleSort(sortBy)
				if desc {
					state = state.ToggleSort(sortBy)
				}
			}

			records, err := client.List(cmd.Context(), res)
			if err != nil {
				return err
			}
			view, err := state.Apply(records)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, pageJSON{
					Rows:         view.Rows,
					Page:         state.Page.Number,
					PageSize:     state.Page.Size,
					PageCount:    view.PageCount,
					TotalMatched: view.TotalMatched,
					Total:        len(records),
				})
			}

			fmt.Fprintln(out, renderTable(res, view.Rows))
			fmt.Fprintln(out, footerStyle.Render(fmt.Sprintf("page %d/%d (%d matched of %d, sort: %s)",
				state.Page.Number, view.PageCount, view.TotalMatched, len(records), state.SortLabel())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Keep records containing this text")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Field to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (default: PAGE_SIZE from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")

	return cmd
}

func hasField(res *inv.Resource, field string) bool {
	if field == "id" {
		return true
	}
	if _, ok := res.Field(field); ok {
		return true
	}
	return slices.ContainsFunc(res.Columns, func(c inv.Column) bool { return c.Field == field })
}

func renderTable(res *inv.Resource, rows []listview.Record) string {
	headers := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		headers[i] = c.Title
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)

	for _, rec := range rows {
		cells := make([]string, len(res.Columns))
		for i, c := range res.Columns {
			cells[i], _ = listview.Stringify(rec[c.Field])
		}
		t.Row(cells...)
	}
	return t.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newGetCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := inv.LookupResource(args[0])
			if err != nil {
				return err
			}
			client, closeLog, err := opts.client()
			if err != nil {
				return err
			}
			defer closeLog()

			rec, err := client.Get(cmd.Context(), res, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, rec)
			}
			fmt.Fprintf(out, "%s%s %s%s\n", inv.Cyan, res.Singular, args[1], inv.Reset)
			for _, f := range res.Fields {
				val, _ := listview.Stringify(rec[f.Key])
				fmt.Fprintf(out, "  %-16s %s\n", f.Label+":", val)
			}
			if lines, ok := rec["items"].([]inv.OrderLine); ok && len(lines) > 0 {
				fmt.Fprintf(out, "  Lines:\n")
				for _, l := range lines {
					desc := l.Description
					if desc == "" {
						desc = l.SKU
					}
					fmt.Fprintf(out, "    - %-28s %8s x %10s = %s\n",
						desc, l.Quantity.String(), l.Rate.StringFixed(2), client.FormatCurrency(l.Amount()))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")
	return cmd
}

func newCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "create <resource> key=value...",
		Short:   "Create a record",
		Example: "  inv-cli create items sku=B-100 name=\"Hex bolt\" quantity=250 price=0.35",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := inv.LookupResource(args[0])
			if err != nil {
				return err
			}
			values, err := inv.ParseAssignments(args[1:])
			if err != nil {
				return err
			}
			payload, err := inv.BuildPayload(res, values, false)
			if err != nil {
				return err
			}

			client, closeLog, err := opts.client()
			if err != nil {
				return err
			}
			defer closeLog()

			rec, err := client.Create(cmd.Context(), res, payload)
			if err != nil {
				return err
			}
			msg := res.Singular + " created"
			if rec != nil {
				if id, ok := listview.Stringify(rec["id"]); ok && id != "" {
					msg += ": " + id
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s✓ %s%s\n", inv.Green, msg, inv.Reset)
			return nil
		},
	}
}

func newUpdateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "update <resource> <id> key=value...",
		Short:   "Change fields of a record",
		Example: "  inv-cli update items 42 price=0.40 category=",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := inv.LookupResource(args[0])
			if err != nil {
				return err
			}
			values, err := inv.ParseAssignments(args[2:])
			if err != nil {
				return err
			}
			payload, err := inv.BuildPayload(res, values, true)
			if err != nil {
				return err
			}

			client, closeLog, err := opts.client()
			if err != nil {
				return err
			}
			defer closeLog()

			if _, err := client.Update(cmd.Context(), res, args[1], payload); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s✓ %s updated: %s%s\n", inv.Green, res.Singular, args[1], inv.Reset)
			return nil
		},
	}
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := inv.LookupResource(args[0])
			if err != nil {
				return err
			}
			client, closeLog, err := opts.client()
			if err != nil {
				return err
			}
			defer closeLog()

			if err := client.Delete(cmd.Context(), res, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s✓ Deleted %s %s%s\n", inv.Green, res.Singular, args[1], inv.Reset)
			return nil
		},
	}
}
