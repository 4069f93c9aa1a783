package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/dhruv-4604/inventory-cli/internal/listview"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

// csvHeader is the column order of exported files: the id followed by
// every editable field.
func csvHeader(res *inv.Resource) []string {
	header := []string{"id"}
	for _, f := range res.Fields {
		header = append(header, f.Key)
	}
	return header
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		outputFile string
		search     string
		sortBy     string
		desc       bool
	)

	cmd := &cobra.Command{
		Use:     "export <resource>",
		Short:   "Write a collection to a CSV or XLSX file",
		Example: "  inv-cli export items -o items.csv --search Fasteners --sort sku\n  inv-cli export customers -o customers.xlsx",
		Args:    cobra.ExactArgs(1),
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

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%sExporting %s...%s\n", inv.Blue, res.Title, inv.Reset)

			records, err := client.List(cmd.Context(), res)
			if err != nil {
				return err
			}
			state := listview.NewState(max(len(records), 1)).WithQuery(search)
			if sortBy != "" {
				state = state.ToggleSort(sortBy)
				if desc {
					state = state.ToggleSort(sortBy)
				}
			}
			view, err := state.Apply(records)
			if err != nil {
				return err
			}

			header := csvHeader(res)
			rows := make([][]any, 0, len(view.Rows))
			for _, rec := range view.Rows {
				row := make([]any, len(header))
				for i, col := range header {
					row[i] = rec[col]
				}
				rows = append(rows, row)
			}
			if err := writeTable(outputFile, header, rows); err != nil {
				return err
			}

			fmt.Fprintf(out, "%s✓ Exported %d %s to %s%s\n", inv.Green, len(view.Rows), res.Title, outputFile, inv.Reset)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (.csv or .xlsx)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Keep records containing this text")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Field to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	var (
		inputFile string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import <resource>",
		Short: "Create records from a CSV or XLSX file",
		Long: "Each data row becomes one create request. The header names fields as in `create`; " +
			"an id column is ignored. Invalid rows are skipped and reported.",
		Example: "  inv-cli import items -f items.csv --dry-run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := inv.LookupResource(args[0])
			if err != nil {
				return err
			}

			rows, err := readTable(inputFile)
			if err != nil {
				return err
			}
			if len(rows) < 2 {
				return errors.New("file is empty or has no data rows")
			}

			var client *inv.Client
			if !dryRun {
				c, closeLog, err := opts.client()
				if err != nil {
					return err
				}
				defer closeLog()
				client = c
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "%s[DRY RUN] Importing %s from: %s%s\n", inv.Yellow, res.Title, inputFile, inv.Reset)
			} else {
				fmt.Fprintf(out, "%sImporting %s from: %s%s\n", inv.Blue, res.Title, inputFile, inv.Reset)
			}

			header := rows[0]
			created, skipped, failed := 0, 0, 0
			for i, row := range rows[1:] {
				line := i + 2
				values := make(map[string]string, len(header))
				for j, col := range header {
					if col == "id" || j >= len(row) {
						continue
					}
					values[col] = row[j]
				}

				payload, err := inv.BuildPayload(res, values, false)
				if err != nil {
					fmt.Fprintf(out, "  %sRow %d: skipped (%s)%s\n", inv.Yellow, line, err, inv.Reset)
					skipped++
					continue
				}
				label := fmt.Sprintf("row %d", line)
				if s, ok := listview.Stringify(payload[res.Fields[0].Key]); ok && s != "" {
					label = s
				}

				if dryRun {
					fmt.Fprintf(out, "  [DRY RUN] Would create: %s\n", label)
					created++
					continue
				}
				if _, err := client.Create(cmd.Context(), res, payload); err != nil {
					fmt.Fprintf(out, "  %s✗ Failed: %s (%s)%s\n", inv.Red, label, err, inv.Reset)
					failed++
					continue
				}
				fmt.Fprintf(out, "  %s✓ Created: %s%s\n", inv.Green, label, inv.Reset)
				created++
			}

			fmt.Fprintf(out, "\n%sSummary: %d created, %d skipped, %d failed%s\n", inv.Cyan, created, skipped, failed, inv.Reset)
			if failed > 0 {
				return fmt.Errorf("%d of %d rows failed", failed, len(rows)-1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Input file (.csv or .xlsx)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate rows without creating anything")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

const sheetName = "Sheet1"

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// writeTable writes header and rows as CSV, or as a spreadsheet when path
// ends in .xlsx. Numeric values stay numeric in spreadsheets.
func writeTable(path string, header []string, rows [][]any) error {
	if isXLSX(path) {
		return writeXLSX(path, header, rows)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i], _ = listview.Stringify(v)
		}
		if err := writer.Write(cells); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func writeXLSX(path string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	setRow := func(rowNo int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNo)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheetName, cell, &values)
	}

	titles := make([]any, len(header))
	for i, h := range header {
		titles[i] = h
	}
	if err := setRow(1, titles); err != nil {
		return err
	}
	for i, row := range rows {
		values := make([]any, len(row))
		for j, v := range row {
			if n, ok := listview.Number(v); ok {
				values[j] = n
			} else {
				values[j], _ = listview.Stringify(v)
			}
		}
		if err := setRow(i+2, values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

// readTable returns every row of a CSV file, or of the first sheet of an
// .xlsx workbook.
func readTable(path string) ([][]string, error) {
	if isXLSX(path) {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("failed to read XLSX: %w", err)
		}
		return rows, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}
