package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/spf13/cobra"
)

func newPingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test connection to the inventory API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeLog, err := opts.client()
			if err != nil {
				return err
			}
			defer closeLog()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%sTesting connection to %s...%s\n", inv.Blue, client.Config.APIURL, inv.Reset)
			latency, err := client.Ping(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s✓ Connection successful%s (%s)\n", inv.Green, inv.Reset, latency.Round(time.Millisecond))
			return nil
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := inv.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%sCurrent configuration:%s\n", inv.Blue, inv.Reset)
			if cfg.Source != "" {
				fmt.Fprintf(out, "  File: %s\n", cfg.Source)
			} else {
				fmt.Fprintf(out, "  File: %s(environment only)%s\n", inv.Yellow, inv.Reset)
			}
			fmt.Fprintf(out, "  API URL: %s\n", cfg.APIURL)
			fmt.Fprintf(out, "  API Token: %s\n", maskToken(cfg.APIToken))
			fmt.Fprintf(out, "  Brand: %s\n", cfg.Brand)
			fmt.Fprintf(out, "  Currency: %s\n", cfg.Currency)
			fmt.Fprintf(out, "  Page Size: %d\n", cfg.PageSize)
			fmt.Fprintf(out, "  Log: %s (%s)\n", cfg.LogFile, cfg.LogLevel)
			fmt.Fprintf(out, "  Invoice Dir: %s\n", cfg.InvoiceDir)
			fmt.Fprintf(out, "  Timeout: %s\n", cfg.Timeout())
			return nil
		},
	}
}

func maskToken(token string) string {
	switch {
	case token == "":
		return inv.Yellow + "not configured" + inv.Reset
	case len(token) <= 8:
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "..." + strings.Repeat("*", 4)
}
