package cli

import (
	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/spf13/cobra"
)

var (
	version = inv.Version
	commit  = "none"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
}

// client loads the configuration and builds an API client with its logger.
// The returned close func flushes the log file and is never nil on success.
func (o *options) client() (*inv.Client, func() error, error) {
	cfg, err := inv.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := inv.NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return inv.NewClient(cfg, logger), closeLog, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "inv-cli",
		Short: "Inventory dashboard for the terminal",
		Long: "inv-cli browses and edits inventory records (items, vendors, customers, orders, shipments) " +
			"over a REST backend and turns sales orders into PDF invoices. Run without arguments to open the dashboard.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: first "+inv.ConfigFileName+" found)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newTUICmd(opts))
	cmd.AddCommand(newPingCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newGetCmd(opts))
	cmd.AddCommand(newCreateCmd(opts))
	cmd.AddCommand(newUpdateCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newDashboardCmd(opts))
	cmd.AddCommand(newInvoiceCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
