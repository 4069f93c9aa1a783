package cli

import (
	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/spf13/cobra"
)

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
}

func runTUI(opts *options) error {
	client, closeLog, err := opts.client()
	if err != nil {
		return err
	}
	defer closeLog()

	client.Log.WithField("api_url", client.Config.APIURL).Info("starting tui")
	return inv.RunTUI(client)
}
