package main

import (
	"fmt"
	"os"

	"github.com/dhruv-4604/inventory-cli/internal/cli"
	"github.com/dhruv-4604/inventory-cli/internal/inv"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %s%s\n", inv.Red, err, inv.Reset)
		os.Exit(1)
	}
}
