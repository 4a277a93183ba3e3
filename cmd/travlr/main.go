// Command travlr is the application entry point: the API server plus the
// maintenance commands that go with it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "travlr",
		Short: "Travlr Getaways booking API",
	}

	root.AddCommand(
		serveCmd(),
		dbIndexCmd(),
		dbSeedCmd(),
		routeListCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
