package main

import (
	"github.com/spf13/cobra"

	"github.com/travlrgetaways/travlr/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run()
		},
	}
}
