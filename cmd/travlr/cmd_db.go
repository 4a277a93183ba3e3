package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/travlrgetaways/travlr/config"
	"github.com/travlrgetaways/travlr/database/indexes"
	"github.com/travlrgetaways/travlr/database/seeders"
	"github.com/travlrgetaways/travlr/pkg/database"
)

func dbIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db:index",
		Short: "Create the database indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, conn *database.Conn) error {
				return indexes.Ensure(ctx, conn.DB)
			})
		},
	}
}

func dbSeedCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "db:seed",
		Short: "Reload the catalog collections from the JSON fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, conn *database.Conn) error {
				return seeders.Run(ctx, conn.DB, dir)
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "data", "directory holding the fixture files")
	return cmd
}

func withDB(fn func(ctx context.Context, conn *database.Conn) error) error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn)
}
