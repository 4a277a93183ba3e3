package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/travlrgetaways/travlr/app/controllers"
	"github.com/travlrgetaways/travlr/app/routes"
	"github.com/travlrgetaways/travlr/pkg/router"
)

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "Print every registered route",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Controllers are only consulted when a request arrives, so
			// registering with zero-value services is fine for a listing.
			r := router.New()
			routes.Register(r, routes.Controllers{
				Auth:      &controllers.AuthController{},
				Cart:      &controllers.CartController{},
				Catalog:   &controllers.CatalogController{},
				TwoFactor: &controllers.TwoFactorController{},
			})

			list := r.Routes()
			sort.Slice(list, func(i, j int) bool {
				if list[i].Path != list[j].Path {
					return list[i].Path < list[j].Path
				}
				return list[i].Method < list[j].Method
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
			for _, ri := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return tw.Flush()
		},
	}
}
