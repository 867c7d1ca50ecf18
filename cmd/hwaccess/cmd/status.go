package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and tracked products of a running monitor",
		Example: `  hwaccess status --server http://localhost:8081
  hwaccess status --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			c := newClient()

			session, err := c.Session(ctx)
			if err != nil {
				return err
			}
			products, err := c.ListProducts(ctx)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(map[string]any{
					"session":  session,
					"products": products,
				})
			}

			if err := printSessionDetail(session); err != nil {
				return err
			}
			fmt.Println()
			if len(products) == 0 {
				fmt.Println("No products tracked.")
				return nil
			}
			return printProductsTable(products)
		},
	}
}
