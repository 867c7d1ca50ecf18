package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func productsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "products",
		Short: "Manage the products tracked by a running monitor",
	}

	root.AddCommand(productsListCmd(), productsAddCmd(), productsRemoveCmd())
	return root
}

func productsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked products",
		RunE: func(_ *cobra.Command, _ []string) error {
			products, err := newClient().ListProducts(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(products)
			}
			if len(products) == 0 {
				fmt.Println("No products tracked.")
				return nil
			}
			return printProductsTable(products)
		},
	}
}

func productsAddCmd() *cobra.Command {
	var name, imageURL string

	c := &cobra.Command{
		Use:     "add <id>",
		Short:   "Track a product from the next polling iteration",
		Example: `  hwaccess products add 5012345 --name "Widget"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tp, err := newClient().AddProduct(context.Background(), domain.Product{
				ID:       args[0],
				Name:     name,
				ImageURL: imageURL,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(tp)
			}
			fmt.Printf("Tracking %s.\n", tp.ID)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "display name")
	c.Flags().StringVar(&imageURL, "image-url", "", "product image URL")
	return c
}

func productsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Stop tracking a product and discard its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().RemoveProduct(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s.\n", args[0])
			return nil
		},
	}
}
