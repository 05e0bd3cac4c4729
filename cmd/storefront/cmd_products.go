package main

import (
	"fmt"

	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func newProductsCmd(a *app) *cobra.Command {
	var (
		category string
		offers   bool
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products := a.catalog.ByCategory(category)
			if offers {
				products = a.catalog.Offers()
			}
			return printProducts(cmd.OutOrStdout(), products, a.cfg.Store.Currency)
		},
	}

	cmd.Flags().StringVar(&category, "category", catalog.AllCategories, "only products in this category")
	cmd.Flags().BoolVar(&offers, "offers", false, "only products on sale")

	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product [id]",
		Short: "Show one product with its rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := lookupProduct(a, args[0])
			if err != nil {
				return err
			}

			avg, err := a.reviews.Average(cmd.Context(), p.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n%s\n", p.ID, p.Name, p.Description)
			fmt.Fprintf(out, "category: %s\n", p.Category)
			fmt.Fprintf(out, "price:    %s\n", price(p.EffectivePrice(), a.cfg.Store.Currency))
			if p.OnSale {
				fmt.Fprintf(out, "was:      %s\n", price(p.Price, a.cfg.Store.Currency))
			}
			fmt.Fprintf(out, "rating:   %s/5\n", avg.StringFixed(1))
			for _, image := range p.Images {
				fmt.Fprintf(out, "image:    %s\n", image)
			}
			return nil
		},
	}
}

func lookupProduct(a *app, arg string) (domain.Product, error) {
	id, err := domain.ParseProductID(arg)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product id %q: %w", arg, err)
	}

	return a.catalog.ByID(id)
}
