package main

import (
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the cart badge whenever another process changes the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			badge := func(c domain.Cart) {
				totals := domain.CalculateTotals(c)
				fmt.Fprintf(out, "cart: %d items, %s\n", totals.ItemCount, totals.Subtotal)
			}

			unsubscribe := a.cart.Subscribe(func(e domain.CartChanged) {
				badge(e.Cart)
			})
			defer unsubscribe()

			c, err := a.cart.Load(ctx)
			if err != nil {
				return err
			}
			badge(c)

			err = a.cart.Sync(ctx)
			if errors.Is(err, cart.ErrWatchUnsupported) {
				return fmt.Errorf("storage %q cannot watch for changes, use redis or postgres: %w", a.cfg.Storage.Driver, err)
			}
			return err
		},
	}
}
