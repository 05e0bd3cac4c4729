package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.cart.Load(cmd.Context())
			return report(cmd, a, c, err)
		},
	}

	var qty int
	add := &cobra.Command{
		Use:   "add [id]",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := lookupProduct(a, args[0])
			if err != nil {
				return err
			}
			c, err := a.cart.AddItem(cmd.Context(), p, qty)
			return report(cmd, a, c, err)
		},
	}
	add.Flags().IntVarP(&qty, "qty", "q", 1, "quantity to add")

	cmd.AddCommand(
		add,
		cartItemCmd(a, "inc [id]", "Increase a line's quantity by one", func(ctx context.Context, id domain.ProductID) (domain.Cart, error) {
			return a.cart.SetQuantity(ctx, id, 1)
		}),
		cartItemCmd(a, "dec [id]", "Decrease a line's quantity by one, never below one", func(ctx context.Context, id domain.ProductID) (domain.Cart, error) {
			return a.cart.SetQuantity(ctx, id, -1)
		}),
		cartItemCmd(a, "remove [id]", "Remove a line from the cart", func(ctx context.Context, id domain.ProductID) (domain.Cart, error) {
			return a.cart.RemoveItem(ctx, id)
		}),
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := a.cart.Clear(cmd.Context())
				return report(cmd, a, c, err)
			},
		},
	)

	return cmd
}

func cartItemCmd(a *app, use, short string, fn func(context.Context, domain.ProductID) (domain.Cart, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return fmt.Errorf("product id %q: %w", args[0], err)
			}
			c, err := fn(cmd.Context(), id)
			return report(cmd, a, c, err)
		},
	}
}

// report prints c even when err says it was not persisted.
func report(cmd *cobra.Command, a *app, c domain.Cart, err error) error {
	if err != nil && !errors.Is(err, cart.ErrStorageUnavailable) {
		return err
	}
	if err != nil {
		a.logger.Warn().Err(err).Msg("cart change will not survive a restart")
	}
	if printErr := printCart(cmd.OutOrStdout(), c); printErr != nil {
		return printErr
	}
	return err
}
