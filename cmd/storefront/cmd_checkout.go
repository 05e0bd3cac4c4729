package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/spf13/cobra"
)

var formFieldOrder = []string{"email", "address", "city", "zip", "cardNumber", "expiryDate", "cvv"}

func newCheckoutCmd(a *app) *cobra.Command {
	var form checkout.Form

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Pay for the cart (simulated)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "processing payment...")
			order, fieldErrs, err := a.checkout.Submit(cmd.Context(), form)
			if fieldErrs.HasErrors() {
				fmt.Fprintln(out, "checkout form has errors:")
				printFieldErrors(out, fieldErrs, formFieldOrder)
				return fmt.Errorf("checkout rejected: %d invalid fields", len(fieldErrs))
			}
			if err != nil && order.ID == uuid.Nil {
				return err
			}

			fmt.Fprintf(out, "payment accepted, order %s total %s\n", order.ID, order.Total)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Email, "email", "", "contact email")
	f.StringVar(&form.Address, "address", "", "shipping address")
	f.StringVar(&form.City, "city", "", "shipping city")
	f.StringVar(&form.Zip, "zip", "", "shipping zip code")
	f.StringVar(&form.CardNumber, "card", "", "16 digit card number")
	f.StringVar(&form.ExpiryDate, "expiry", "", "card expiry as MM/YY")
	f.StringVar(&form.CVV, "cvv", "", "card security code")

	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List past orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := a.checkout.History(cmd.Context())
			if err != nil {
				return err
			}
			return printOrders(cmd.OutOrStdout(), orders)
		},
	}
}
