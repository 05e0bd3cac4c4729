package main

import (
	"fmt"

	"github.com/nikolayk812/storefront/internal/review"
	"github.com/spf13/cobra"
)

var reviewFieldOrder = []string{"name", "rating", "comment"}

func newReviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews [id]",
		Short: "List a product's reviews, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := lookupProduct(a, args[0])
			if err != nil {
				return err
			}

			reviews, err := a.reviews.List(cmd.Context(), p.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s/5 from %d reviews\n", p.Name, review.AverageRating(reviews).StringFixed(1), len(reviews))
			return printReviews(cmd.OutOrStdout(), reviews)
		},
	}

	var in review.Input
	add := &cobra.Command{
		Use:   "add [id]",
		Short: "Review a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := lookupProduct(a, args[0])
			if err != nil {
				return err
			}

			r, fieldErrs, err := a.reviews.Submit(cmd.Context(), p.ID, in)
			if err != nil {
				return err
			}
			if fieldErrs.HasErrors() {
				fmt.Fprintln(cmd.OutOrStdout(), "review has errors:")
				printFieldErrors(cmd.OutOrStdout(), fieldErrs, reviewFieldOrder)
				return fmt.Errorf("review rejected: %d invalid fields", len(fieldErrs))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "thanks %s, review %s saved\n", r.Name, r.ID)
			return nil
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "your name")
	add.Flags().IntVar(&in.Rating, "rating", 0, "1 to 5")
	add.Flags().StringVar(&in.Comment, "comment", "", "what you thought")

	cmd.AddCommand(add)

	return cmd
}
