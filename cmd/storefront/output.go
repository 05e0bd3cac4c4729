package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func price(amount decimal.Decimal, unit currency.Unit) string {
	return domain.Money{Amount: amount, Currency: unit}.String()
}

func printProducts(w io.Writer, products []domain.Product, unit currency.Unit) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSALE")
	for _, p := range products {
		sale := "-"
		if p.OnSale {
			sale = price(p.SalePrice, unit)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, price(p.Price, unit), sale)
	}
	return tw.Flush()
}

func printCart(w io.Writer, c domain.Cart) error {
	if c.IsEmpty() {
		_, err := fmt.Fprintln(w, "cart is empty")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tLINE")
	for _, item := range c.Items {
		unit := item.EffectivePrice()
		line := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", item.ProductID, item.Name, item.Quantity, price(unit, c.Currency), price(line, c.Currency))
	}

	totals := domain.CalculateTotals(c)
	fmt.Fprintf(tw, "\t\t%d\tsubtotal\t%s\n", totals.ItemCount, totals.Subtotal)
	if totals.Savings.Amount.IsPositive() {
		fmt.Fprintf(tw, "\t\t\tsavings\t%s\n", totals.Savings)
	}
	return tw.Flush()
}

func printOrders(w io.Writer, orders []domain.Order) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "no orders yet")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ORDER\tDATE\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		items := 0
		for _, line := range o.Items {
			items += line.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.ID, o.Date, o.Status, items, o.Total)
	}
	return tw.Flush()
}

func printReviews(w io.Writer, reviews []domain.Review) error {
	if len(reviews) == 0 {
		_, err := fmt.Fprintln(w, "no reviews yet")
		return err
	}

	for _, r := range reviews {
		if _, err := fmt.Fprintf(w, "%s  %s  %d/5\n  %s\n", r.Date, r.Name, r.Rating, r.Comment); err != nil {
			return err
		}
	}
	return nil
}

func printFieldErrors(w io.Writer, fieldErrs map[string]string, order []string) {
	for _, field := range order {
		if msg, ok := fieldErrs[field]; ok {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
	}
}
