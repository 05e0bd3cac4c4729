package domain

import "github.com/shopspring/decimal"

type Totals struct {
	Subtotal  Money
	Savings   Money
	ItemCount int
}

// CalculateTotals is pure and independent of item order.
func CalculateTotals(c Cart) Totals {
	totals := Totals{
		Subtotal: ZeroMoney(c.Currency),
		Savings:  ZeroMoney(c.Currency),
	}

	for _, item := range c.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))

		totals.Subtotal = totals.Subtotal.Add(item.EffectivePrice().Mul(qty))
		totals.ItemCount += item.Quantity

		if item.OnSale {
			totals.Savings = totals.Savings.Add(item.Price.Sub(item.SalePrice).Mul(qty))
		}
	}

	return totals
}
