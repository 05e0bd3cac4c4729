package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Order is the receipt recorded when a checkout succeeds.
type Order struct {
	ID     uuid.UUID
	Date   string
	Status OrderStatus
	Email  string
	Items  []OrderLine
	Total  Money
}

type OrderLine struct {
	ProductID ProductID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

func NewOrderLines(c Cart) []OrderLine {
	lines := make([]OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.EffectivePrice(),
		})
	}
	return lines
}
