package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Cart is an ordered list of line items, unique by product id.
type Cart struct {
	Currency currency.Unit
	Items    []CartItem
}

// CartItem copies the product's display and price fields at the time it was added.
type CartItem struct {
	ProductID   ProductID
	Name        string
	Image       string
	Description string
	Category    string

	Price     decimal.Decimal
	OnSale    bool
	SalePrice decimal.Decimal

	Quantity int
}

func NewCartItem(p Product, qty int) CartItem {
	return CartItem{
		ProductID:   p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		OnSale:      p.OnSale,
		SalePrice:   p.SalePrice,
		Quantity:    qty,
	}
}

func (i CartItem) EffectivePrice() decimal.Decimal {
	return effectivePrice(i.Price, i.OnSale, i.SalePrice)
}

func (i CartItem) Equal(other CartItem) bool {
	return i.ProductID == other.ProductID &&
		i.Name == other.Name &&
		i.Image == other.Image &&
		i.Description == other.Description &&
		i.Category == other.Category &&
		i.Price.Equal(other.Price) &&
		i.OnSale == other.OnSale &&
		i.SalePrice.Equal(other.SalePrice) &&
		i.Quantity == other.Quantity
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Item(id ProductID) (CartItem, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

func (c Cart) Clone() Cart {
	return Cart{Currency: c.Currency, Items: slices.Clone(c.Items)}
}

func (c Cart) Equal(other Cart) bool {
	return c.Currency == other.Currency && slices.EqualFunc(c.Items, other.Items, CartItem.Equal)
}

// WithItemAdded increments an existing line by qty or appends a new one.
func (c Cart) WithItemAdded(p Product, qty int) (Cart, error) {
	if qty < 1 {
		return c, ErrInvalidQuantity
	}

	next := c.Clone()
	if i := next.index(p.ID); i >= 0 {
		if next.Items[i].Quantity > math.MaxInt-qty {
			return c, fmt.Errorf("%w: line already holds %d", ErrInvalidQuantity, next.Items[i].Quantity)
		}
		next.Items[i].Quantity += qty
		return next, nil
	}

	next.Items = append(next.Items, NewCartItem(p, qty))
	return next, nil
}

// WithQuantityChanged adds delta to the line's quantity, never going below 1
// and saturating at math.MaxInt. It reports false when no line has that id.
func (c Cart) WithQuantityChanged(id ProductID, delta int) (Cart, bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}

	next := c.Clone()
	next.Items[i].Quantity = AddQuantity(next.Items[i].Quantity, delta)
	return next, true
}

// WithItemRemoved reports false when no line has that id.
func (c Cart) WithItemRemoved(id ProductID) (Cart, bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}

	next := c.Clone()
	next.Items = slices.Delete(next.Items, i, i+1)
	return next, true
}

// WithoutOrdered takes the lines of ordered out of the cart. A line whose
// quantity grew since ordered was taken keeps the difference; lines ordered
// does not contain are untouched. It reports whether anything changed.
func (c Cart) WithoutOrdered(ordered Cart) (Cart, bool) {
	next := c.Clone()
	changed := false

	for _, line := range ordered.Items {
		i := next.index(line.ProductID)
		if i < 0 {
			continue
		}
		changed = true

		if next.Items[i].Quantity > line.Quantity {
			next.Items[i].Quantity -= line.Quantity
			continue
		}
		next.Items = slices.Delete(next.Items, i, i+1)
	}

	return next, changed
}

// AddQuantity returns qty+delta clamped to [1, math.MaxInt]. qty must be positive.
func AddQuantity(qty, delta int) int {
	if delta > 0 && qty > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(qty+delta, 1)
}

func (c Cart) index(id ProductID) int {
	return slices.IndexFunc(c.Items, func(item CartItem) bool {
		return item.ProductID == id
	})
}
