package domain

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("invalid product")

type ProductID int64

func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseProductID(s string) (ProductID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("strconv.ParseInt: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("product id[%d] must be positive", n)
	}
	return ProductID(n), nil
}

// Product is read-only catalog data.
type Product struct {
	ID          ProductID
	Name        string
	Description string
	Image       string
	Images      []string
	Category    string

	Price     decimal.Decimal
	OnSale    bool
	SalePrice decimal.Decimal
}

func (p Product) EffectivePrice() decimal.Decimal {
	return effectivePrice(p.Price, p.OnSale, p.SalePrice)
}

// Validate checks the pricing invariants a catalog entry must hold.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: id[%d] must be positive", ErrInvalidProduct, p.ID)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: id[%d] price %s is negative", ErrInvalidProduct, p.ID, p.Price)
	}
	if !p.OnSale {
		return nil
	}
	if p.SalePrice.IsNegative() {
		return fmt.Errorf("%w: id[%d] sale price %s is negative", ErrInvalidProduct, p.ID, p.SalePrice)
	}
	if p.SalePrice.GreaterThan(p.Price) {
		return fmt.Errorf("%w: id[%d] sale price %s exceeds price %s", ErrInvalidProduct, p.ID, p.SalePrice, p.Price)
	}
	return nil
}

func effectivePrice(price decimal.Decimal, onSale bool, salePrice decimal.Decimal) decimal.Decimal {
	if onSale {
		return salePrice
	}
	return price
}
