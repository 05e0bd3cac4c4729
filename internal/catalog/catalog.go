// Package catalog serves the read-only product list bundled with the storefront.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// AllCategories selects every product in ByCategory.
const AllCategories = "all"

var ErrProductNotFound = errors.New("product not found")

//go:embed products.json
var bundled []byte

type Catalog struct {
	products []domain.Product
	byID     map[domain.ProductID]int
}

type productRecord struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	OnSale      bool            `json:"onSale"`
	SalePrice   decimal.Decimal `json:"salePrice"`
}

// Default loads the catalog bundled into the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(bundled))
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads a JSON array of products. Every invalid product is reported and
// fails the load, as does a repeated id.
func Load(r io.Reader) (*Catalog, error) {
	var records []productRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	c := &Catalog{
		products: make([]domain.Product, 0, len(records)),
		byID:     make(map[domain.ProductID]int, len(records)),
	}

	var errs []error
	for _, rec := range records {
		p := mapProduct(rec)

		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: id[%s] is duplicated", domain.ErrInvalidProduct, p.ID))
			continue
		}

		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) All() []domain.Product {
	return c.filter(func(domain.Product) bool { return true })
}

func (c *Catalog) ByID(id domain.ProductID) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("id[%s]: %w", id, ErrProductNotFound)
	}
	return clone(c.products[i]), nil
}

// ByCategory matches case-insensitively; AllCategories returns every product.
func (c *Catalog) ByCategory(category string) []domain.Product {
	if strings.EqualFold(category, AllCategories) {
		return c.All()
	}
	return c.filter(func(p domain.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// Offers returns the products currently on sale.
func (c *Catalog) Offers() []domain.Product {
	return c.filter(func(p domain.Product) bool { return p.OnSale })
}

// Categories lists distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	var categories []string
	for _, p := range c.products {
		if p.Category != "" && !slices.Contains(categories, p.Category) {
			categories = append(categories, p.Category)
		}
	}
	return categories
}

func (c *Catalog) filter(keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	return out
}

func mapProduct(rec productRecord) domain.Product {
	image := rec.Image
	if image == "" && len(rec.Images) > 0 {
		image = rec.Images[0]
	}

	return domain.Product{
		ID:          domain.ProductID(rec.ID),
		Name:        rec.Name,
		Description: rec.Description,
		Image:       image,
		Images:      slices.Clone(rec.Images),
		Category:    rec.Category,
		Price:       rec.Price,
		OnSale:      rec.OnSale,
		SalePrice:   rec.SalePrice,
	}
}

func clone(p domain.Product) domain.Product {
	p.Images = slices.Clone(p.Images)
	return p
}
