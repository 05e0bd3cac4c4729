package domain_test

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCart_WithItemAdded(t *testing.T) {
	product := randomProduct()

	tests := []struct {
		name      string
		qtys      []int
		wantQty   int
		wantError error
	}{
		{
			name:    "single add: ok",
			qtys:    []int{1},
			wantQty: 1,
		},
		{
			name:    "repeated adds sum quantities: ok",
			qtys:    []int{1, 3, 2},
			wantQty: 6,
		},
		{
			name:      "zero quantity: error",
			qtys:      []int{0},
			wantError: domain.ErrInvalidQuantity,
		},
		{
			name:      "negative quantity: error",
			qtys:      []int{-2},
			wantError: domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.Cart{Currency: currency.USD}

			var err error
			for _, qty := range tt.qtys {
				cart, err = cart.WithItemAdded(product, qty)
				if err != nil {
					break
				}
			}
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				assert.True(t, cart.IsEmpty())
				return
			}
			require.NoError(t, err)

			require.Len(t, cart.Items, 1)
			assert.Equal(t, product.ID, cart.Items[0].ProductID)
			assert.Equal(t, tt.wantQty, cart.Items[0].Quantity)
		})
	}
}

func TestCart_WithItemAdded_Overflow(t *testing.T) {
	product := randomProduct()

	cart, err := domain.Cart{}.WithItemAdded(product, 1)
	require.NoError(t, err)

	next, err := cart.WithItemAdded(product, math.MaxInt)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.True(t, next.Equal(cart))

	// a fresh line may hold the maximum
	full, err := domain.Cart{}.WithItemAdded(product, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, full.Items[0].Quantity)

	_, err = full.WithItemAdded(product, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCart_WithItemAdded_CopiesProductFields(t *testing.T) {
	product := randomProduct()

	cart, err := domain.Cart{}.WithItemAdded(product, 1)
	require.NoError(t, err)

	// later catalog changes must not leak into the line
	product.Price = product.Price.Add(decimal.NewFromInt(100))
	product.Name = "renamed"

	item, ok := cart.Item(product.ID)
	require.True(t, ok)
	assert.NotEqual(t, "renamed", item.Name)
	assert.False(t, item.Price.Equal(product.Price))
}

func TestCart_WithItemAdded_DoesNotMutateReceiver(t *testing.T) {
	product := randomProduct()

	original, err := domain.Cart{}.WithItemAdded(product, 1)
	require.NoError(t, err)

	_, err = original.WithItemAdded(product, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, original.Items[0].Quantity)
}

func TestCart_WithQuantityChanged(t *testing.T) {
	product := randomProduct()

	tests := []struct {
		name        string
		startQty    int
		delta       int
		wantQty     int
		wantChanged bool
	}{
		{name: "increment", startQty: 1, delta: 1, wantQty: 2, wantChanged: true},
		{name: "decrement", startQty: 3, delta: -1, wantQty: 2, wantChanged: true},
		{name: "decrement to zero clamps at 1", startQty: 1, delta: -1, wantQty: 1, wantChanged: true},
		{name: "large negative delta clamps at 1", startQty: 5, delta: -100, wantQty: 1, wantChanged: true},
		{name: "negated quantity clamps at 1", startQty: 7, delta: -7, wantQty: 1, wantChanged: true},
		{name: "zero delta", startQty: 4, delta: 0, wantQty: 4, wantChanged: true},
		{name: "huge increment saturates", startQty: 1, delta: math.MaxInt, wantQty: math.MaxInt, wantChanged: true},
		{name: "increment at max saturates", startQty: math.MaxInt, delta: 1, wantQty: math.MaxInt, wantChanged: true},
		{name: "min int delta clamps at 1", startQty: 1, delta: math.MinInt, wantQty: 1, wantChanged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := domain.Cart{}.WithItemAdded(product, tt.startQty)
			require.NoError(t, err)

			cart, changed := cart.WithQuantityChanged(product.ID, tt.delta)
			assert.Equal(t, tt.wantChanged, changed)

			item, ok := cart.Item(product.ID)
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, item.Quantity)
		})
	}
}

func TestCart_WithQuantityChanged_UnknownID(t *testing.T) {
	cart, err := domain.Cart{}.WithItemAdded(randomProduct(), 2)
	require.NoError(t, err)

	next, changed := cart.WithQuantityChanged(domain.ProductID(-1), 5)
	assert.False(t, changed)
	assert.True(t, next.Equal(cart))
}

func TestCart_WithItemRemoved(t *testing.T) {
	first, second := randomProduct(), randomProduct()
	second.ID = first.ID + 1

	cart, err := domain.Cart{}.WithItemAdded(first, 1)
	require.NoError(t, err)
	cart, err = cart.WithItemAdded(second, 2)
	require.NoError(t, err)

	next, removed := cart.WithItemRemoved(first.ID)
	require.True(t, removed)
	require.Len(t, next.Items, 1)
	assert.Equal(t, second.ID, next.Items[0].ProductID)
	assert.Len(t, cart.Items, 2)

	_, removed = next.WithItemRemoved(first.ID)
	assert.False(t, removed)
}

func TestCart_WithoutOrdered(t *testing.T) {
	tee, hat, socks := randomProduct(), randomProduct(), randomProduct()
	tee.ID, hat.ID, socks.ID = 1, 2, 3

	cart := func(lines map[domain.ProductID]int) domain.Cart {
		c := domain.Cart{Currency: currency.USD}
		for _, p := range []domain.Product{tee, hat, socks} {
			if qty, ok := lines[p.ID]; ok {
				var err error
				c, err = c.WithItemAdded(p, qty)
				require.NoError(t, err)
			}
		}
		return c
	}

	tests := []struct {
		name        string
		current     map[domain.ProductID]int
		ordered     map[domain.ProductID]int
		want        map[domain.ProductID]int
		wantChanged bool
	}{
		{
			name:        "unchanged cart empties",
			current:     map[domain.ProductID]int{1: 2, 2: 1},
			ordered:     map[domain.ProductID]int{1: 2, 2: 1},
			want:        map[domain.ProductID]int{},
			wantChanged: true,
		},
		{
			name:        "line added later stays",
			current:     map[domain.ProductID]int{1: 2, 3: 1},
			ordered:     map[domain.ProductID]int{1: 2},
			want:        map[domain.ProductID]int{3: 1},
			wantChanged: true,
		},
		{
			name:        "quantity grown later keeps the difference",
			current:     map[domain.ProductID]int{1: 5},
			ordered:     map[domain.ProductID]int{1: 2},
			want:        map[domain.ProductID]int{1: 3},
			wantChanged: true,
		},
		{
			name:        "quantity shrunk later removes the line",
			current:     map[domain.ProductID]int{1: 1},
			ordered:     map[domain.ProductID]int{1: 2},
			want:        map[domain.ProductID]int{},
			wantChanged: true,
		},
		{
			name:        "ordered lines already gone",
			current:     map[domain.ProductID]int{3: 1},
			ordered:     map[domain.ProductID]int{1: 1},
			want:        map[domain.ProductID]int{3: 1},
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := cart(tt.current).WithoutOrdered(cart(tt.ordered))
			assert.Equal(t, tt.wantChanged, changed)

			got := map[domain.ProductID]int{}
			for _, item := range next.Items {
				got[item.ProductID] = item.Quantity
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name      string
		product   domain.Product
		wantError bool
	}{
		{
			name:    "regular price: ok",
			product: domain.Product{ID: 1, Price: decimal.NewFromInt(10)},
		},
		{
			name:    "sale price below price: ok",
			product: domain.Product{ID: 1, Price: decimal.NewFromInt(20), OnSale: true, SalePrice: decimal.NewFromInt(15)},
		},
		{
			name:    "sale price ignored when not on sale: ok",
			product: domain.Product{ID: 1, Price: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(50)},
		},
		{
			name:      "sale price above price: error",
			product:   domain.Product{ID: 1, Price: decimal.NewFromInt(20), OnSale: true, SalePrice: decimal.NewFromInt(25)},
			wantError: true,
		},
		{
			name:      "negative price: error",
			product:   domain.Product{ID: 1, Price: decimal.NewFromInt(-1)},
			wantError: true,
		},
		{
			name:      "zero id: error",
			product:   domain.Product{Price: decimal.NewFromInt(1)},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantError {
				assert.ErrorIs(t, err, domain.ErrInvalidProduct)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseProductID(t *testing.T) {
	id, err := domain.ParseProductID("42")
	require.NoError(t, err)
	assert.Equal(t, domain.ProductID(42), id)
	assert.Equal(t, "42", id.String())

	_, err = domain.ParseProductID("0")
	assert.Error(t, err)

	_, err = domain.ParseProductID("abc")
	assert.Error(t, err)
}

func randomProduct() domain.Product {
	price := decimal.NewFromFloat(gofakeit.Price(10, 100)).Round(2)

	return domain.Product{
		ID:          domain.ProductID(gofakeit.Number(1, 1_000_000)),
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Image:       gofakeit.URL(),
		Category:    gofakeit.ProductCategory(),
		Price:       price,
	}
}
