package repository

import "github.com/nikolayk812/storefront/internal/domain"

const (
	CartKey   = "cart"
	OrdersKey = "orders"
)

func ReviewsKey(productID domain.ProductID) string {
	return "reviews_" + productID.String()
}
