package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type ReviewRepository interface {
	GetReviews(ctx context.Context, productID domain.ProductID) ([]domain.Review, error)
	SaveReviews(ctx context.Context, productID domain.ProductID, reviews []domain.Review) error
}
