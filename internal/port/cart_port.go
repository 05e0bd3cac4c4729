package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	SaveCart(ctx context.Context, cart domain.Cart) error
	// WatchCart blocks, calling fn whenever the persisted cart may have changed,
	// until ctx is done. It returns ErrWatchUnsupported when the backend has no change feed.
	WatchCart(ctx context.Context, fn func()) error
}

// CartStore is the part of the cart store other services depend on.
type CartStore interface {
	Load(ctx context.Context) (domain.Cart, error)
	Clear(ctx context.Context) (domain.Cart, error)
	RemoveOrdered(ctx context.Context, ordered domain.Cart) (domain.Cart, error)
}
