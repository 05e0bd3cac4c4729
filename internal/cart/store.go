// Package cart owns the shopping cart: the single source of truth every view
// reads from and writes to.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/event"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog"
)

// ErrStorageUnavailable is returned, wrapped, when the cart could not be read
// from or written to storage. Mutations that fail this way still apply to the
// in-memory cart, which stays authoritative until the process exits.
var ErrStorageUnavailable = errors.New("cart storage unavailable")

// ErrWatchUnsupported is returned by Sync when the storage backend has no change feed.
var ErrWatchUnsupported = port.ErrWatchUnsupported

type Store struct {
	repo   port.CartRepository
	bus    *event.Bus[domain.CartChanged]
	logger zerolog.Logger

	mu     sync.Mutex
	cart   domain.Cart
	loaded bool
}

var _ port.CartStore = (*Store)(nil)

// NewStore creates a store over repo. A nil bus gets a private one.
func NewStore(repo port.CartRepository, bus *event.Bus[domain.CartChanged], logger zerolog.Logger) *Store {
	if bus == nil {
		bus = event.NewBus[domain.CartChanged]()
	}

	return &Store{
		repo:   repo,
		bus:    bus,
		logger: logger.With().Str("component", "cart_store").Logger(),
	}
}

// Load returns the current cart, reading it from storage on first use.
// Malformed persisted data reads as an empty cart.
func (s *Store) Load(ctx context.Context) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ensureLoaded(ctx)
	return s.cart.Clone(), err
}

// AddItem adds qty of product, incrementing the existing line if there is one.
func (s *Store) AddItem(ctx context.Context, product domain.Product, qty int) (domain.Cart, error) {
	return s.mutate(ctx, domain.CartOpAdd, func(c domain.Cart) (domain.Cart, bool, error) {
		next, err := c.WithItemAdded(product, qty)
		if err != nil {
			return c, false, fmt.Errorf("product[%s]: %w", product.ID, err)
		}
		return next, true, nil
	})
}

// SetQuantity adds delta to the line's quantity, never going below 1.
// An unknown id is a no-op.
func (s *Store) SetQuantity(ctx context.Context, id domain.ProductID, delta int) (domain.Cart, error) {
	return s.mutate(ctx, domain.CartOpSetQuantity, func(c domain.Cart) (domain.Cart, bool, error) {
		next, found := c.WithQuantityChanged(id, delta)
		return next, found, nil
	})
}

// RemoveItem deletes the line. An unknown id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, id domain.ProductID) (domain.Cart, error) {
	return s.mutate(ctx, domain.CartOpRemove, func(c domain.Cart) (domain.Cart, bool, error) {
		next, found := c.WithItemRemoved(id)
		return next, found, nil
	})
}

func (s *Store) Clear(ctx context.Context) (domain.Cart, error) {
	return s.mutate(ctx, domain.CartOpClear, func(c domain.Cart) (domain.Cart, bool, error) {
		return domain.Cart{Currency: c.Currency}, true, nil
	})
}

// RemoveOrdered takes a checked-out snapshot out of the cart. Lines added
// after the snapshot was taken stay in the cart.
func (s *Store) RemoveOrdered(ctx context.Context, ordered domain.Cart) (domain.Cart, error) {
	return s.mutate(ctx, domain.CartOpCheckout, func(c domain.Cart) (domain.Cart, bool, error) {
		next, changed := c.WithoutOrdered(ordered)
		return next, changed, nil
	})
}

// Subscribe registers listener for every change to the cart and returns a
// func that removes it. Listeners run synchronously after the change is
// persisted and may call back into the store.
func (s *Store) Subscribe(listener func(domain.CartChanged)) (unsubscribe func()) {
	return s.bus.Subscribe(listener)
}

// Sync relays changes other stores write to the same persisted cart to this
// store's subscribers, until ctx is done. Concurrent writers are last-write-wins.
func (s *Store) Sync(ctx context.Context) error {
	err := s.repo.WatchCart(ctx, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("repo.WatchCart: %w", err)
	}
	return nil
}

func (s *Store) mutate(ctx context.Context, op domain.CartOp, fn func(domain.Cart) (domain.Cart, bool, error)) (domain.Cart, error) {
	s.mu.Lock()

	// a failed load leaves an empty authoritative cart; the save below reports the outage
	_ = s.ensureLoaded(ctx)

	next, changed, err := fn(s.cart)
	if err != nil || !changed {
		snapshot := s.cart.Clone()
		s.mu.Unlock()
		return snapshot, err
	}

	s.cart = next
	saveErr := s.repo.SaveCart(ctx, next)
	snapshot := next.Clone()
	s.mu.Unlock()

	logEvent := s.logger.Info()
	if saveErr != nil {
		saveErr = fmt.Errorf("%w: repo.SaveCart: %w", ErrStorageUnavailable, saveErr)
		logEvent = s.logger.Error().Err(saveErr)
	}
	logEvent.Str("op", string(op)).Int("items", len(snapshot.Items)).Msg("cart changed")

	s.bus.Publish(domain.CartChanged{Op: op, Origin: domain.OriginLocal, Cart: snapshot})

	return snapshot.Clone(), saveErr
}

// ensureLoaded must be called with s.mu held.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	cart, err := s.repo.GetCart(ctx)
	s.cart = cart
	s.loaded = true
	if err != nil {
		s.logger.Error().Err(err).Msg("cart could not be loaded, starting empty")
		return fmt.Errorf("%w: repo.GetCart: %w", ErrStorageUnavailable, err)
	}

	return nil
}

func (s *Store) refresh(ctx context.Context) {
	// read under the lock so a concurrent local write cannot be replaced by an older snapshot
	s.mu.Lock()
	cart, err := s.repo.GetCart(ctx)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn().Err(err).Msg("cart change notification could not be read")
		return
	}
	if s.loaded && s.cart.Equal(cart) {
		// our own write, or nothing new
		s.mu.Unlock()
		return
	}
	s.cart = cart
	s.loaded = true
	snapshot := cart.Clone()
	s.mu.Unlock()

	s.logger.Debug().Int("items", len(snapshot.Items)).Msg("cart changed elsewhere")
	s.bus.Publish(domain.CartChanged{Op: domain.CartOpSync, Origin: domain.OriginRemote, Cart: snapshot})
}
