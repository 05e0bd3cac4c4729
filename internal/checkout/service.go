// Package checkout validates payment details, simulates the payment and
// records the resulting order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/validation"
	"github.com/rs/zerolog"
)

const DefaultDelay = 1500 * time.Millisecond

var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	cart      port.CartStore
	history   *History
	validator *validation.Validator
	logger    zerolog.Logger

	delay time.Duration
	sleep func(time.Duration)
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

type Option func(*Service)

// WithDelay sets how long the simulated payment takes.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		s.delay = d
	}
}

func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Service) {
		s.sleep = sleep
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDs(newID func() (uuid.UUID, error)) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(cart port.CartStore, history *History, v *validation.Validator, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		cart:      cart,
		history:   history,
		validator: v,
		logger:    logger.With().Str("component", "checkout").Logger(),
		delay:     DefaultDelay,
		sleep:     time.Sleep,
		now:       time.Now,
		newID:     uuid.NewV7,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Submit pays for the current cart. Invalid forms come back as field errors
// with nothing changed. On success the order is recorded, the ordered lines
// leave the cart and the order is returned as the receipt.
//
// The payment delay always runs to completion; ctx only bounds storage calls.
func (s *Service) Submit(ctx context.Context, form Form) (domain.Order, validation.FieldErrors, error) {
	form = form.Normalized()

	if fieldErrs := s.validator.Struct(form); fieldErrs.HasErrors() {
		s.logger.Debug().Int("fields", len(fieldErrs)).Msg("checkout form rejected")
		return domain.Order{}, fieldErrs, nil
	}

	cart, err := s.cart.Load(ctx)
	if err != nil {
		// the in-memory cart is still authoritative
		s.logger.Warn().Err(err).Msg("checkout proceeding with unpersisted cart")
	}
	if cart.IsEmpty() {
		return domain.Order{}, nil, ErrEmptyCart
	}

	s.sleep(s.delay)

	id, err := s.newID()
	if err != nil {
		return domain.Order{}, nil, fmt.Errorf("uuid.NewV7: %w", err)
	}

	order := domain.Order{
		ID:     id,
		Date:   s.now().Format(domain.DateLayout),
		Status: domain.OrderStatusPlaced,
		Email:  form.Email,
		Items:  domain.NewOrderLines(cart),
		Total:  domain.CalculateTotals(cart).Subtotal,
	}

	if err := s.history.Record(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("order could not be recorded")
		return domain.Order{}, nil, fmt.Errorf("history.Record: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("lines", len(order.Items)).
		Str("total", order.Total.String()).
		Msg("order placed")

	// only what was paid for; lines added during the payment delay stay
	if _, err := s.cart.RemoveOrdered(ctx, cart); err != nil {
		return order, nil, fmt.Errorf("cart.RemoveOrdered: %w", err)
	}

	return order, nil, nil
}

// History lists recorded orders, newest first.
func (s *Service) History(ctx context.Context) ([]domain.Order, error) {
	return s.history.List(ctx)
}
