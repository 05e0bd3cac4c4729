// Package review keeps the append-only list of reviews for each product.
package review

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Input is a review as a shopper writes it.
type Input struct {
	Name    string `json:"name" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

type Ledger struct {
	repo      port.ReviewRepository
	validator *validation.Validator
	logger    zerolog.Logger

	now   func() time.Time
	newID func() (uuid.UUID, error)

	mu sync.Mutex
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func WithIDs(newID func() (uuid.UUID, error)) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

func NewLedger(repo port.ReviewRepository, v *validation.Validator, logger zerolog.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		repo:      repo,
		validator: v,
		logger:    logger.With().Str("component", "review_ledger").Logger(),
		now:       time.Now,
		newID:     uuid.NewV7,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Submit validates in and prepends it to the product's reviews. Invalid input
// comes back as field errors with nothing persisted.
func (l *Ledger) Submit(ctx context.Context, productID domain.ProductID, in Input) (domain.Review, validation.FieldErrors, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Comment = strings.TrimSpace(in.Comment)

	if fieldErrs := l.validator.Struct(in); fieldErrs.HasErrors() {
		return domain.Review{}, fieldErrs, nil
	}

	id, err := l.newID()
	if err != nil {
		return domain.Review{}, nil, fmt.Errorf("uuid.NewV7: %w", err)
	}

	review := domain.Review{
		ID:        id,
		ProductID: productID,
		Name:      in.Name,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Date:      l.now().Format(domain.DateLayout),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.repo.GetReviews(ctx, productID)
	if err != nil {
		return domain.Review{}, nil, fmt.Errorf("repo.GetReviews: %w", err)
	}

	reviews := make([]domain.Review, 0, len(existing)+1)
	reviews = append(reviews, review)
	reviews = append(reviews, existing...)

	if err := l.repo.SaveReviews(ctx, productID, reviews); err != nil {
		return domain.Review{}, nil, fmt.Errorf("repo.SaveReviews: %w", err)
	}

	l.logger.Info().
		Str("product_id", productID.String()).
		Int("rating", review.Rating).
		Msg("review submitted")

	return review, nil, nil
}

// List returns the product's reviews, newest first.
func (l *Ledger) List(ctx context.Context, productID domain.ProductID) ([]domain.Review, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reviews, err := l.repo.GetReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("repo.GetReviews: %w", err)
	}
	return reviews, nil
}

// Average is the mean rating rounded to one decimal place, zero without reviews.
func (l *Ledger) Average(ctx context.Context, productID domain.ProductID) (decimal.Decimal, error) {
	reviews, err := l.List(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return AverageRating(reviews), nil
}

func AverageRating(reviews []domain.Review) decimal.Decimal {
	if len(reviews) == 0 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}

	return sum.Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
}
