package review_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/review"
	"github.com/nikolayk812/storefront/internal/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger() *review.Ledger {
	repo := repository.NewReview(repository.NewMemoryKV(), zerolog.Nop())
	clock := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)

	return review.NewLedger(repo, validation.New(), zerolog.Nop(),
		review.WithClock(func() time.Time { return clock }))
}

func randomInput(rating int) review.Input {
	return review.Input{
		Name:    gofakeit.Name(),
		Rating:  rating,
		Comment: gofakeit.Sentence(8),
	}
}

func TestLedger_Submit(t *testing.T) {
	ctx := t.Context()
	ledger := newLedger()

	in := randomInput(4)
	in.Name = "  Ana Lopez "

	got, fieldErrs, err := ledger.Submit(ctx, 7, in)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	assert.Equal(t, domain.ProductID(7), got.ProductID)
	assert.Equal(t, "2025-04-02", got.Date)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, "Ana Lopez", got.Name)
	assert.Equal(t, uuid.Version(7), got.ID.Version())

	reviews, err := ledger.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, got.ID, reviews[0].ID)
}

func TestLedger_Submit_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		in         review.Input
		wantFields []string
	}{
		{name: "empty", in: review.Input{}, wantFields: []string{"name", "rating", "comment"}},
		{name: "rating too high", in: review.Input{Name: "a", Rating: 6, Comment: "b"}, wantFields: []string{"rating"}},
		{name: "blank comment", in: review.Input{Name: "a", Rating: 3, Comment: "   "}, wantFields: []string{"comment"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			ledger := newLedger()

			_, fieldErrs, err := ledger.Submit(ctx, 1, tt.in)
			require.NoError(t, err)

			assert.Len(t, fieldErrs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, fieldErrs, field)
			}

			reviews, err := ledger.List(ctx, 1)
			require.NoError(t, err)
			assert.Empty(t, reviews)
		})
	}
}

func TestLedger_Submit_KeepsLegacyReviews(t *testing.T) {
	ctx := t.Context()
	kv := repository.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, repository.ReviewsKey(1),
		[]byte(`[{"id":1700000000000,"name":"Juan","rating":5,"comment":"great","date":"2023-11-14"}]`)))

	ledger := review.NewLedger(repository.NewReview(kv, zerolog.Nop()), validation.New(), zerolog.Nop())

	before, err := ledger.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, _, err = ledger.Submit(ctx, 1, review.Input{Name: "Ana", Rating: 3, Comment: "ok"})
	require.NoError(t, err)

	after, err := ledger.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, "Ana", after[0].Name)
	assert.Equal(t, "Juan", after[1].Name)
	assert.Equal(t, before[0].ID, after[1].ID)

	avg, err := ledger.Average(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "4.0", avg.StringFixed(1))
}

func TestLedger_NewestFirst(t *testing.T) {
	ctx := t.Context()
	ledger := newLedger()

	var names []string
	for _, rating := range []int{1, 2, 3} {
		in := randomInput(rating)
		_, _, err := ledger.Submit(ctx, 3, in)
		require.NoError(t, err)
		names = append([]string{in.Name}, names...)
	}

	reviews, err := ledger.List(ctx, 3)
	require.NoError(t, err)

	var got []string
	for _, r := range reviews {
		got = append(got, r.Name)
	}
	assert.Equal(t, names, got)
}

func TestLedger_Average(t *testing.T) {
	ctx := t.Context()
	ledger := newLedger()

	avg, err := ledger.Average(ctx, 1)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())

	for _, rating := range []int{5, 4, 3} {
		_, _, err := ledger.Submit(ctx, 1, randomInput(rating))
		require.NoError(t, err)
	}

	avg, err = ledger.Average(ctx, 1)
	require.NoError(t, err)
	assert.True(t, avg.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "4.0", avg.StringFixed(1))
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    string
	}{
		{name: "none", want: "0.0"},
		{name: "single", ratings: []int{3}, want: "3.0"},
		{name: "rounds down", ratings: []int{5, 4, 4}, want: "4.3"},
		{name: "rounds half up", ratings: []int{5, 4, 4, 4}, want: "4.3"},
		{name: "rounds up", ratings: []int{5, 5, 4}, want: "4.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := make([]domain.Review, 0, len(tt.ratings))
			for _, r := range tt.ratings {
				reviews = append(reviews, domain.Review{Rating: r})
			}

			got := review.AverageRating(reviews)
			assert.Equal(t, tt.want, got.StringFixed(1))
			assert.True(t, got.LessThanOrEqual(decimal.NewFromInt(5)))
		})
	}
}
