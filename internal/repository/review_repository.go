package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog"
)

type reviewRecord struct {
	ID      flexString `json:"id"`
	Name    string     `json:"name"`
	Rating  flexInt    `json:"rating"`
	Comment string     `json:"comment"`
	Date    string     `json:"date"`
}

func (r reviewRecord) validRating() bool {
	return r.Rating >= 1 && r.Rating <= 5
}

type reviewRepository struct {
	kv     port.KVStore
	logger zerolog.Logger
}

func NewReview(kv port.KVStore, logger zerolog.Logger) port.ReviewRepository {
	return &reviewRepository{
		kv:     kv,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

func (r *reviewRepository) GetReviews(ctx context.Context, productID domain.ProductID) ([]domain.Review, error) {
	data, err := r.kv.Get(ctx, ReviewsKey(productID))
	if errors.Is(err, port.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	records, _, err := decodeList[reviewRecord](data)
	if err != nil {
		r.logger.Warn().Err(err).Stringer("product_id", productID).Msg("persisted reviews are malformed, treating as empty")
		return nil, nil
	}

	reviews := mapReviewRecordsToDomain(productID, records)
	if hidden := len(unrecognized(data, recognizesReview)); hidden > 0 {
		r.logger.Warn().Int("hidden", hidden).Stringer("product_id", productID).Msg("persisted reviews contain unreadable entries")
	}

	return reviews, nil
}

// SaveReviews writes reviews and carries over stored entries GetReviews could not read.
func (r *reviewRepository) SaveReviews(ctx context.Context, productID domain.ProductID, reviews []domain.Review) error {
	records := make([]reviewRecord, 0, len(reviews))
	for _, review := range reviews {
		records = append(records, reviewRecord{
			ID:      flexString(review.ID.String()),
			Name:    review.Name,
			Rating:  flexInt(review.Rating),
			Comment: review.Comment,
			Date:    review.Date,
		})
	}

	current, err := r.kv.Get(ctx, ReviewsKey(productID))
	if err != nil && !errors.Is(err, port.ErrKeyNotFound) {
		return fmt.Errorf("kv.Get: %w", err)
	}
	kept := unrecognized(current, recognizesReview)

	data, err := encodeListWith(records, kept)
	if err != nil {
		return fmt.Errorf("encodeListWith: %w", err)
	}

	if err := r.kv.Set(ctx, ReviewsKey(productID), data); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func recognizesReview(element json.RawMessage) bool {
	var record reviewRecord
	return json.Unmarshal(element, &record) == nil && record.validRating()
}

// mapReviewRecordsToDomain skips reviews whose rating is out of range. An id
// that is not a uuid, such as a millisecond timestamp, maps to a stable uuid.
func mapReviewRecordsToDomain(productID domain.ProductID, records []reviewRecord) []domain.Review {
	var reviews []domain.Review

	for _, record := range records {
		if !record.validRating() {
			continue
		}

		reviews = append(reviews, domain.Review{
			ID:        reviewID(productID, record),
			ProductID: productID,
			Name:      record.Name,
			Rating:    int(record.Rating),
			Comment:   record.Comment,
			Date:      record.Date,
		})
	}

	return reviews
}

func reviewID(productID domain.ProductID, record reviewRecord) uuid.UUID {
	if id, err := uuid.Parse(string(record.ID)); err == nil {
		return id
	}

	name := productID.String() + "/" + string(record.ID)
	if record.ID == "" {
		name = productID.String() + "/" + record.Name + "/" + record.Date + "/" + record.Comment
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}
