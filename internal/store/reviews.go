package store

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// CreateReview inserts the review and folds it into the reviewed user's
// rating summary in one database transaction. The summary arithmetic runs
// server-side in a single upsert, so two concurrent reviews for the same
// user cannot compute from a stale read.
func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create review: begin")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reviews (reviewer_id, reviewed_user_id, listing_id, rating, review_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	if err := tx.GetContext(ctx, review, query,
		review.ReviewerID, review.ReviewedUserID, review.ListingID,
		review.Rating, review.ReviewText); err != nil {
		return errs.FromForeignKey(err, "review references a nonexistent user or listing")
	}

	// When no summary row exists (first review, or after an admin deleted
	// the summary) the insert arm seeds it from the recorded reviews, which
	// already include the row inserted above. With an existing row the
	// update arm folds in just the new rating against the locked current
	// values, so concurrent reviews cannot compute from a stale read.
	upsert := `
		INSERT INTO user_ratings (user_id, total_ratings, average_rating)
		SELECT reviewed_user_id, COUNT(*), AVG(rating)
		FROM reviews
		WHERE reviewed_user_id = $1
		GROUP BY reviewed_user_id
		ON CONFLICT (user_id) DO UPDATE
		SET average_rating = (user_ratings.average_rating * user_ratings.total_ratings + $2)
		                     / (user_ratings.total_ratings + 1),
		    total_ratings  = user_ratings.total_ratings + 1`

	if _, err := tx.ExecContext(ctx, upsert, review.ReviewedUserID, float64(review.Rating)); err != nil {
		return errs.Unexpected(err, "create review: update summary")
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create review: commit")
	}
	return nil
}

// GetReviewByID retrieves a review
func (s *Store) GetReviewByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	err := s.db.GetContext(ctx, &review, "SELECT * FROM reviews WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("review %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get review %d", id)
	}
	return &review, nil
}

// GetAllReviews retrieves every review, most recent first
func (s *Store) GetAllReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.SelectContext(ctx, &reviews, "SELECT * FROM reviews ORDER BY created_at DESC")
	if err != nil {
		return nil, errs.Unexpected(err, "list reviews")
	}
	return reviews, nil
}

// GetReviewsForUser retrieves reviews received by a user
func (s *Store) GetReviewsForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.SelectContext(ctx, &reviews,
		"SELECT * FROM reviews WHERE reviewed_user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, errs.Unexpected(err, "list reviews for user %d", userID)
	}
	return reviews, nil
}

// DeleteReview removes a review and subtracts it from the summary in the
// same transaction, keeping the aggregate consistent with its source rows.
func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "delete review: begin")
	}
	defer tx.Rollback()

	var review models.Review
	err = tx.GetContext(ctx, &review, "DELETE FROM reviews WHERE id = $1 RETURNING *", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("review %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete review %d", id)
	}

	adjust := `
		UPDATE user_ratings
		SET average_rating = CASE WHEN total_ratings <= 1 THEN 0
		                     ELSE (average_rating * total_ratings - $1) / (total_ratings - 1) END,
		    total_ratings  = GREATEST(total_ratings - 1, 0)
		WHERE user_id = $2`

	if _, err := tx.ExecContext(ctx, adjust, float64(review.Rating), review.ReviewedUserID); err != nil {
		return errs.Unexpected(err, "delete review: update summary")
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "delete review: commit")
	}
	return nil
}

// GetRatingSummary retrieves a user's rating summary
func (s *Store) GetRatingSummary(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	var summary models.RatingSummary
	err := s.db.GetContext(ctx, &summary, "SELECT * FROM user_ratings WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("no rating summary for user %d", userID)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get rating summary for user %d", userID)
	}
	return &summary, nil
}

// GetAllRatingSummaries retrieves every rating summary
func (s *Store) GetAllRatingSummaries(ctx context.Context) ([]models.RatingSummary, error) {
	var summaries []models.RatingSummary
	err := s.db.SelectContext(ctx, &summaries, "SELECT * FROM user_ratings ORDER BY user_id")
	if err != nil {
		return nil, errs.Unexpected(err, "list rating summaries")
	}
	return summaries, nil
}

// DeleteRatingSummary removes a user's summary row
func (s *Store) DeleteRatingSummary(ctx context.Context, userID int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted,
		"DELETE FROM user_ratings WHERE user_id = $1 RETURNING id", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("no rating summary for user %d", userID)
	}
	if err != nil {
		return errs.Unexpected(err, "delete rating summary for user %d", userID)
	}
	return nil
}
