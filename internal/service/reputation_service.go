package service

import (
	"context"
	"time"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.uber.org/zap"
)

// ReputationService owns reviews and the derived rating summaries
type ReputationService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewReputationService creates a new reputation service
func NewReputationService(store *store.Store, redis *redisclient.Client) *ReputationService {
	return &ReputationService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// CreateReviewRequest carries the fields for a new review
type CreateReviewRequest struct {
	ReviewerID     int64   `json:"reviewer_id" binding:"required"`
	ReviewedUserID int64   `json:"reviewed_user_id" binding:"required"`
	ListingID      *int64  `json:"listing_id"`
	Rating         int     `json:"rating" binding:"required"`
	ReviewText     *string `json:"review_text"`
}

// CreateReview validates and records a review. The summary update happens
// inside the store's transaction, so the aggregate can never drift from
// its source rows.
func (s *ReputationService) CreateReview(ctx context.Context, req *CreateReviewRequest) (*models.Review, error) {
	ctx, span := util.StartSpan(ctx, "ReputationService.CreateReview")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ReviewInsertLatency.Observe(time.Since(start).Seconds())
	}()

	if req.ReviewerID == req.ReviewedUserID {
		util.ReviewsRejectedTotal.WithLabelValues("self_review").Inc()
		return nil, errs.InvalidArgument("user %d cannot review themselves", req.ReviewerID)
	}
	if req.Rating < 1 || req.Rating > 5 {
		util.ReviewsRejectedTotal.WithLabelValues("rating_out_of_range").Inc()
		return nil, errs.InvalidArgument("rating must be between 1 and 5, got %d", req.Rating)
	}

	review := &models.Review{
		ReviewerID:     req.ReviewerID,
		ReviewedUserID: req.ReviewedUserID,
		ListingID:      req.ListingID,
		Rating:         req.Rating,
		ReviewText:     req.ReviewText,
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	util.ReviewsCreatedTotal.Inc()
	s.logger.Info("Review recorded",
		zap.Int64("review_id", review.ID),
		zap.Int64("reviewed_user_id", review.ReviewedUserID),
		zap.Int("rating", review.Rating))

	s.invalidateSummary(ctx, review.ReviewedUserID)
	return review, nil
}

// GetReview retrieves one review
func (s *ReputationService) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	return s.store.GetReviewByID(ctx, id)
}

// ListReviews retrieves all reviews
func (s *ReputationService) ListReviews(ctx context.Context) ([]models.Review, error) {
	return s.store.GetAllReviews(ctx)
}

// ListReviewsForUser retrieves reviews received by a user
func (s *ReputationService) ListReviewsForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	return s.store.GetReviewsForUser(ctx, userID)
}

// DeleteReview removes a review and keeps the summary consistent
func (s *ReputationService) DeleteReview(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "ReputationService.DeleteReview")
	defer span.End()

	review, err := s.store.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return err
	}

	s.invalidateSummary(ctx, review.ReviewedUserID)
	return nil
}

// GetRatingSummary returns the maintained aggregate for a user, cache-aside
func (s *ReputationService) GetRatingSummary(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	ctx, span := util.StartSpan(ctx, "ReputationService.GetRatingSummary")
	defer span.End()

	if cached, err := s.redis.GetRatingSummary(ctx, userID); err != nil {
		s.logger.Warn("Rating summary cache read failed",
			zap.Int64("user_id", userID), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	summary, err := s.store.GetRatingSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.redis.SetRatingSummary(ctx, summary); err != nil {
		s.logger.Warn("Rating summary cache write failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}
	return summary, nil
}

// ListRatingSummaries retrieves every summary row
func (s *ReputationService) ListRatingSummaries(ctx context.Context) ([]models.RatingSummary, error) {
	return s.store.GetAllRatingSummaries(ctx)
}

// DeleteRatingSummary removes a user's summary row
func (s *ReputationService) DeleteRatingSummary(ctx context.Context, userID int64) error {
	if err := s.store.DeleteRatingSummary(ctx, userID); err != nil {
		return err
	}
	s.invalidateSummary(ctx, userID)
	return nil
}

func (s *ReputationService) invalidateSummary(ctx context.Context, userID int64) {
	if err := s.redis.InvalidateRatingSummary(ctx, userID); err != nil {
		s.logger.Warn("Rating summary cache invalidation failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}
}
