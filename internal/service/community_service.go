package service

import (
	"context"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.uber.org/zap"
)

// CommunityService owns the loosely coupled collections attached to
// listings and users: watchlist, comments, reports, and direct messages.
type CommunityService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCommunityService creates a new community service
func NewCommunityService(store *store.Store) *CommunityService {
	return &CommunityService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// AddToWatchlist adds a (user, listing) pair; duplicates are a Conflict
func (s *CommunityService) AddToWatchlist(ctx context.Context, userID, listingID int64) (*models.WatchlistEntry, error) {
	ctx, span := util.StartSpan(ctx, "CommunityService.AddToWatchlist")
	defer span.End()

	entry := &models.WatchlistEntry{UserID: userID, ListingID: listingID}
	if err := s.store.AddWatchlistEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Watchlist entry added",
		zap.Int64("user_id", userID),
		zap.Int64("listing_id", listingID))
	return entry, nil
}

// RemoveFromWatchlist removes a pair; an absent pair is NotFound
func (s *CommunityService) RemoveFromWatchlist(ctx context.Context, userID, listingID int64) error {
	return s.store.RemoveWatchlistEntry(ctx, userID, listingID)
}

// GetWatchlist retrieves a user's watchlist
func (s *CommunityService) GetWatchlist(ctx context.Context, userID int64) ([]models.WatchlistEntry, error) {
	return s.store.GetWatchlist(ctx, userID)
}

// CreateCommentRequest carries the fields for a new comment
type CreateCommentRequest struct {
	UserID      int64  `json:"user_id" binding:"required"`
	ListingID   int64  `json:"listing_id" binding:"required"`
	CommentText string `json:"comment_text" binding:"required"`
}

// CreateComment posts a public comment on a listing
func (s *CommunityService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:      req.UserID,
		ListingID:   req.ListingID,
		CommentText: req.CommentText,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListCommentsForListing retrieves a listing's comments
func (s *CommunityService) ListCommentsForListing(ctx context.Context, listingID int64) ([]models.Comment, error) {
	return s.store.GetCommentsForListing(ctx, listingID)
}

// AnswerComment records the listing owner's single answer to a comment.
// The ownership check belongs to the caller.
func (s *CommunityService) AnswerComment(ctx context.Context, id int64, answerText string) (*models.Comment, error) {
	if answerText == "" {
		return nil, errs.InvalidArgument("answer text must not be empty")
	}
	return s.store.AnswerComment(ctx, id, answerText)
}

// DeleteComment removes a comment
func (s *CommunityService) DeleteComment(ctx context.Context, id int64) error {
	return s.store.DeleteComment(ctx, id)
}

// CreateReportRequest carries the fields for a new report
type CreateReportRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	ListingID int64  `json:"listing_id" binding:"required"`
	Reason    string `json:"report_reason" binding:"required"`
}

// CreateReport files a report against a listing; reports are append-only
func (s *CommunityService) CreateReport(ctx context.Context, req *CreateReportRequest) (*models.Report, error) {
	report := &models.Report{
		UserID:    req.UserID,
		ListingID: req.ListingID,
		Reason:    req.Reason,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Listing reported",
		zap.Int64("listing_id", report.ListingID),
		zap.Int64("report_id", report.ID))
	return report, nil
}

// GetReport retrieves one report
func (s *CommunityService) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	return s.store.GetReportByID(ctx, id)
}

// ListReports retrieves all reports
func (s *CommunityService) ListReports(ctx context.Context) ([]models.Report, error) {
	return s.store.GetAllReports(ctx)
}

// ListReportsForListing retrieves reports filed against one listing
func (s *CommunityService) ListReportsForListing(ctx context.Context, listingID int64) ([]models.Report, error) {
	return s.store.GetReportsForListing(ctx, listingID)
}

// DeleteReport removes a report
func (s *CommunityService) DeleteReport(ctx context.Context, id int64) error {
	return s.store.DeleteReport(ctx, id)
}

// SendMessageRequest carries the fields for a direct message
type SendMessageRequest struct {
	SenderID    int64  `json:"sender_id" binding:"required"`
	RecipientID int64  `json:"recipient_id" binding:"required"`
	ListingID   int64  `json:"listing_id" binding:"required"`
	Text        string `json:"message_text" binding:"required"`
}

// SendMessage records a direct message between two users
func (s *CommunityService) SendMessage(ctx context.Context, req *SendMessageRequest) (*models.Message, error) {
	if req.SenderID == req.RecipientID {
		return nil, errs.InvalidArgument("sender and recipient must differ")
	}

	msg := &models.Message{
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		ListingID:   req.ListingID,
		Text:        req.Text,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessagesForUser retrieves messages the user sent or received
func (s *CommunityService) ListMessagesForUser(ctx context.Context, userID int64) ([]models.Message, error) {
	return s.store.GetMessagesForUser(ctx, userID)
}

// MarkMessageRead flips is_read on a message; repeat calls succeed
func (s *CommunityService) MarkMessageRead(ctx context.Context, id int64) (*models.Message, error) {
	return s.store.MarkMessageRead(ctx, id)
}

// DeleteMessage removes a message
func (s *CommunityService) DeleteMessage(ctx context.Context, id int64) error {
	return s.store.DeleteMessage(ctx, id)
}
