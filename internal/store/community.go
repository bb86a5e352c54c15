package store

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// AddWatchlistEntry inserts a (user, listing) pair. The composite primary
// key makes a duplicate pair a Conflict.
func (s *Store) AddWatchlistEntry(ctx context.Context, entry *models.WatchlistEntry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "add watchlist entry: begin")
	}
	defer tx.Rollback()

	ok, err := listingExistsTx(ctx, tx, entry.ListingID)
	if err != nil {
		return errs.Unexpected(err, "add watchlist entry: check listing")
	}
	if !ok {
		return errs.InvalidReference("listing %d does not exist", entry.ListingID)
	}

	ok, err = userExistsTx(ctx, tx, entry.UserID)
	if err != nil {
		return errs.Unexpected(err, "add watchlist entry: check user")
	}
	if !ok {
		return errs.InvalidReference("user %d does not exist", entry.UserID)
	}

	query := `
		INSERT INTO listings_watch_list (user_id, listing_id)
		VALUES ($1, $2)
		RETURNING created_at`

	if err := tx.GetContext(ctx, &entry.CreatedAt, query, entry.UserID, entry.ListingID); err != nil {
		return errs.FromUnique(err, "user %d already watches listing %d", entry.UserID, entry.ListingID)
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "add watchlist entry: commit")
	}
	return nil
}

// RemoveWatchlistEntry deletes a pair, reporting absence explicitly
func (s *Store) RemoveWatchlistEntry(ctx context.Context, userID, listingID int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted,
		"DELETE FROM listings_watch_list WHERE user_id = $1 AND listing_id = $2 RETURNING user_id",
		userID, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("user %d does not watch listing %d", userID, listingID)
	}
	if err != nil {
		return errs.Unexpected(err, "remove watchlist entry")
	}
	return nil
}

// GetWatchlist retrieves a user's watchlist entries, newest first
func (s *Store) GetWatchlist(ctx context.Context, userID int64) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM listings_watch_list WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, errs.Unexpected(err, "list watchlist for user %d", userID)
	}
	return entries, nil
}

// CreateComment inserts a comment on a listing
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create comment: begin")
	}
	defer tx.Rollback()

	ok, err := listingExistsTx(ctx, tx, comment.ListingID)
	if err != nil {
		return errs.Unexpected(err, "create comment: check listing")
	}
	if !ok {
		return errs.InvalidReference("listing %d does not exist", comment.ListingID)
	}

	query := `
		INSERT INTO listing_comments (user_id, listing_id, comment_text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	if err := tx.GetContext(ctx, comment, query,
		comment.UserID, comment.ListingID, comment.CommentText); err != nil {
		return errs.FromForeignKey(err, "user %d does not exist", comment.UserID)
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create comment: commit")
	}
	return nil
}

// GetCommentsForListing retrieves comments on a listing, oldest first
func (s *Store) GetCommentsForListing(ctx context.Context, listingID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.SelectContext(ctx, &comments,
		"SELECT * FROM listing_comments WHERE listing_id = $1 ORDER BY created_at ASC", listingID)
	if err != nil {
		return nil, errs.Unexpected(err, "list comments for listing %d", listingID)
	}
	return comments, nil
}

// AnswerComment records the owner's answer. A comment can be answered at
// most once; the conditional update rejects a second answer.
func (s *Store) AnswerComment(ctx context.Context, id int64, answerText string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.GetContext(ctx, &comment, `
		UPDATE listing_comments
		SET answer_text = $1, answered_at = NOW()
		WHERE id = $2 AND answer_text IS NULL
		RETURNING *`, answerText, id)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		err := s.db.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM listing_comments WHERE id = $1)", id)
		if err != nil {
			return nil, errs.Unexpected(err, "answer comment %d", id)
		}
		if exists {
			return nil, errs.Conflict("comment %d is already answered", id)
		}
		return nil, errs.NotFound("comment %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "answer comment %d", id)
	}
	return &comment, nil
}

// DeleteComment removes a comment, reporting absence explicitly
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM listing_comments WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("comment %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete comment %d", id)
	}
	return nil
}

// CreateReport inserts a report against a listing
func (s *Store) CreateReport(ctx context.Context, report *models.Report) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create report: begin")
	}
	defer tx.Rollback()

	ok, err := listingExistsTx(ctx, tx, report.ListingID)
	if err != nil {
		return errs.Unexpected(err, "create report: check listing")
	}
	if !ok {
		return errs.InvalidReference("listing %d does not exist", report.ListingID)
	}

	query := `
		INSERT INTO reports (user_id, listing_id, report_reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	if err := tx.GetContext(ctx, report, query,
		report.UserID, report.ListingID, report.Reason); err != nil {
		return errs.FromForeignKey(err, "user %d does not exist", report.UserID)
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create report: commit")
	}
	return nil
}

// GetReportByID retrieves a report
func (s *Store) GetReportByID(ctx context.Context, id int64) (*models.Report, error) {
	var report models.Report
	err := s.db.GetContext(ctx, &report, "SELECT * FROM reports WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("report %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get report %d", id)
	}
	return &report, nil
}

// GetAllReports retrieves every report, most recent first
func (s *Store) GetAllReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.SelectContext(ctx, &reports, "SELECT * FROM reports ORDER BY created_at DESC")
	if err != nil {
		return nil, errs.Unexpected(err, "list reports")
	}
	return reports, nil
}

// GetReportsForListing retrieves reports against one listing
func (s *Store) GetReportsForListing(ctx context.Context, listingID int64) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.SelectContext(ctx, &reports,
		"SELECT * FROM reports WHERE listing_id = $1 ORDER BY created_at DESC", listingID)
	if err != nil {
		return nil, errs.Unexpected(err, "list reports for listing %d", listingID)
	}
	return reports, nil
}

// DeleteReport removes a report, reporting absence explicitly
func (s *Store) DeleteReport(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM reports WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("report %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete report %d", id)
	}
	return nil
}

// CreateMessage inserts a direct message
func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create message: begin")
	}
	defer tx.Rollback()

	ok, err := listingExistsTx(ctx, tx, msg.ListingID)
	if err != nil {
		return errs.Unexpected(err, "create message: check listing")
	}
	if !ok {
		return errs.InvalidReference("listing %d does not exist", msg.ListingID)
	}

	query := `
		INSERT INTO messages (sender_id, recipient_id, listing_id, message_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, is_read`

	if err := tx.GetContext(ctx, msg, query,
		msg.SenderID, msg.RecipientID, msg.ListingID, msg.Text); err != nil {
		return errs.FromForeignKey(err, "sender %d or recipient %d does not exist",
			msg.SenderID, msg.RecipientID)
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create message: commit")
	}
	return nil
}

// GetMessagesForUser retrieves messages the user sent or received
func (s *Store) GetMessagesForUser(ctx context.Context, userID int64) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.SelectContext(ctx, &messages,
		"SELECT * FROM messages WHERE sender_id = $1 OR recipient_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, errs.Unexpected(err, "list messages for user %d", userID)
	}
	return messages, nil
}

// MarkMessageRead flips is_read; repeat calls are no-op successes
func (s *Store) MarkMessageRead(ctx context.Context, id int64) (*models.Message, error) {
	var msg models.Message
	err := s.db.GetContext(ctx, &msg,
		"UPDATE messages SET is_read = TRUE WHERE id = $1 RETURNING *", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("message %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "mark message %d read", id)
	}
	return &msg, nil
}

// DeleteMessage removes a message, reporting absence explicitly
func (s *Store) DeleteMessage(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM messages WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("message %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete message %d", id)
	}
	return nil
}
