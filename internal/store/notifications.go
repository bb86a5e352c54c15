package store

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// CreateNotification inserts a notification row
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, listing_id, notification_type, notification_message, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, is_read, created_at`

	err := s.db.GetContext(ctx, n, query, n.UserID, n.ListingID, n.Type, n.Message)
	if err != nil {
		return errs.FromForeignKey(err, "user %d or listing %d does not exist", n.UserID, n.ListingID)
	}
	return nil
}

// MarkNotificationRead flips is_read for one notification. Marking an
// already-read notification again succeeds without change.
func (s *Store) MarkNotificationRead(ctx context.Context, id int64) (*models.Notification, error) {
	var n models.Notification
	err := s.db.GetContext(ctx, &n,
		"UPDATE notifications SET is_read = TRUE WHERE id = $1 RETURNING *", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("notification %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "mark notification %d read", id)
	}
	return &n, nil
}

// MarkAllNotificationsRead flips is_read for everything the user has.
// Running it twice is a no-op the second time; both calls succeed.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE", userID)
	if err != nil {
		return 0, errs.Unexpected(err, "mark notifications read for user %d", userID)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, errs.Unexpected(err, "mark notifications read for user %d", userID)
	}
	return count, nil
}

// GetUnreadNotifications retrieves a user's unread notifications
func (s *Store) GetUnreadNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.SelectContext(ctx, &notifications,
		"SELECT * FROM notifications WHERE user_id = $1 AND is_read = FALSE ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, errs.Unexpected(err, "list unread notifications for user %d", userID)
	}
	return notifications, nil
}

// GetNotifications retrieves all of a user's notifications, most recent first
func (s *Store) GetNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.SelectContext(ctx, &notifications,
		"SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, errs.Unexpected(err, "list notifications for user %d", userID)
	}
	return notifications, nil
}

// CountUnreadNotifications counts a user's unread notifications
func (s *Store) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE", userID)
	if err != nil {
		return 0, errs.Unexpected(err, "count unread notifications for user %d", userID)
	}
	return count, nil
}

// DeleteNotification removes a notification, reporting absence explicitly
func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM notifications WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("notification %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete notification %d", id)
	}
	return nil
}
