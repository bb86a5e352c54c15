package service

import (
	"context"

	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.uber.org/zap"
)

// NotificationService owns the notification inbox for each user
type NotificationService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(store *store.Store, redis *redisclient.Client) *NotificationService {
	return &NotificationService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// CreateNotification inserts a notification and bumps the unread counter
func (s *NotificationService) CreateNotification(ctx context.Context, userID, listingID int64, notifType, message string) (*models.Notification, error) {
	ctx, span := util.StartSpan(ctx, "NotificationService.CreateNotification")
	defer span.End()

	n := &models.Notification{
		UserID:    userID,
		ListingID: listingID,
		Type:      notifType,
		Message:   message,
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}

	util.NotificationsCreatedTotal.Inc()
	if err := s.redis.IncrUnreadCount(ctx, userID); err != nil {
		s.logger.Warn("Unread counter increment failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	s.logger.Info("Notification dispatched",
		zap.Int64("notification_id", n.ID),
		zap.Int64("user_id", userID),
		zap.String("type", notifType))
	return n, nil
}

// MarkRead flips one notification to read; repeating it is a no-op success
func (s *NotificationService) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	n, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		return nil, err
	}
	// Counter may now be stale; drop it and let the next read reseed from the DB.
	if err := s.redis.ResetUnreadCount(ctx, n.UserID); err != nil {
		s.logger.Warn("Unread counter reset failed",
			zap.Int64("user_id", n.UserID), zap.Error(err))
	}
	return n, nil
}

// MarkAllRead flips every unread notification for a user. Idempotent:
// a second call affects zero rows and still succeeds.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	ctx, span := util.StartSpan(ctx, "NotificationService.MarkAllRead")
	defer span.End()

	count, err := s.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.redis.ResetUnreadCount(ctx, userID); err != nil {
		s.logger.Warn("Unread counter reset failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}
	return count, nil
}

// ListUnread retrieves a user's unread notifications
func (s *NotificationService) ListUnread(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.store.GetUnreadNotifications(ctx, userID)
}

// ListAll retrieves a user's notifications, most recent first
func (s *NotificationService) ListAll(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.store.GetNotifications(ctx, userID)
}

// UnreadCount returns the unread total, preferring the redis counter and
// reseeding it from the database on a miss
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if count, found, err := s.redis.GetUnreadCount(ctx, userID); err != nil {
		s.logger.Warn("Unread counter read failed",
			zap.Int64("user_id", userID), zap.Error(err))
	} else if found {
		return count, nil
	}

	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.redis.SetUnreadCount(ctx, userID, count); err != nil {
		s.logger.Warn("Unread counter seed failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}
	return count, nil
}

// DeleteNotification removes a notification
func (s *NotificationService) DeleteNotification(ctx context.Context, id int64) error {
	return s.store.DeleteNotification(ctx, id)
}
