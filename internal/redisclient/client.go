package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"marketplace-service/internal/models"
)

const ratingSummaryTTL = 10 * time.Minute

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func ratingKey(userID int64) string {
	return fmt.Sprintf("rating-summary:%d", userID)
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("unread-notifications:%d", userID)
}

// GetRatingSummary returns a cached summary, or nil on a miss
func (c *Client) GetRatingSummary(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	data, err := c.rdb.Get(ctx, ratingKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rating summary cache: %w", err)
	}

	var summary models.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode rating summary cache: %w", err)
	}
	return &summary, nil
}

// SetRatingSummary caches a summary with a TTL
func (c *Client) SetRatingSummary(ctx context.Context, summary *models.RatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode rating summary: %w", err)
	}
	return c.rdb.Set(ctx, ratingKey(summary.UserID), data, ratingSummaryTTL).Err()
}

// InvalidateRatingSummary drops the cached summary after a review write
func (c *Client) InvalidateRatingSummary(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, ratingKey(userID)).Err()
}

// IncrUnreadCount bumps the unread-notification counter for a user
func (c *Client) IncrUnreadCount(ctx context.Context, userID int64) error {
	return c.rdb.Incr(ctx, unreadKey(userID)).Err()
}

// GetUnreadCount returns the cached unread counter; found is false on a miss
func (c *Client) GetUnreadCount(ctx context.Context, userID int64) (count int64, found bool, err error) {
	count, err = c.rdb.Get(ctx, unreadKey(userID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get unread count: %w", err)
	}
	return count, true, nil
}

// SetUnreadCount seeds the counter from an authoritative database count
func (c *Client) SetUnreadCount(ctx context.Context, userID, count int64) error {
	return c.rdb.Set(ctx, unreadKey(userID), count, 0).Err()
}

// ResetUnreadCount drops the counter; used after mark-all-read and when a
// single mark-read makes the cached value stale.
func (c *Client) ResetUnreadCount(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, unreadKey(userID)).Err()
}
