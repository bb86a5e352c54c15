package store

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// PlaceBid inserts a bid after locking the listing row and verifying it is
// still active. Returns the listing owner so callers can notify them.
func (s *Store) PlaceBid(ctx context.Context, bid *models.Bid) (ownerID int64, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errs.Unexpected(err, "place bid: begin")
	}
	defer tx.Rollback()

	var listing struct {
		UserID int64  `db:"user_id"`
		Status string `db:"status"`
	}
	err = tx.GetContext(ctx, &listing,
		"SELECT user_id, status FROM listings WHERE id = $1 FOR UPDATE", bid.ListingID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errs.NotFound("listing %d does not exist", bid.ListingID)
	}
	if err != nil {
		return 0, errs.Unexpected(err, "place bid: lock listing")
	}

	if listing.Status != models.ListingStatusActive {
		return 0, errs.InvalidState("listing %d is %s, bids are only accepted while active",
			bid.ListingID, listing.Status)
	}

	query := `
		INSERT INTO bids (user_id, listing_id, bid_amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	// The listing is verified above; the only reference left to the schema
	// is the bidder.
	if err := tx.GetContext(ctx, bid, query, bid.UserID, bid.ListingID, bid.Amount); err != nil {
		return 0, errs.FromForeignKey(err, "user %d does not exist", bid.UserID)
	}

	if err := tx.Commit(); err != nil {
		return 0, errs.Unexpected(err, "place bid: commit")
	}
	return listing.UserID, nil
}

// GetBidByID retrieves a single bid
func (s *Store) GetBidByID(ctx context.Context, id int64) (*models.Bid, error) {
	var bid models.Bid
	err := s.db.GetContext(ctx, &bid, "SELECT * FROM bids WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("bid %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get bid %d", id)
	}
	return &bid, nil
}

// GetAllBids retrieves every bid, most recent first
func (s *Store) GetAllBids(ctx context.Context) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.SelectContext(ctx, &bids, "SELECT * FROM bids ORDER BY created_at DESC")
	if err != nil {
		return nil, errs.Unexpected(err, "list bids")
	}
	return bids, nil
}

// GetBidsForListing returns bids ordered by amount descending; equal
// amounts surface the earlier bid first so the leading bid is deterministic.
func (s *Store) GetBidsForListing(ctx context.Context, listingID int64) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.SelectContext(ctx, &bids,
		"SELECT * FROM bids WHERE listing_id = $1 ORDER BY bid_amount DESC, created_at ASC",
		listingID)
	if err != nil {
		return nil, errs.Unexpected(err, "list bids for listing %d", listingID)
	}
	return bids, nil
}

// DeleteBid removes a bid, reporting absence explicitly
func (s *Store) DeleteBid(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM bids WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("bid %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete bid %d", id)
	}
	return nil
}
