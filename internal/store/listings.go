package store

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// ListingPatch carries a partial update: nil fields are left unchanged.
type ListingPatch struct {
	CategoryID  *int64
	Title       *string
	ImageURL    *string
	Price       *float64
	Region      *string
	Description *string
}

// CreateListing inserts a listing after validating its references.
func (s *Store) CreateListing(ctx context.Context, listing *models.Listing) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create listing: begin")
	}
	defer tx.Rollback()

	ok, err := userExistsTx(ctx, tx, listing.UserID)
	if err != nil {
		return errs.Unexpected(err, "create listing: check user")
	}
	if !ok {
		return errs.InvalidReference("user %d does not exist", listing.UserID)
	}

	var categoryExists bool
	if err := tx.GetContext(ctx, &categoryExists,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", listing.CategoryID); err != nil {
		return errs.Unexpected(err, "create listing: check category")
	}
	if !categoryExists {
		return errs.InvalidReference("category %d does not exist", listing.CategoryID)
	}

	query := `
		INSERT INTO listings (user_id, category_id, title, image_url, listing_type, price, region, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	if err := tx.GetContext(ctx, listing, query,
		listing.UserID, listing.CategoryID, listing.Title, listing.ImageURL,
		listing.ListingType, listing.Price, listing.Region, listing.Status,
		listing.Description); err != nil {
		return errs.Unexpected(err, "create listing: insert")
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create listing: commit")
	}
	return nil
}

// GetListingByID retrieves a listing by ID
func (s *Store) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.GetContext(ctx, &listing, "SELECT * FROM listings WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("listing %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get listing %d", id)
	}
	return &listing, nil
}

// GetListings retrieves all listings, most recent first
func (s *Store) GetListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings, "SELECT * FROM listings ORDER BY created_at DESC")
	if err != nil {
		return nil, errs.Unexpected(err, "list listings")
	}
	return listings, nil
}

// UpdateListing applies a partial patch; unset fields keep their value.
func (s *Store) UpdateListing(ctx context.Context, id int64, patch *ListingPatch) (*models.Listing, error) {
	query := `
		UPDATE listings
		SET category_id = COALESCE($1, category_id),
		    title       = COALESCE($2, title),
		    image_url   = COALESCE($3, image_url),
		    price       = COALESCE($4, price),
		    region      = COALESCE($5, region),
		    description = COALESCE($6, description)
		WHERE id = $7
		RETURNING *`

	var listing models.Listing
	err := s.db.GetContext(ctx, &listing, query,
		patch.CategoryID, patch.Title, patch.ImageURL, patch.Price,
		patch.Region, patch.Description, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("listing %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "update listing %d", id)
	}
	return &listing, nil
}

// UpdateListingStatus moves a listing to a terminal state. The conditional
// update is what makes the transition monotonic: a listing that already
// left active cannot match.
func (s *Store) UpdateListingStatus(ctx context.Context, id int64, status string) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.GetContext(ctx, &listing,
		"UPDATE listings SET status = $1 WHERE id = $2 AND status = $3 RETURNING *",
		status, id, models.ListingStatusActive)
	if errors.Is(err, sql.ErrNoRows) {
		var current string
		err := s.db.GetContext(ctx, &current, "SELECT status FROM listings WHERE id = $1", id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("listing %d does not exist", id)
		}
		if err != nil {
			return nil, errs.Unexpected(err, "update listing %d status", id)
		}
		return nil, errs.InvalidState("listing %d is %s and cannot change status", id, current)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "update listing %d status", id)
	}
	return &listing, nil
}

// DeleteListing removes a listing, reporting absence explicitly
func (s *Store) DeleteListing(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM listings WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("listing %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete listing %d", id)
	}
	return nil
}
