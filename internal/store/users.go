package store

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// UserPatch carries a partial user update: nil fields are left unchanged.
type UserPatch struct {
	Email       *string
	PhoneNumber *string
}

// CreateUser inserts a user; username and email are unique
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password, date_of_birth, phone_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_since`

	err := s.db.GetContext(ctx, user, query,
		user.Username, user.Email, user.Password, user.DateOfBirth, user.PhoneNumber)
	if err != nil {
		return errs.FromUnique(err, "username or email already taken")
	}
	return nil
}

// GetUserByID retrieves a user
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("user %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get user %d", id)
	}
	return &user, nil
}

// GetUsers retrieves all users
func (s *Store) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id")
	if err != nil {
		return nil, errs.Unexpected(err, "list users")
	}
	return users, nil
}

// UpdateUser applies a partial patch to contact fields
func (s *Store) UpdateUser(ctx context.Context, id int64, patch *UserPatch) (*models.User, error) {
	query := `
		UPDATE users
		SET email        = COALESCE($1, email),
		    phone_number = COALESCE($2, phone_number)
		WHERE id = $3
		RETURNING *`

	var user models.User
	err := s.db.GetContext(ctx, &user, query, patch.Email, patch.PhoneNumber, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("user %d does not exist", id)
	}
	if err != nil {
		return nil, errs.FromUnique(err, "email already taken")
	}
	return &user, nil
}

// DeleteUser removes a user, reporting absence explicitly
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM users WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("user %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete user %d", id)
	}
	return nil
}

// CreateCategory inserts a category
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	err := s.db.GetContext(ctx, &category.ID,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", category.Name)
	if err != nil {
		return errs.Unexpected(err, "create category")
	}
	return nil
}

// GetCategories retrieves all categories
func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY id")
	if err != nil {
		return nil, errs.Unexpected(err, "list categories")
	}
	return categories, nil
}

// DeleteCategory removes a category, reporting absence explicitly
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM categories WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("category %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete category %d", id)
	}
	return nil
}

// CreateImage attaches an image to a listing
func (s *Store) CreateImage(ctx context.Context, image *models.Image) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create image: begin")
	}
	defer tx.Rollback()

	ok, err := listingExistsTx(ctx, tx, image.ListingID)
	if err != nil {
		return errs.Unexpected(err, "create image: check listing")
	}
	if !ok {
		return errs.InvalidReference("listing %d does not exist", image.ListingID)
	}

	query := `
		INSERT INTO images (user_id, listing_id, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	if err := tx.GetContext(ctx, image, query,
		image.UserID, image.ListingID, image.ImageURL); err != nil {
		return errs.FromForeignKey(err, "user %d does not exist", image.UserID)
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create image: commit")
	}
	return nil
}

// GetImageByID retrieves an image record
func (s *Store) GetImageByID(ctx context.Context, id int64) (*models.Image, error) {
	var image models.Image
	err := s.db.GetContext(ctx, &image, "SELECT * FROM images WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("image %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get image %d", id)
	}
	return &image, nil
}

// GetAllImages retrieves every image record
func (s *Store) GetAllImages(ctx context.Context) ([]models.Image, error) {
	var images []models.Image
	err := s.db.SelectContext(ctx, &images, "SELECT * FROM images ORDER BY created_at DESC")
	if err != nil {
		return nil, errs.Unexpected(err, "list images")
	}
	return images, nil
}

// GetImagesForListing retrieves a listing's images
func (s *Store) GetImagesForListing(ctx context.Context, listingID int64) ([]models.Image, error) {
	var images []models.Image
	err := s.db.SelectContext(ctx, &images,
		"SELECT * FROM images WHERE listing_id = $1 ORDER BY created_at ASC", listingID)
	if err != nil {
		return nil, errs.Unexpected(err, "list images for listing %d", listingID)
	}
	return images, nil
}

// DeleteImage removes an image record, reporting absence explicitly
func (s *Store) DeleteImage(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM images WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("image %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete image %d", id)
	}
	return nil
}
