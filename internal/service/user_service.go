package service

import (
	"context"
	"time"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages users, categories, and listing images
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store *store.Store) *UserService {
	return &UserService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateUserRequest carries the fields for registration
type CreateUserRequest struct {
	Username    string  `json:"username" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	DateOfBirth string  `json:"date_of_birth" binding:"required"`
	PhoneNumber *string `json:"phone_number"`
}

// CreateUser registers a user; the password is stored as a bcrypt hash
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "UserService.CreateUser")
	defer span.End()

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, errs.InvalidArgument("date_of_birth must be YYYY-MM-DD, got %q", req.DateOfBirth)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Unexpected(err, "hash password")
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hash),
		DateOfBirth: dob,
		PhoneNumber: req.PhoneNumber,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

// GetUser retrieves one user
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// ListUsers retrieves all users
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.GetUsers(ctx)
}

// UpdateUser applies a partial patch to contact fields
func (s *UserService) UpdateUser(ctx context.Context, id int64, patch *store.UserPatch) (*models.User, error) {
	return s.store.UpdateUser(ctx, id, patch)
}

// DeleteUser removes a user
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.store.DeleteUser(ctx, id)
}

// CreateCategory adds a listing category
func (s *UserService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, errs.InvalidArgument("category name must not be empty")
	}
	category := &models.Category{Name: name}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories retrieves all categories
func (s *UserService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.GetCategories(ctx)
}

// DeleteCategory removes a category
func (s *UserService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}

// CreateImageRequest carries the fields for a listing image
type CreateImageRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	ListingID int64  `json:"listing_id" binding:"required"`
	ImageURL  string `json:"image_url" binding:"required"`
}

// CreateImage attaches an image to a listing
func (s *UserService) CreateImage(ctx context.Context, req *CreateImageRequest) (*models.Image, error) {
	image := &models.Image{
		UserID:    req.UserID,
		ListingID: req.ListingID,
		ImageURL:  req.ImageURL,
	}
	if err := s.store.CreateImage(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

// GetImage retrieves one image record
func (s *UserService) GetImage(ctx context.Context, id int64) (*models.Image, error) {
	return s.store.GetImageByID(ctx, id)
}

// ListImages retrieves all image records
func (s *UserService) ListImages(ctx context.Context) ([]models.Image, error) {
	return s.store.GetAllImages(ctx)
}

// ListImagesForListing retrieves a listing's images
func (s *UserService) ListImagesForListing(ctx context.Context, listingID int64) ([]models.Image, error) {
	return s.store.GetImagesForListing(ctx, listingID)
}

// DeleteImage removes an image record
func (s *UserService) DeleteImage(ctx context.Context, id int64) error {
	return s.store.DeleteImage(ctx, id)
}
