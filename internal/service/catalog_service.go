package service

import (
	"context"
	"time"

	"marketplace-service/internal/broker"
	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService handles listing and bid business logic
type CatalogService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, eventPublisher *broker.EventPublisher) *CatalogService {
	return &CatalogService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateListingRequest carries the fields for a new listing
type CreateListingRequest struct {
	UserID      int64   `json:"user_id" binding:"required"`
	CategoryID  int64   `json:"category_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	ImageURL    *string `json:"image_url"`
	ListingType string  `json:"listing_type" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Region      string  `json:"region" binding:"required"`
	Description string  `json:"description" binding:"required"`
}

var listingTypes = map[string]bool{
	models.ListingTypeBuying:  true,
	models.ListingTypeSelling: true,
	models.ListingTypeFree:    true,
}

// CreateListing creates a new active listing
func (s *CatalogService) CreateListing(ctx context.Context, req *CreateListingRequest) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateListing")
	defer span.End()

	if req.Price <= 0 {
		return nil, errs.InvalidArgument("price must be positive, got %v", req.Price)
	}
	if !listingTypes[req.ListingType] {
		return nil, errs.InvalidArgument("unknown listing type %q", req.ListingType)
	}

	listing := &models.Listing{
		UserID:      req.UserID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		ListingType: req.ListingType,
		Price:       req.Price,
		Region:      req.Region,
		Status:      models.ListingStatusActive,
		Description: req.Description,
	}

	if err := s.store.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	util.ListingsCreatedTotal.Inc()
	s.logger.Info("Listing created",
		zap.Int64("listing_id", listing.ID),
		zap.Int64("user_id", listing.UserID))

	return listing, nil
}

// GetListing retrieves one listing
func (s *CatalogService) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	return s.store.GetListingByID(ctx, id)
}

// ListListings retrieves all listings
func (s *CatalogService) ListListings(ctx context.Context) ([]models.Listing, error) {
	return s.store.GetListings(ctx)
}

// UpdateListing applies a partial patch; nil fields are left unchanged
func (s *CatalogService) UpdateListing(ctx context.Context, id int64, patch *store.ListingPatch) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateListing")
	defer span.End()

	if patch.Price != nil && *patch.Price <= 0 {
		return nil, errs.InvalidArgument("price must be positive, got %v", *patch.Price)
	}

	return s.store.UpdateListing(ctx, id, patch)
}

// CloseListing moves a listing to sold or closed; both are terminal
func (s *CatalogService) CloseListing(ctx context.Context, id int64, status string) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CloseListing")
	defer span.End()

	if status != models.ListingStatusSold && status != models.ListingStatusClosed {
		return nil, errs.InvalidArgument("status must be %q or %q, got %q",
			models.ListingStatusSold, models.ListingStatusClosed, status)
	}

	listing, err := s.store.UpdateListingStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	util.ListingsClosedTotal.WithLabelValues(status).Inc()
	s.logger.Info("Listing closed",
		zap.Int64("listing_id", id),
		zap.String("status", status))

	return listing, nil
}

// DeleteListing removes a listing
func (s *CatalogService) DeleteListing(ctx context.Context, id int64) error {
	return s.store.DeleteListing(ctx, id)
}

// PlaceBidRequest carries the fields for a new bid
type PlaceBidRequest struct {
	UserID    int64   `json:"user_id" binding:"required"`
	ListingID int64   `json:"listing_id" binding:"required"`
	Amount    float64 `json:"bid_amount" binding:"required"`
}

// PlaceBid records a bid against an active listing and publishes the fact
func (s *CatalogService) PlaceBid(ctx context.Context, req *PlaceBidRequest) (*models.Bid, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.PlaceBid")
	defer span.End()

	if req.Amount <= 0 {
		util.BidsRejectedTotal.WithLabelValues("invalid_amount").Inc()
		return nil, errs.InvalidArgument("bid amount must be positive, got %v", req.Amount)
	}

	bid := &models.Bid{
		UserID:    req.UserID,
		ListingID: req.ListingID,
		Amount:    req.Amount,
	}

	ownerID, err := s.store.PlaceBid(ctx, bid)
	if err != nil {
		if errs.Is(err, errs.KindInvalidState) {
			util.BidsRejectedTotal.WithLabelValues("listing_not_active").Inc()
		}
		return nil, err
	}

	util.BidsPlacedTotal.Inc()
	s.logger.Info("Bid placed",
		zap.Int64("bid_id", bid.ID),
		zap.Int64("listing_id", bid.ListingID),
		zap.Float64("amount", bid.Amount))

	event := &models.BidPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBidPlaced,
			Timestamp: time.Now(),
		},
		BidID:     bid.ID,
		ListingID: bid.ListingID,
		OwnerID:   ownerID,
		BidderID:  bid.UserID,
		Amount:    bid.Amount,
	}

	if err := s.eventPublisher.PublishBidPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish BidPlaced event", zap.Error(err))
	}

	return bid, nil
}

// GetBid retrieves one bid
func (s *CatalogService) GetBid(ctx context.Context, id int64) (*models.Bid, error) {
	return s.store.GetBidByID(ctx, id)
}

// ListBids retrieves all bids
func (s *CatalogService) ListBids(ctx context.Context) ([]models.Bid, error) {
	return s.store.GetAllBids(ctx)
}

// ListBidsForListing returns a listing's bids, leading bid first
func (s *CatalogService) ListBidsForListing(ctx context.Context, listingID int64) ([]models.Bid, error) {
	return s.store.GetBidsForListing(ctx, listingID)
}

// DeleteBid removes a bid
func (s *CatalogService) DeleteBid(ctx context.Context, id int64) error {
	return s.store.DeleteBid(ctx, id)
}
