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

// FulfillmentService tracks shipping details for listings
type FulfillmentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewFulfillmentService creates a new fulfillment service
func NewFulfillmentService(store *store.Store, eventPublisher *broker.EventPublisher) *FulfillmentService {
	return &FulfillmentService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateShipmentRequest carries the fields for new shipping details
type CreateShipmentRequest struct {
	UserID                int64   `json:"user_id" binding:"required"`
	ListingID             int64   `json:"listing_id" binding:"required"`
	Method                string  `json:"shipping_method" binding:"required"`
	Cost                  float64 `json:"shipping_cost"`
	EstimatedDeliveryDays *int    `json:"estimated_delivery_days"`
}

// CreateShipment records shipping details for a listing. Tracking number
// and shipped_at stay unset until the shipment leaves its initial state.
func (s *FulfillmentService) CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*models.Shipment, error) {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.CreateShipment")
	defer span.End()

	if req.Cost < 0 {
		return nil, errs.InvalidArgument("shipping cost must not be negative, got %v", req.Cost)
	}

	status := models.ShipmentStatusPending
	shipment := &models.Shipment{
		UserID:                req.UserID,
		ListingID:             req.ListingID,
		Method:                req.Method,
		Cost:                  req.Cost,
		EstimatedDeliveryDays: req.EstimatedDeliveryDays,
		Status:                &status,
	}

	if err := s.store.CreateShipment(ctx, shipment); err != nil {
		return nil, err
	}

	util.ShipmentsCreatedTotal.Inc()
	s.logger.Info("Shipment created",
		zap.Int64("shipment_id", shipment.ID),
		zap.Int64("listing_id", shipment.ListingID))

	return shipment, nil
}

// GetShipmentForListing retrieves shipping details for a listing
func (s *FulfillmentService) GetShipmentForListing(ctx context.Context, listingID int64) (*models.Shipment, error) {
	return s.store.GetShipmentByListingID(ctx, listingID)
}

// UpdateTracking applies a partial tracking patch and publishes the change
func (s *FulfillmentService) UpdateTracking(ctx context.Context, id int64, patch *store.ShipmentPatch) (*models.Shipment, error) {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.UpdateTracking")
	defer span.End()

	if patch.TrackingNumber == nil && patch.Status == nil && patch.ShippedAt == nil {
		return nil, errs.InvalidArgument("tracking update must set at least one field")
	}

	shipment, err := s.store.UpdateShipmentTracking(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Shipment tracking updated", zap.Int64("shipment_id", shipment.ID))

	status := ""
	if shipment.Status != nil {
		status = *shipment.Status
	}
	tracking := ""
	if shipment.TrackingNumber != nil {
		tracking = *shipment.TrackingNumber
	}

	event := &models.ShipmentUpdatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeShipmentUpdated,
			Timestamp: time.Now(),
		},
		ShipmentID:     shipment.ID,
		ListingID:      shipment.ListingID,
		UserID:         shipment.UserID,
		Status:         status,
		TrackingNumber: tracking,
	}

	if err := s.eventPublisher.PublishShipmentUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish ShipmentUpdated event", zap.Error(err))
	}

	return shipment, nil
}

// DeleteShipment removes shipping details
func (s *FulfillmentService) DeleteShipment(ctx context.Context, id int64) error {
	return s.store.DeleteShipment(ctx, id)
}
