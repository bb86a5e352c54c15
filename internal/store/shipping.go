package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// ShipmentPatch carries a partial tracking update: nil fields are left unchanged.
type ShipmentPatch struct {
	TrackingNumber *string
	Status         *string
	ShippedAt      *time.Time
}

// CreateShipment inserts shipping details for a listing
func (s *Store) CreateShipment(ctx context.Context, shipment *models.Shipment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create shipment: begin")
	}
	defer tx.Rollback()

	ok, err := listingExistsTx(ctx, tx, shipment.ListingID)
	if err != nil {
		return errs.Unexpected(err, "create shipment: check listing")
	}
	if !ok {
		return errs.InvalidReference("listing %d does not exist", shipment.ListingID)
	}

	query := `
		INSERT INTO shipping_details (user_id, listing_id, shipping_method, shipping_cost, estimated_delivery_days, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if err := tx.GetContext(ctx, &shipment.ID, query,
		shipment.UserID, shipment.ListingID, shipment.Method, shipment.Cost,
		shipment.EstimatedDeliveryDays, shipment.Status); err != nil {
		return errs.FromForeignKey(err, "user %d does not exist", shipment.UserID)
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create shipment: commit")
	}
	return nil
}

// GetShipmentByListingID retrieves shipping details for a listing
func (s *Store) GetShipmentByListingID(ctx context.Context, listingID int64) (*models.Shipment, error) {
	var shipment models.Shipment
	err := s.db.GetContext(ctx, &shipment,
		"SELECT * FROM shipping_details WHERE listing_id = $1", listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("no shipping details for listing %d", listingID)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get shipment for listing %d", listingID)
	}
	return &shipment, nil
}

// UpdateShipmentTracking applies a partial tracking patch; unset fields
// keep their stored value.
func (s *Store) UpdateShipmentTracking(ctx context.Context, id int64, patch *ShipmentPatch) (*models.Shipment, error) {
	query := `
		UPDATE shipping_details
		SET tracking_number = COALESCE($1, tracking_number),
		    status          = COALESCE($2, status),
		    shipped_at      = COALESCE($3, shipped_at)
		WHERE id = $4
		RETURNING *`

	var shipment models.Shipment
	err := s.db.GetContext(ctx, &shipment, query,
		patch.TrackingNumber, patch.Status, patch.ShippedAt, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("shipment %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "update shipment %d", id)
	}
	return &shipment, nil
}

// DeleteShipment removes shipping details, reporting absence explicitly
func (s *Store) DeleteShipment(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM shipping_details WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("shipment %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete shipment %d", id)
	}
	return nil
}
