package models

import "time"

// Event types
const (
	EventTypeBidPlaced            = "BID_PLACED"
	EventTypeTransactionCreated   = "TRANSACTION_CREATED"
	EventTypePaymentStatusChanged = "PAYMENT_STATUS_CHANGED"
	EventTypeShipmentUpdated      = "SHIPMENT_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BidPlacedEvent published when a bid is accepted on a listing
type BidPlacedEvent struct {
	BaseEvent
	BidID     int64   `json:"bid_id"`
	ListingID int64   `json:"listing_id"`
	OwnerID   int64   `json:"owner_id"`
	BidderID  int64   `json:"bidder_id"`
	Amount    float64 `json:"amount"`
}

// TransactionCreatedEvent published when a sale is recorded
type TransactionCreatedEvent struct {
	BaseEvent
	TransactionID int64   `json:"transaction_id"`
	ListingID     int64   `json:"listing_id"`
	BuyerID       int64   `json:"buyer_id"`
	Amount        float64 `json:"amount"`
}

// PaymentStatusChangedEvent published on payment creation and status updates
type PaymentStatusChangedEvent struct {
	BaseEvent
	PaymentID     int64  `json:"payment_id"`
	TransactionID int64  `json:"transaction_id"`
	ListingID     int64  `json:"listing_id"`
	BuyerID       int64  `json:"buyer_id"`
	Status        string `json:"status"`
}

// ShipmentUpdatedEvent published when tracking information changes
type ShipmentUpdatedEvent struct {
	BaseEvent
	ShipmentID     int64  `json:"shipment_id"`
	ListingID      int64  `json:"listing_id"`
	UserID         int64  `json:"user_id"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}
