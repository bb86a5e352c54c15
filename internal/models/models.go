package models

import "time"

// User represents a registered marketplace user
type User struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Email       string    `db:"email" json:"email"`
	Password    string    `db:"password" json:"-"`
	UserSince   time.Time `db:"user_since" json:"user_since"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
	PhoneNumber *string   `db:"phone_number" json:"phone_number,omitempty"`
}

// Category represents a listing category
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Listing represents an item offered on the marketplace
type Listing struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	Title       string    `db:"title" json:"title"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	ListingType string    `db:"listing_type" json:"listing_type"`
	Price       float64   `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Region      string    `db:"region" json:"region"`
	Status      string    `db:"status" json:"status"`
	Description string    `db:"description" json:"description"`
}

// Bid represents an offer of a price against a listing
type Bid struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Amount    float64   `db:"bid_amount" json:"bid_amount"`
}

// Transaction records an agreed sale between a user and a listing,
// optionally tied to the winning bid.
type Transaction struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	BidID     *int64    `db:"bid_id" json:"bid_id,omitempty"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Status    string    `db:"status" json:"status"`
	Amount    float64   `db:"amount" json:"amount"`
}

// Payment is the settlement record for exactly one transaction
type Payment struct {
	ID            int64     `db:"id" json:"id"`
	TransactionID int64     `db:"transaction_id" json:"transaction_id"`
	ListingID     int64     `db:"listing_id" json:"listing_id"`
	Method        string    `db:"payment_method" json:"payment_method"`
	Status        string    `db:"payment_status" json:"payment_status"`
	Amount        float64   `db:"amount" json:"amount"`
	PaidAt        time.Time `db:"paid_at" json:"paid_at"`
}

// Shipment tracks fulfillment for a listing
type Shipment struct {
	ID                    int64      `db:"id" json:"id"`
	UserID                int64      `db:"user_id" json:"user_id"`
	ListingID             int64      `db:"listing_id" json:"listing_id"`
	Method                string     `db:"shipping_method" json:"shipping_method"`
	Cost                  float64    `db:"shipping_cost" json:"shipping_cost"`
	EstimatedDeliveryDays *int       `db:"estimated_delivery_days" json:"estimated_delivery_days,omitempty"`
	TrackingNumber        *string    `db:"tracking_number" json:"tracking_number,omitempty"`
	Status                *string    `db:"status" json:"status,omitempty"`
	ShippedAt             *time.Time `db:"shipped_at" json:"shipped_at,omitempty"`
}

// Review is a single rating event from one user about another
type Review struct {
	ID             int64     `db:"id" json:"id"`
	ReviewerID     int64     `db:"reviewer_id" json:"reviewer_id"`
	ReviewedUserID int64     `db:"reviewed_user_id" json:"reviewed_user_id"`
	ListingID      *int64    `db:"listing_id" json:"listing_id,omitempty"`
	Rating         int       `db:"rating" json:"rating"`
	ReviewText     *string   `db:"review_text" json:"review_text,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// RatingSummary is the maintained aggregate of all reviews received by a user
type RatingSummary struct {
	ID            int64   `db:"id" json:"id"`
	UserID        int64   `db:"user_id" json:"user_id"`
	TotalRatings  int     `db:"total_ratings" json:"total_ratings"`
	AverageRating float64 `db:"average_rating" json:"average_rating"`
}

// Notification is immutable once created except for the is_read flag
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	Type      string    `db:"notification_type" json:"notification_type"`
	Message   string    `db:"notification_message" json:"notification_message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WatchlistEntry ties a user to a listing they follow
type WatchlistEntry struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Comment is a public question on a listing, optionally answered by the owner
type Comment struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	ListingID   int64      `db:"listing_id" json:"listing_id"`
	CommentText string     `db:"comment_text" json:"comment_text"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	AnswerText  *string    `db:"answer_text" json:"answer_text,omitempty"`
	AnsweredAt  *time.Time `db:"answered_at" json:"answered_at,omitempty"`
}

// Report flags a listing; append-only
type Report struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	Reason    string    `db:"report_reason" json:"report_reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Message is a direct message between two users about a listing
type Message struct {
	ID          int64     `db:"id" json:"id"`
	SenderID    int64     `db:"sender_id" json:"sender_id"`
	RecipientID int64     `db:"recipient_id" json:"recipient_id"`
	ListingID   int64     `db:"listing_id" json:"listing_id"`
	Text        string    `db:"message_text" json:"message_text"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	IsRead      bool      `db:"is_read" json:"is_read"`
}

// Image is a picture attached to a listing
type Image struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Listing statuses. Active is the only non-terminal state; sold and
// closed are sinks.
const (
	ListingStatusActive = "active"
	ListingStatusSold   = "sold"
	ListingStatusClosed = "closed"
)

// Listing types
const (
	ListingTypeBuying  = "buying"
	ListingTypeSelling = "selling"
	ListingTypeFree    = "free"
)

// Payment statuses. Allowed transitions: pending -> completed/failed/cancelled,
// completed -> refunded.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusRefunded  = "refunded"
)

// Recommended transaction statuses. The column is free-form; these are
// conventions, not a constraint.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusCancelled = "cancelled"
	TransactionStatusDisputed  = "disputed"
)

// Recommended shipment statuses, same caveat as transaction statuses.
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusShipped   = "shipped"
	ShipmentStatusDelivered = "delivered"
)

// Notification types emitted by the dispatcher
const (
	NotificationTypeNewBid         = "new_bid"
	NotificationTypeTransaction    = "transaction"
	NotificationTypePaymentUpdate  = "payment_update"
	NotificationTypeShipmentUpdate = "shipment_update"
)
