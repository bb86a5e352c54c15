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

// PaymentService tracks the settlement record for each transaction
type PaymentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *store.Store, eventPublisher *broker.EventPublisher) *PaymentService {
	return &PaymentService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreatePaymentRequest carries the fields for a new payment
type CreatePaymentRequest struct {
	TransactionID int64   `json:"transaction_id" binding:"required"`
	ListingID     int64   `json:"listing_id" binding:"required"`
	Method        string  `json:"payment_method" binding:"required"`
	Status        string  `json:"payment_status"`
	Amount        float64 `json:"amount" binding:"required"`
}

var paymentStatuses = map[string]bool{
	models.PaymentStatusPending:   true,
	models.PaymentStatusCompleted: true,
	models.PaymentStatusFailed:    true,
	models.PaymentStatusCancelled: true,
	models.PaymentStatusRefunded:  true,
}

// CreatePayment creates the single payment for a transaction
func (s *PaymentService) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreatePayment")
	defer span.End()

	if req.Amount <= 0 {
		return nil, errs.InvalidArgument("amount must be positive, got %v", req.Amount)
	}
	if req.Status == "" {
		req.Status = models.PaymentStatusPending
	}
	if !paymentStatuses[req.Status] {
		return nil, errs.InvalidArgument("unknown payment status %q", req.Status)
	}

	payment := &models.Payment{
		TransactionID: req.TransactionID,
		ListingID:     req.ListingID,
		Method:        req.Method,
		Status:        req.Status,
		Amount:        req.Amount,
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	util.PaymentsCreatedTotal.Inc()
	s.logger.Info("Payment created",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("transaction_id", payment.TransactionID),
		zap.String("status", payment.Status))

	s.publishStatusChanged(ctx, payment)
	return payment, nil
}

// GetPaymentByTransaction retrieves the payment for a transaction
func (s *PaymentService) GetPaymentByTransaction(ctx context.Context, transactionID int64) (*models.Payment, error) {
	return s.store.GetPaymentByTransactionID(ctx, transactionID)
}

// ListPayments retrieves all payments
func (s *PaymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return s.store.GetAllPayments(ctx)
}

// UpdatePaymentStatus overwrites the payment status. Callers supply the
// full target status; the store enforces the transition machine.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id int64, status string) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.UpdatePaymentStatus")
	defer span.End()

	if !paymentStatuses[status] {
		return nil, errs.InvalidArgument("unknown payment status %q", status)
	}

	payment, err := s.store.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	util.PaymentStatusUpdatesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Payment status updated",
		zap.Int64("payment_id", payment.ID),
		zap.String("status", status))

	s.publishStatusChanged(ctx, payment)
	return payment, nil
}

// DeletePayment removes a payment
func (s *PaymentService) DeletePayment(ctx context.Context, id int64) error {
	return s.store.DeletePayment(ctx, id)
}

func (s *PaymentService) publishStatusChanged(ctx context.Context, payment *models.Payment) {
	var buyerID int64
	if txn, err := s.store.GetTransactionByID(ctx, payment.TransactionID); err != nil {
		s.logger.Warn("Failed to resolve buyer for payment event",
			zap.Int64("transaction_id", payment.TransactionID), zap.Error(err))
	} else {
		buyerID = txn.UserID
	}

	event := &models.PaymentStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentStatusChanged,
			Timestamp: time.Now(),
		},
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		ListingID:     payment.ListingID,
		BuyerID:       buyerID,
		Status:        payment.Status,
	}

	if err := s.eventPublisher.PublishPaymentStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentStatusChanged event", zap.Error(err))
	}
}
