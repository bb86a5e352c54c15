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

// LedgerService records agreed sales and their lifecycle status
type LedgerService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store *store.Store, eventPublisher *broker.EventPublisher) *LedgerService {
	return &LedgerService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateTransactionRequest carries the fields for a new transaction
type CreateTransactionRequest struct {
	UserID    int64   `json:"user_id" binding:"required"`
	ListingID int64   `json:"listing_id" binding:"required"`
	BidID     *int64  `json:"bid_id"`
	Status    string  `json:"status" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
}

// CreateTransaction records a sale against a listing, optionally tied to a bid
func (s *LedgerService) CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*models.Transaction, error) {
	ctx, span := util.StartSpan(ctx, "LedgerService.CreateTransaction")
	defer span.End()

	if req.Amount <= 0 {
		return nil, errs.InvalidArgument("amount must be positive, got %v", req.Amount)
	}

	txn := &models.Transaction{
		UserID:    req.UserID,
		ListingID: req.ListingID,
		BidID:     req.BidID,
		Status:    req.Status,
		Amount:    req.Amount,
	}

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	util.TransactionsCreatedTotal.Inc()
	s.logger.Info("Transaction recorded",
		zap.Int64("transaction_id", txn.ID),
		zap.Int64("listing_id", txn.ListingID),
		zap.Float64("amount", txn.Amount))

	event := &models.TransactionCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeTransactionCreated,
			Timestamp: time.Now(),
		},
		TransactionID: txn.ID,
		ListingID:     txn.ListingID,
		BuyerID:       txn.UserID,
		Amount:        txn.Amount,
	}

	if err := s.eventPublisher.PublishTransactionCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish TransactionCreated event", zap.Error(err))
	}

	return txn, nil
}

// GetTransaction retrieves one transaction
func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	return s.store.GetTransactionByID(ctx, id)
}

// ListTransactions retrieves all transactions
func (s *LedgerService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.store.GetAllTransactions(ctx)
}

// ListTransactionsForUser retrieves a user's transactions
func (s *LedgerService) ListTransactionsForUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.store.GetTransactionsByUserID(ctx, userID)
}

// UpdateTransactionStatus overwrites the status string
func (s *LedgerService) UpdateTransactionStatus(ctx context.Context, id int64, status string) (*models.Transaction, error) {
	ctx, span := util.StartSpan(ctx, "LedgerService.UpdateTransactionStatus")
	defer span.End()

	if status == "" {
		return nil, errs.InvalidArgument("status must not be empty")
	}

	txn, err := s.store.UpdateTransactionStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction status updated",
		zap.Int64("transaction_id", id),
		zap.String("status", status))
	return txn, nil
}

// DeleteTransaction removes a transaction
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	return s.store.DeleteTransaction(ctx, id)
}
