package store

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// CreateTransaction records a sale. The referenced listing must exist and,
// when a bid is supplied, the bid must belong to that listing.
func (s *Store) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create transaction: begin")
	}
	defer tx.Rollback()

	ok, err := listingExistsTx(ctx, tx, txn.ListingID)
	if err != nil {
		return errs.Unexpected(err, "create transaction: check listing")
	}
	if !ok {
		return errs.InvalidReference("listing %d does not exist", txn.ListingID)
	}

	if txn.BidID != nil {
		var bidListingID int64
		err := tx.GetContext(ctx, &bidListingID,
			"SELECT listing_id FROM bids WHERE id = $1", *txn.BidID)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.InvalidReference("bid %d does not exist", *txn.BidID)
		}
		if err != nil {
			return errs.Unexpected(err, "create transaction: check bid")
		}
		if bidListingID != txn.ListingID {
			return errs.InvalidReference("bid %d belongs to listing %d, not %d",
				*txn.BidID, bidListingID, txn.ListingID)
		}
	}

	query := `
		INSERT INTO transactions (user_id, bid_id, listing_id, status, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	if err := tx.GetContext(ctx, txn, query,
		txn.UserID, txn.BidID, txn.ListingID, txn.Status, txn.Amount); err != nil {
		return errs.FromForeignKey(err, "user %d does not exist", txn.UserID)
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create transaction: commit")
	}
	return nil
}

// GetTransactionByID retrieves a transaction
func (s *Store) GetTransactionByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.GetContext(ctx, &txn, "SELECT * FROM transactions WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("transaction %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get transaction %d", id)
	}
	return &txn, nil
}

// GetAllTransactions retrieves every transaction, most recent first
func (s *Store) GetAllTransactions(ctx context.Context) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.SelectContext(ctx, &txns, "SELECT * FROM transactions ORDER BY created_at DESC")
	if err != nil {
		return nil, errs.Unexpected(err, "list transactions")
	}
	return txns, nil
}

// GetTransactionsByUserID retrieves a user's transactions
func (s *Store) GetTransactionsByUserID(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.SelectContext(ctx, &txns,
		"SELECT * FROM transactions WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, errs.Unexpected(err, "list transactions for user %d", userID)
	}
	return txns, nil
}

// UpdateTransactionStatus overwrites the transaction status. The status
// column is free-form; callers decide the vocabulary.
func (s *Store) UpdateTransactionStatus(ctx context.Context, id int64, status string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.GetContext(ctx, &txn,
		"UPDATE transactions SET status = $1 WHERE id = $2 RETURNING *", status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("transaction %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "update transaction %d", id)
	}
	return &txn, nil
}

// DeleteTransaction removes a transaction, reporting absence explicitly
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM transactions WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("transaction %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete transaction %d", id)
	}
	return nil
}
