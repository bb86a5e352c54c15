package store

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/models"
)

// paymentTransitions lists the legal target statuses per current status.
// Terminal statuses have no entry.
var paymentTransitions = map[string][]string{
	models.PaymentStatusPending: {
		models.PaymentStatusCompleted,
		models.PaymentStatusFailed,
		models.PaymentStatusCancelled,
	},
	models.PaymentStatusCompleted: {
		models.PaymentStatusRefunded,
	},
}

// CreatePayment inserts the payment for a transaction. The unique index on
// transaction_id enforces one payment per transaction; a duplicate surfaces
// as Conflict and leaves the original row untouched.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Unexpected(err, "create payment: begin")
	}
	defer tx.Rollback()

	var txnExists bool
	if err := tx.GetContext(ctx, &txnExists,
		"SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)", payment.TransactionID); err != nil {
		return errs.Unexpected(err, "create payment: check transaction")
	}
	if !txnExists {
		return errs.InvalidReference("transaction %d does not exist", payment.TransactionID)
	}

	ok, err := listingExistsTx(ctx, tx, payment.ListingID)
	if err != nil {
		return errs.Unexpected(err, "create payment: check listing")
	}
	if !ok {
		return errs.InvalidReference("listing %d does not exist", payment.ListingID)
	}

	query := `
		INSERT INTO payments (transaction_id, listing_id, payment_method, payment_status, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, paid_at`

	if err := tx.GetContext(ctx, payment, query,
		payment.TransactionID, payment.ListingID, payment.Method,
		payment.Status, payment.Amount); err != nil {
		return errs.FromUnique(err, "transaction %d already has a payment", payment.TransactionID)
	}

	if err := tx.Commit(); err != nil {
		return errs.Unexpected(err, "create payment: commit")
	}
	return nil
}

// GetPaymentByTransactionID retrieves the payment for a transaction
func (s *Store) GetPaymentByTransactionID(ctx context.Context, transactionID int64) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.GetContext(ctx, &payment,
		"SELECT * FROM payments WHERE transaction_id = $1", transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("no payment for transaction %d", transactionID)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "get payment for transaction %d", transactionID)
	}
	return &payment, nil
}

// GetAllPayments retrieves every payment, most recent first
func (s *Store) GetAllPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.SelectContext(ctx, &payments, "SELECT * FROM payments ORDER BY paid_at DESC")
	if err != nil {
		return nil, errs.Unexpected(err, "list payments")
	}
	return payments, nil
}

// UpdatePaymentStatus overwrites the payment status after validating the
// transition against the status machine. The row is locked for the check
// so concurrent updates cannot both pass.
func (s *Store) UpdatePaymentStatus(ctx context.Context, id int64, status string) (*models.Payment, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errs.Unexpected(err, "update payment: begin")
	}
	defer tx.Rollback()

	var current string
	err = tx.GetContext(ctx, &current,
		"SELECT payment_status FROM payments WHERE id = $1 FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("payment %d does not exist", id)
	}
	if err != nil {
		return nil, errs.Unexpected(err, "update payment: lock row")
	}

	if !transitionAllowed(current, status) {
		return nil, errs.InvalidState("payment %d cannot move from %s to %s", id, current, status)
	}

	var payment models.Payment
	if err := tx.GetContext(ctx, &payment,
		"UPDATE payments SET payment_status = $1 WHERE id = $2 RETURNING *", status, id); err != nil {
		return nil, errs.Unexpected(err, "update payment %d", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Unexpected(err, "update payment: commit")
	}
	return &payment, nil
}

func transitionAllowed(from, to string) bool {
	for _, t := range paymentTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// DeletePayment removes a payment, reporting absence explicitly
func (s *Store) DeletePayment(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.GetContext(ctx, &deleted, "DELETE FROM payments WHERE id = $1 RETURNING id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("payment %d does not exist", id)
	}
	if err != nil {
		return errs.Unexpected(err, "delete payment %d", id)
	}
	return nil
}
