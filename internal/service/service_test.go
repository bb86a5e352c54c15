package service

import (
	"context"
	"testing"

	"marketplace-service/internal/errs"
	"marketplace-service/internal/store"

	"github.com/stretchr/testify/assert"
)

// Validation happens before any storage call, so the rejection paths run
// against a nil store.

func TestCreateListingRejectsBadPrice(t *testing.T) {
	svc := NewCatalogService(nil, nil)

	_, err := svc.CreateListing(context.Background(), &CreateListingRequest{
		UserID:      1,
		CategoryID:  1,
		Title:       "Free couch",
		ListingType: "selling",
		Price:       0,
		Region:      "Göteborg",
		Description: "Pickup only",
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestCreateListingRejectsUnknownType(t *testing.T) {
	svc := NewCatalogService(nil, nil)

	_, err := svc.CreateListing(context.Background(), &CreateListingRequest{
		UserID:      1,
		CategoryID:  1,
		Title:       "Free couch",
		ListingType: "renting",
		Price:       100,
		Region:      "Göteborg",
		Description: "Pickup only",
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestUpdateListingRejectsNegativePrice(t *testing.T) {
	svc := NewCatalogService(nil, nil)

	price := -5.0
	_, err := svc.UpdateListing(context.Background(), 1, &store.ListingPatch{Price: &price})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestCloseListingRejectsNonTerminalStatus(t *testing.T) {
	svc := NewCatalogService(nil, nil)

	// active is not a valid close target; neither is a typo
	for _, status := range []string{"active", "done", ""} {
		_, err := svc.CloseListing(context.Background(), 1, status)
		assert.True(t, errs.Is(err, errs.KindInvalidArgument), "status %q", status)
	}
}

func TestPlaceBidRejectsNonPositiveAmount(t *testing.T) {
	svc := NewCatalogService(nil, nil)

	for _, amount := range []float64{0, -10} {
		_, err := svc.PlaceBid(context.Background(), &PlaceBidRequest{
			UserID:    1,
			ListingID: 1,
			Amount:    amount,
		})
		assert.True(t, errs.Is(err, errs.KindInvalidArgument), "amount %v", amount)
	}
}

func TestCreateTransactionRejectsNonPositiveAmount(t *testing.T) {
	svc := NewLedgerService(nil, nil)

	_, err := svc.CreateTransaction(context.Background(), &CreateTransactionRequest{
		UserID:    1,
		ListingID: 1,
		Status:    "pending",
		Amount:    -1,
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestUpdateTransactionStatusRejectsEmpty(t *testing.T) {
	svc := NewLedgerService(nil, nil)

	_, err := svc.UpdateTransactionStatus(context.Background(), 1, "")
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestCreatePaymentRejectsBadInput(t *testing.T) {
	svc := NewPaymentService(nil, nil)

	_, err := svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		TransactionID: 1,
		ListingID:     1,
		Method:        "card",
		Amount:        0,
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))

	_, err = svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		TransactionID: 1,
		ListingID:     1,
		Method:        "card",
		Status:        "paid", // not a known status
		Amount:        100,
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestUpdatePaymentStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewPaymentService(nil, nil)

	_, err := svc.UpdatePaymentStatus(context.Background(), 1, "done")
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestCreateShipmentRejectsNegativeCost(t *testing.T) {
	svc := NewFulfillmentService(nil, nil)

	_, err := svc.CreateShipment(context.Background(), &CreateShipmentRequest{
		UserID:    1,
		ListingID: 1,
		Method:    "postnord",
		Cost:      -49,
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestUpdateTrackingRejectsEmptyPatch(t *testing.T) {
	svc := NewFulfillmentService(nil, nil)

	_, err := svc.UpdateTracking(context.Background(), 1, &store.ShipmentPatch{})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestCreateReviewRejectsSelfReview(t *testing.T) {
	svc := NewReputationService(nil, nil)

	_, err := svc.CreateReview(context.Background(), &CreateReviewRequest{
		ReviewerID:     7,
		ReviewedUserID: 7,
		Rating:         5,
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestCreateReviewRejectsRatingOutOfRange(t *testing.T) {
	svc := NewReputationService(nil, nil)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), &CreateReviewRequest{
			ReviewerID:     1,
			ReviewedUserID: 2,
			Rating:         rating,
		})
		assert.True(t, errs.Is(err, errs.KindInvalidArgument), "rating %d", rating)
	}
}

func TestSendMessageRejectsSelfMessage(t *testing.T) {
	svc := NewCommunityService(nil)

	_, err := svc.SendMessage(context.Background(), &SendMessageRequest{
		SenderID:    3,
		RecipientID: 3,
		ListingID:   1,
		Text:        "hello me",
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestAnswerCommentRejectsEmptyAnswer(t *testing.T) {
	svc := NewCommunityService(nil)

	_, err := svc.AnswerComment(context.Background(), 1, "")
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestCreateUserRejectsBadDate(t *testing.T) {
	svc := NewUserService(nil)

	_, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Username:    "anna",
		Email:       "anna@example.com",
		Password:    "correct horse battery",
		DateOfBirth: "01/02/1990",
	})
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestCreateCategoryRejectsEmptyName(t *testing.T) {
	svc := NewUserService(nil)

	_, err := svc.CreateCategory(context.Background(), "")
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}
