package worker

import (
	"context"
	"fmt"
	"log"

	"marketplace-service/internal/broker"
	"marketplace-service/internal/models"
	"marketplace-service/internal/service"
)

// NotificationWorker turns marketplace facts into notification rows.
// Components never call the dispatcher directly; they publish events and
// this worker consumes them as discrete follow-up operations.
type NotificationWorker struct {
	consumer      *broker.Consumer
	eventHandler  *broker.EventHandler
	notifications *service.NotificationService
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(
	consumer *broker.Consumer,
	notifications *service.NotificationService,
) *NotificationWorker {
	w := &NotificationWorker{
		consumer:      consumer,
		notifications: notifications,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnBidPlaced(w.handleBidPlaced)
	eventHandler.OnTransactionCreated(w.handleTransactionCreated)
	eventHandler.OnPaymentStatusChanged(w.handlePaymentStatusChanged)
	eventHandler.OnShipmentUpdated(w.handleShipmentUpdated)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleBidPlaced(ctx context.Context, event *models.BidPlacedEvent) error {
	msg := fmt.Sprintf("New bid of %.2f on your listing", event.Amount)
	_, err := w.notifications.CreateNotification(ctx,
		event.OwnerID, event.ListingID, models.NotificationTypeNewBid, msg)
	return err
}

func (w *NotificationWorker) handleTransactionCreated(ctx context.Context, event *models.TransactionCreatedEvent) error {
	msg := fmt.Sprintf("Sale recorded for %.2f", event.Amount)
	_, err := w.notifications.CreateNotification(ctx,
		event.BuyerID, event.ListingID, models.NotificationTypeTransaction, msg)
	return err
}

func (w *NotificationWorker) handlePaymentStatusChanged(ctx context.Context, event *models.PaymentStatusChangedEvent) error {
	msg := fmt.Sprintf("Payment for transaction %d is now %s", event.TransactionID, event.Status)
	_, err := w.notifications.CreateNotification(ctx,
		event.BuyerID, event.ListingID, models.NotificationTypePaymentUpdate, msg)
	return err
}

func (w *NotificationWorker) handleShipmentUpdated(ctx context.Context, event *models.ShipmentUpdatedEvent) error {
	msg := fmt.Sprintf("Shipment update: %s", event.Status)
	if event.TrackingNumber != "" {
		msg = fmt.Sprintf("Shipment update: %s (tracking %s)", event.Status, event.TrackingNumber)
	}
	_, err := w.notifications.CreateNotification(ctx,
		event.UserID, event.ListingID, models.NotificationTypeShipmentUpdate, msg)
	return err
}
