package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"marketplace-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishBidPlaced publishes BidPlaced event
func (ep *EventPublisher) PublishBidPlaced(ctx context.Context, event *models.BidPlacedEvent) error {
	key := fmt.Sprintf("listing-%d", event.ListingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishTransactionCreated publishes TransactionCreated event
func (ep *EventPublisher) PublishTransactionCreated(ctx context.Context, event *models.TransactionCreatedEvent) error {
	key := fmt.Sprintf("listing-%d", event.ListingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentStatusChanged publishes PaymentStatusChanged event
func (ep *EventPublisher) PublishPaymentStatusChanged(ctx context.Context, event *models.PaymentStatusChangedEvent) error {
	key := fmt.Sprintf("listing-%d", event.ListingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishShipmentUpdated publishes ShipmentUpdated event
func (ep *EventPublisher) PublishShipmentUpdated(ctx context.Context, event *models.ShipmentUpdatedEvent) error {
	key := fmt.Sprintf("listing-%d", event.ListingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onBidPlaced            func(context.Context, *models.BidPlacedEvent) error
	onTransactionCreated   func(context.Context, *models.TransactionCreatedEvent) error
	onPaymentStatusChanged func(context.Context, *models.PaymentStatusChangedEvent) error
	onShipmentUpdated      func(context.Context, *models.ShipmentUpdatedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnBidPlaced registers a handler for BidPlaced events
func (eh *EventHandler) OnBidPlaced(handler func(context.Context, *models.BidPlacedEvent) error) {
	eh.onBidPlaced = handler
}

// OnTransactionCreated registers a handler for TransactionCreated events
func (eh *EventHandler) OnTransactionCreated(handler func(context.Context, *models.TransactionCreatedEvent) error) {
	eh.onTransactionCreated = handler
}

// OnPaymentStatusChanged registers a handler for PaymentStatusChanged events
func (eh *EventHandler) OnPaymentStatusChanged(handler func(context.Context, *models.PaymentStatusChangedEvent) error) {
	eh.onPaymentStatusChanged = handler
}

// OnShipmentUpdated registers a handler for ShipmentUpdated events
func (eh *EventHandler) OnShipmentUpdated(handler func(context.Context, *models.ShipmentUpdatedEvent) error) {
	eh.onShipmentUpdated = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeBidPlaced:
		if eh.onBidPlaced != nil {
			var event models.BidPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal BidPlaced event: %w", err)
			}
			return eh.onBidPlaced(ctx, &event)
		}

	case models.EventTypeTransactionCreated:
		if eh.onTransactionCreated != nil {
			var event models.TransactionCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal TransactionCreated event: %w", err)
			}
			return eh.onTransactionCreated(ctx, &event)
		}

	case models.EventTypePaymentStatusChanged:
		if eh.onPaymentStatusChanged != nil {
			var event models.PaymentStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PaymentStatusChanged event: %w", err)
			}
			return eh.onPaymentStatusChanged(ctx, &event)
		}

	case models.EventTypeShipmentUpdated:
		if eh.onShipmentUpdated != nil {
			var event models.ShipmentUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ShipmentUpdated event: %w", err)
			}
			return eh.onShipmentUpdated(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
