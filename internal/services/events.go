package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trego/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routing keys for order events.
const (
	EventOrderPlaced    = "order.placed"
	EventOrderShipped   = "order.shipped"
	EventOrderCancelled = "order.cancelled"
)

// EventPublisher delivers a message to the broker under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, []byte) error { return nil }

// OrderEvent is the JSON body of an order event.
type OrderEvent struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	ProductID  string             `json:"product_id"`
	Quantity   int                `json:"quantity"`
	Amount     decimal.Decimal    `json:"amount"`
	Status     models.OrderStatus `json:"status"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func newOrderEvent(eventType string, o models.Order) OrderEvent {
	return OrderEvent{
		Type:       eventType,
		OrderID:    o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		Amount:     o.Total(),
		Status:     o.Status,
		OccurredAt: time.Now().UTC(),
	}
}

// publishOrderEvents is best effort: the orders are already committed, so a
// broker failure is logged and never surfaced to the caller.
func publishOrderEvents(publisher EventPublisher, log *zap.Logger, eventType string, orders ...models.Order) {
	for _, o := range orders {
		body, err := json.Marshal(newOrderEvent(eventType, o))
		if err != nil {
			log.Warn("failed to marshal order event", zap.String("order_id", o.ID), zap.Error(err))
			continue
		}
		if err := publisher.Publish(eventType, body); err != nil {
			log.Warn("failed to publish order event",
				zap.String("event", eventType),
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
		}
	}
}

// HandleOrderEvent decodes an order event received from the broker and records it.
func HandleOrderEvent(log *zap.Logger, body []byte) error {
	var event OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.Type == "" || event.OrderID == "" {
		return errors.New("order event is missing type or order_id")
	}
	log.Info("order event received",
		zap.String("event", event.Type),
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
		zap.String("status", string(event.Status)),
		zap.String("amount", event.Amount.StringFixed(2)),
	)
	return nil
}
