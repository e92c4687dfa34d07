package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventOrderPlaced     EventType = "order.placed"
	EventOrderUpdated    EventType = "order.updated"
	EventOrderCancelled  EventType = "order.cancelled"
	EventDeliveryCreated EventType = "delivery.created"
)

// Event describes a committed change to an order or delivery.
type Event struct {
	Type       EventType `json:"type"`
	OrderID    uint      `json:"order_id"`
	EmployeeID uint      `json:"employee_id,omitempty"`
	DeliveryID uint      `json:"delivery_id,omitempty"`
	Price      float64   `json:"price"`
	DelFlag    bool      `json:"del_flag"`
	Completed  bool      `json:"completed"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// publish is called after commit, so a failed publish is logged and the
// caller's request still succeeds.
func publish(ctx context.Context, publisher EventPublisher, event Event) {
	if publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := publisher.Publish(ctx, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event":    event.Type,
			"order_id": event.OrderID,
		}).Warn("Failed to publish event")
	}
}
