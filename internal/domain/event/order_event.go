package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type EventType string

const (
	OrderCreatedEventName EventType = "OrderCreated"
)

type Event interface {
	Type() EventType
	GetID() string
}

type BaseEvent struct {
	EventID     string    `json:"eventId"`
	AggregateID string    `json:"aggregateId"`
	CreatedAt   time.Time `json:"createdAt"`
	EventType   EventType `json:"eventType"`
}

func (e *BaseEvent) GetID() string {
	return e.EventID
}

// OrderCreatedEvent is published after the checkout transaction commits.
type OrderCreatedEvent struct {
	BaseEvent
	OrderID   string            `json:"order_id"`
	UserID    uint              `json:"user_id"`
	OrderDate time.Time         `json:"order_date"`
	Items     []model.OrderItem `json:"items"`
	Amount    decimal.Decimal   `json:"amount"`
	State     uint              `json:"state"`
}

func (e *OrderCreatedEvent) Type() EventType {
	return OrderCreatedEventName
}
