package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/RoyceAzure/lab/storefront/internal/domain/event"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer/balancer"
)

const defaultNumPartitions = 8

type IOrderEventProducer interface {
	ProduceOrderCreatedEvent(ctx context.Context, order *model.Order) error
	Close() error
}

// OrderEventProducer publishes order lifecycle events keyed by user id.
type OrderEventProducer struct {
	writer *kafka.Writer
}

func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	return &OrderEventProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     balancer.NewUserBalancer(defaultNumPartitions),
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *OrderEventProducer) ProduceOrderCreatedEvent(ctx context.Context, order *model.Order) error {
	evt := &event.OrderCreatedEvent{
		BaseEvent: event.BaseEvent{
			EventID:     uuid.NewString(),
			AggregateID: order.OrderID,
			CreatedAt:   time.Now().UTC(),
			EventType:   event.OrderCreatedEventName,
		},
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		OrderDate: order.OrderDate,
		Items:     order.OrderItems,
		Amount:    order.Amount,
		State:     order.State,
	}

	msg, err := convertToMessage(order.UserID, evt)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}

func convertToMessage(userID uint, evt event.Event) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", userID)),
		Value: value,
		Headers: []kafka.Header{
			{
				Key:   "event_type",
				Value: []byte(evt.Type()),
			},
		},
	}, nil
}

var _ IOrderEventProducer = (*OrderEventProducer)(nil)
