package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/yourstruly-priyanshu/rentify/internal/domain"
)

// Publisher emits order lifecycle events for downstream consumers
// (notifications, owner dashboards). Publishing is best effort at the
// call site: a failed publish never undoes a created order.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	value, err := json.Marshal(OrderCreatedPayload(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.UserID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// OrderCreatedPayload is the wire shape of an order-created event.
func OrderCreatedPayload(order *domain.Order) map[string]interface{} {
	return map[string]interface{}{
		"event_type":     "order_created",
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"items":          order.Items,
		"total_amount":   order.TotalAmount,
		"payment_method": order.PaymentMethod,
		"status":         order.Status,
		"created_at":     order.CreatedAt,
	}
}
