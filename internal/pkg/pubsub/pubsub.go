package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPaymentEvents = "payment_events"
)

// 事件类型
const (
	EventTopUpPaid    = "topup_paid"
	EventTopUpExpired = "topup_expired"
	EventOrderCreated = "order_created"
)

// PaymentEvent 支付/订单事件，经 Redis 广播给所有 API 实例再推给 WebSocket
type PaymentEvent struct {
	Type      string  `json:"type"`
	UserID    int64   `json:"user_id"`
	PaymentID string  `json:"payment_id,omitempty"`
	OrderID   int64   `json:"order_id,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	Balance   float64 `json:"balance,omitempty"`
	Message   string  `json:"message,omitempty"`
}

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 发布事件
func (p *Publisher) Publish(ctx context.Context, event *PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, ChannelPaymentEvents, data).Err()
}

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅事件，handler 在独立 goroutine 中逐条执行
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*PaymentEvent)) error {
	sub := s.client.Subscribe(ctx, ChannelPaymentEvents)
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event PaymentEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				handler(&event)
			}
		}
	}()

	return nil
}
