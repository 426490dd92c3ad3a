package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// alertChannel is the Pub/Sub channel notification consumers subscribe to.
const alertChannel = "mindbridge:alerts"

// AlertPublisher delivers high/critical risk alerts over Redis Pub/Sub.
type AlertPublisher struct {
	rdb *goredis.Client
}

var _ domain.AlertPublisher = (*AlertPublisher)(nil)

func NewAlertPublisher(rdb *goredis.Client) *AlertPublisher {
	return &AlertPublisher{rdb: rdb}
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert domain.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	if err := p.rdb.Publish(ctx, alertChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

// Subscription is an active alert subscription.
type Subscription struct {
	sub    *goredis.PubSub
	Ch     <-chan domain.Alert
	cancel context.CancelFunc
}

// Close unsubscribes and closes the subscription.
func (s *Subscription) Close() {
	s.cancel()
	_ = s.sub.Close()
}

// SubscribeAlerts subscribes to the alert channel. Slow receivers drop
// messages rather than blocking the reader. Call subscription.Close() when done.
func (p *AlertPublisher) SubscribeAlerts(ctx context.Context) *Subscription {
	sub := p.rdb.Subscribe(ctx, alertChannel)

	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan domain.Alert, 16)

	go func() {
		defer close(ch)
		msgCh := sub.Channel()
		for {
			select {
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				var alert domain.Alert
				if err := json.Unmarshal([]byte(msg.Payload), &alert); err != nil {
					continue
				}
				select {
				case ch <- alert:
				default:
				}
			case <-subCtx.Done():
				return
			}
		}
	}()

	return &Subscription{sub: sub, Ch: ch, cancel: cancel}
}
