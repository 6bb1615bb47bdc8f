package notification

import (
	"context"
	"fmt"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/messaging"
)

// RedisPublisher publishes every notification on the shared channel and,
// when the notification names a user, on <channel>:<user id>.
type RedisPublisher struct {
	client  messaging.RedisClient
	channel string
}

func NewRedisPublisher(client messaging.RedisClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Notify(ctx context.Context, n entity.Notification) error {
	if n.UserID != "" {
		userChannel := fmt.Sprintf("%s:%s", p.channel, n.UserID)
		if err := p.client.Publish(ctx, userChannel, n); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", userChannel, err)
		}
	}

	if err := p.client.Publish(ctx, p.channel, n); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
