package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// channelPrefix префикс канала уведомлений пользователя
const channelPrefix = "effiq:notifications:"

// Channel канал redis для пользователя
func Channel(userID int64) string {
	return fmt.Sprintf("%s%d", channelPrefix, userID)
}

// RedisPublisher публикует события через redis pub/sub
type RedisPublisher struct {
	client redis.UniversalClient
}

// NewRedisPublisher создает publisher поверх клиента redis
func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish отправляет событие в канал получателя
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrInternal, err)
	}

	if err := p.client.Publish(ctx, Channel(event.UserID), data).Err(); err != nil {
		return fmt.Errorf("%w: publish: %w", ErrInternal, err)
	}
	return nil
}

// Subscribe подписывается на события пользователя.
// Канал закрывается после отмены ctx или вызова close.
func (p *RedisPublisher) Subscribe(ctx context.Context, userID int64) (<-chan []byte, func() error, error) {
	sub := p.client.Subscribe(ctx, Channel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("%w: subscribe: %w", ErrInternal, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, sub.Close, nil
}
