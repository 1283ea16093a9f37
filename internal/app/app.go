package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/EffiQ-BookingService/internal/config"
	"github.com/m04kA/EffiQ-BookingService/internal/integrations/notifier"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
	"github.com/m04kA/EffiQ-BookingService/pkg/metrics"
)

// NewRedis подключается к redis для pub/sub уведомлений. Возвращает nil, если redis выключен.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// QueueRedisOpt параметры подключения asynq (отдельная база redis)
func QueueRedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.QueueDB,
	}
}

// NewInbox диспетчер, сохраняющий уведомления во входящие.
// Если передан redis, уведомление дополнительно публикуется в канал пользователя.
func NewInbox(storage *Storage, rdb *redis.Client, log *logger.Logger) *notifier.InboxDispatcher {
	var publisher notifier.Publisher
	if rdb != nil {
		publisher = notifier.NewRedisPublisher(rdb)
	}
	return notifier.NewInboxDispatcher(storage.Notifications, publisher, log)
}

// NewNotifier выбирает способ доставки согласно notifications.delivery.
// Возвращаемая функция закрывает клиента очереди.
func NewNotifier(cfg *config.Config, storage *Storage, rdb *redis.Client, log *logger.Logger) (allocation.Notifier, func() error) {
	if cfg.Notifications.Delivery != config.DeliveryQueue {
		log.Info("Notifications are delivered to inbox synchronously")
		return NewInbox(storage, rdb, log), func() error { return nil }
	}

	client := asynq.NewClient(QueueRedisOpt(cfg.Redis))
	dispatcher := notifier.NewQueueDispatcher(client, notifier.QueueConfig{
		Queue:    cfg.Notifications.Queue,
		MaxRetry: cfg.Notifications.MaxRetry,
		Timeout:  time.Duration(cfg.Notifications.Timeout) * time.Second,
	}, log)
	log.Info("Notifications are delivered via queue %q", cfg.Notifications.Queue)
	return dispatcher, client.Close
}

// NewEngine собирает движок распределения
func NewEngine(cfg *config.Config, storage *Storage, n allocation.Notifier, m *metrics.Metrics, log *logger.Logger) *allocation.Engine {
	engineCfg := allocation.DefaultConfig()
	engineCfg.PromoteBatch = cfg.Booking.PromoteBatch
	engineCfg.ConflictRetries = cfg.Booking.ConflictRetries
	engineCfg.RetryBaseDelay = cfg.Booking.RetryBaseDelay()
	engineCfg.StorageTimeout = cfg.Booking.StorageTimeout()

	return allocation.NewEngine(
		storage.Slots,
		storage.Bookings,
		storage.Waitlist,
		storage.Accounts,
		storage.Catalog,
		n,
		storage.TxManager,
		m,
		engineCfg,
		log,
	)
}
