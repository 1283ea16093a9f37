package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/m04kA/EffiQ-BookingService/internal/app"
	"github.com/m04kA/EffiQ-BookingService/internal/config"
	"github.com/m04kA/EffiQ-BookingService/internal/integrations/notifier"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

// sweepQueue очередь периодических задач
const sweepQueue = "default"

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if !cfg.Redis.Enabled {
		log.Fatal("Worker requires redis.enabled = true")
	}
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("Worker uses in-memory storage: it does not share data with the API process")
	}

	log.Info("Starting EffiQ-BookingService worker...")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	// У воркера нет HTTP, метрики prometheus не собираются
	storage, err := app.OpenStorage(cfg, nil, nil, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer storage.Close()

	rdb, err := app.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	// Воркер доставляет уведомления сам, поэтому движок работает с inbox напрямую
	inbox := app.NewInbox(storage, rdb, log)
	engine := app.NewEngine(cfg, storage, inbox, nil, log)

	redisOpt := app.QueueRedisOpt(cfg.Redis)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Queues: map[string]int{
			cfg.Notifications.Queue: 6,
			sweepQueue:              1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(notifier.TypeDeliverNotification, notifier.NewDeliveryHandler(inbox, log))
	mux.HandleFunc(notifier.TypeWaitlistSweep, notifier.NewSweepHandler(engine, log))

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: location})
	entryID, err := scheduler.Register(
		cfg.Worker.SweepCron,
		asynq.NewTask(notifier.TypeWaitlistSweep, nil),
		asynq.Queue(sweepQueue),
		asynq.MaxRetry(0),
	)
	if err != nil {
		log.Fatal("Failed to register waitlist sweep %q: %v", cfg.Worker.SweepCron, err)
	}
	log.Info("Waitlist sweep scheduled (%s), entry=%s", cfg.Worker.SweepCron, entryID)

	if err := srv.Start(mux); err != nil {
		log.Fatal("Failed to start worker: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler: %v", err)
	}
	log.Info("Worker started (concurrency=%d, queue=%s)", cfg.Worker.Concurrency, cfg.Notifications.Queue)

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info("Worker stopped gracefully")
}
