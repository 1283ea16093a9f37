package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/EffiQ-BookingService/internal/config"
	accountRepo "github.com/m04kA/EffiQ-BookingService/internal/infra/storage/account"
	bookingRepo "github.com/m04kA/EffiQ-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/EffiQ-BookingService/internal/infra/storage/catalog"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	notificationRepo "github.com/m04kA/EffiQ-BookingService/internal/infra/storage/notification"
	slotRepo "github.com/m04kA/EffiQ-BookingService/internal/infra/storage/slot"
	waitlistRepo "github.com/m04kA/EffiQ-BookingService/internal/infra/storage/waitlist"
	"github.com/m04kA/EffiQ-BookingService/internal/integrations/notifier"
	accountsService "github.com/m04kA/EffiQ-BookingService/internal/service/accounts"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
	bookingsService "github.com/m04kA/EffiQ-BookingService/internal/service/bookings"
	catalogService "github.com/m04kA/EffiQ-BookingService/internal/service/catalog"
	notificationsService "github.com/m04kA/EffiQ-BookingService/internal/service/notifications"
	slotsService "github.com/m04kA/EffiQ-BookingService/internal/service/slots"
	emergencyBookingUC "github.com/m04kA/EffiQ-BookingService/internal/usecase/emergency_booking"
	getAvailableSlotsUC "github.com/m04kA/EffiQ-BookingService/internal/usecase/get_available_slots"
	queuePositionUC "github.com/m04kA/EffiQ-BookingService/internal/usecase/queue_position"
	"github.com/m04kA/EffiQ-BookingService/pkg/dbmetrics"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
	"github.com/m04kA/EffiQ-BookingService/pkg/metrics"
	"github.com/m04kA/EffiQ-BookingService/pkg/txmanager"
)

// SlotStore объединение интерфейсов всех потребителей хранилища слотов
type SlotStore interface {
	allocation.SlotStore
	slotsService.SlotRepository
	getAvailableSlotsUC.SlotRepository
}

// BookingStore объединение интерфейсов всех потребителей журнала бронирований
type BookingStore interface {
	allocation.BookingLedger
	bookingsService.BookingRepository
	emergencyBookingUC.BookingRepository
	queuePositionUC.BookingRepository
}

// WaitlistStore объединение интерфейсов всех потребителей листа ожидания
type WaitlistStore interface {
	allocation.WaitlistQueue
	bookingsService.WaitlistRepository
}

// AccountStore объединение интерфейсов всех потребителей балансов
type AccountStore interface {
	allocation.AccountStore
	accountsService.AccountRepository
	emergencyBookingUC.AccountRepository
}

// CatalogStore каталог услуг (полный набор операций)
type CatalogStore interface {
	catalogService.CatalogRepository
}

// NotificationStore объединение интерфейсов всех потребителей уведомлений
type NotificationStore interface {
	notificationsService.NotificationRepository
	notifier.NotificationRepository
}

// Storage набор репозиториев выбранного драйвера
type Storage struct {
	Slots         SlotStore
	Bookings      BookingStore
	Waitlist      WaitlistStore
	Accounts      AccountStore
	Catalog       CatalogStore
	Notifications NotificationStore
	TxManager     allocation.TransactionManager

	close func() error
}

// OpenStorage открывает хранилище согласно storage.driver.
// Для postgres метрики запросов пишутся, если m != nil; сбор статистики пула идёт до закрытия stopCh.
func OpenStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*Storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("Using in-memory storage: data is lost on restart")
		return memoryStorage(memory.NewStore()), nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrapped *dbmetrics.DB
	if m != nil {
		wrapped = dbmetrics.WrapWithDefault(db, m, stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil)
	}

	return &Storage{
		Slots:         slotRepo.NewRepository(wrapped),
		Bookings:      bookingRepo.NewRepository(wrapped),
		Waitlist:      waitlistRepo.NewRepository(wrapped),
		Accounts:      accountRepo.NewRepository(wrapped),
		Catalog:       catalogRepo.NewRepository(wrapped),
		Notifications: notificationRepo.NewRepository(wrapped),
		TxManager:     txmanager.NewTransactionManager(wrapped),
		close:         db.Close,
	}, nil
}

func memoryStorage(store *memory.Store) *Storage {
	return &Storage{
		Slots:         store.Slots(),
		Bookings:      store.Bookings(),
		Waitlist:      store.Waitlist(),
		Accounts:      store.Accounts(),
		Catalog:       store.Catalog(),
		Notifications: store.Notifications(),
		TxManager:     store.TxManager(),
		close:         func() error { return nil },
	}
}

// Close освобождает соединения хранилища
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
