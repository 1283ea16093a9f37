package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	addSlotHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/add_slot"
	bookSlotHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/book_slot"
	cancelBookingHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/cancel_booking"
	cancelWaitlistEntryHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/cancel_waitlist_entry"
	createServiceHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/create_service"
	createSubServiceHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/create_sub_service"
	deleteSlotHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/delete_slot"
	emergencyBookingHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/emergency_booking"
	getAccountHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_account"
	getAvailableDatesHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_available_dates"
	getAvailableSlotsHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_booking"
	getQueuePositionHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_queue_position"
	getServiceBookingsHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_service_bookings"
	getUserBookingsHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_user_bookings"
	getUserWaitlistHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_user_waitlist"
	getWaitlistEntryHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_waitlist_entry"
	listNotificationsHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/list_notifications"
	listServicesHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/list_services"
	markNotificationReadHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/mark_notification_read"
	notificationStreamHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/notification_stream"
	rescheduleBookingHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/reschedule_booking"
	setSlotCapacityHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/set_slot_capacity"
	topUpBalanceHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/top_up_balance"
	updateServiceHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/update_service"
	updateTokenFeeHandler "github.com/m04kA/EffiQ-BookingService/internal/api/handlers/update_token_fee"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/app"
	"github.com/m04kA/EffiQ-BookingService/internal/config"
	"github.com/m04kA/EffiQ-BookingService/internal/integrations/notifier"
	accountsService "github.com/m04kA/EffiQ-BookingService/internal/service/accounts"
	bookingsService "github.com/m04kA/EffiQ-BookingService/internal/service/bookings"
	catalogService "github.com/m04kA/EffiQ-BookingService/internal/service/catalog"
	notificationsService "github.com/m04kA/EffiQ-BookingService/internal/service/notifications"
	slotsService "github.com/m04kA/EffiQ-BookingService/internal/service/slots"
	emergencyBookingUC "github.com/m04kA/EffiQ-BookingService/internal/usecase/emergency_booking"
	getAvailableSlotsUC "github.com/m04kA/EffiQ-BookingService/internal/usecase/get_available_slots"
	queuePositionUC "github.com/m04kA/EffiQ-BookingService/internal/usecase/queue_position"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
	"github.com/m04kA/EffiQ-BookingService/pkg/metrics"
)

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

	log.Info("Starting EffiQ-BookingService API...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	// ============================================================
	// STORAGE & INTEGRATIONS
	// ============================================================

	storage, err := app.OpenStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer storage.Close()

	rdb, err := app.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		log.Info("Connected to redis at %s", cfg.Redis.Addr)
	}

	notify, closeNotifier := app.NewNotifier(cfg, storage, rdb, log)
	defer closeNotifier()

	// ============================================================
	// SERVICES & USE CASES
	// ============================================================

	engine := app.NewEngine(cfg, storage, notify, metricsCollector, log)

	bookingSvc := bookingsService.NewService(storage.Bookings, storage.Waitlist, storage.Catalog, location, log)
	catalogSvc := catalogService.NewService(storage.Catalog, log)
	slotSvc := slotsService.NewService(storage.Slots, storage.Catalog, engine, log)
	accountSvc := accountsService.NewService(storage.Accounts, log)
	notificationSvc := notificationsService.NewService(storage.Notifications, log)

	availableSlotsUseCase := getAvailableSlotsUC.NewUseCase(storage.Slots, storage.Catalog, log)
	emergencyUseCase := emergencyBookingUC.NewUseCase(
		storage.Bookings,
		storage.Accounts,
		storage.Catalog,
		storage.TxManager,
		emergencyBookingUC.Config{
			FeeSelf:  cfg.Booking.EmergencyFeeSelf,
			FeeOther: cfg.Booking.EmergencyFeeOther,
			Location: location,
		},
		log,
	)
	queuePositionUseCase := queuePositionUC.NewUseCase(
		storage.Bookings,
		storage.Catalog,
		queuePositionUC.Config{
			AvgServiceMinutes: cfg.Booking.AvgServiceMinutes,
			Location:          location,
		},
		log,
	)

	// ============================================================
	// HANDLERS
	// ============================================================

	bookSlot := bookSlotHandler.NewHandler(engine, log)
	cancelBooking := cancelBookingHandler.NewHandler(engine, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(engine, log)
	getWaitlistEntry := getWaitlistEntryHandler.NewHandler(engine, log)
	cancelWaitlistEntry := cancelWaitlistEntryHandler.NewHandler(engine, log)

	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getUserWaitlist := getUserWaitlistHandler.NewHandler(bookingSvc, log)
	getServiceBookings := getServiceBookingsHandler.NewHandler(bookingSvc, log)

	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	createSubService := createSubServiceHandler.NewHandler(catalogSvc, log)
	updateTokenFee := updateTokenFeeHandler.NewHandler(catalogSvc, log)

	addSlot := addSlotHandler.NewHandler(slotSvc, log)
	setSlotCapacity := setSlotCapacityHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)

	getAvailableSlots := getAvailableSlotsHandler.NewHandler(availableSlotsUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(availableSlotsUseCase, log)
	emergencyBooking := emergencyBookingHandler.NewHandler(emergencyUseCase, log)
	getQueuePosition := getQueuePositionHandler.NewHandler(queuePositionUseCase, log)

	getAccount := getAccountHandler.NewHandler(accountSvc, log)
	topUpBalance := topUpBalanceHandler.NewHandler(accountSvc, log)

	listNotifications := listNotificationsHandler.NewHandler(notificationSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		api.Use(limiter.Limit)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// Слоты направления на дату и даты со слотами
	api.HandleFunc("/sub-services/{subServiceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sub-services/{subServiceId}/dates", getAvailableDates.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", bookSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/queue-position", getQueuePosition.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/emergency-bookings", emergencyBooking.Handle).Methods(http.MethodPost)

	// --- Лист ожидания ---
	protected.HandleFunc("/waitlist/{entryId}", getWaitlistEntry.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/waitlist/{entryId}", cancelWaitlistEntry.Handle).Methods(http.MethodDelete)

	// --- Пользователь ---
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/waitlist", getUserWaitlist.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/account", getAccount.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/notifications", listNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", markNotificationRead.Handle).Methods(http.MethodPatch)

	// Поток уведомлений в реальном времени (только с redis)
	if rdb != nil {
		stream := notificationStreamHandler.NewHandler(
			notifier.NewRedisPublisher(rdb),
			originChecker(cfg.CORS.AllowedOrigins),
			log,
		)
		protected.HandleFunc("/users/{userId}/notifications/stream", stream.Handle).Methods(http.MethodGet)
		log.Info("Notification stream enabled")
	}

	// --- Администрирование услуг ---
	protected.HandleFunc("/admin/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/admin/services/{serviceId}", updateService.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/services/{serviceId}/sub-services", createSubService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/admin/services/{serviceId}/bookings", getServiceBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/sub-services/{subServiceId}/token-fee", updateTokenFee.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/admin/sub-services/{subServiceId}/slots", addSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/admin/sub-services/{subServiceId}/slots", setSlotCapacity.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/sub-services/{subServiceId}/slots", deleteSlot.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/admin/users/{userId}/balance", topUpBalance.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// originChecker проверка Origin для websocket по тому же списку, что и CORS
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
