package queue_position

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// UseCase use case для расчёта позиции в очереди на приём.
// Позиция детерминирована: порядок подтверждённых записей слота по (created_at, id).
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	cfg          Config
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, catalogRepo CatalogRepository, cfg Config, logger Logger) *UseCase {
	if cfg.AvgServiceMinutes <= 0 {
		cfg.AvgServiceMinutes = domain.DefaultAvgServiceMinutes
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		timeProvider: &RealTimeProvider{},
		cfg:          cfg,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает позицию бронирования и оценку ожидания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("QueuePosition: booking=%d requested by user=%d", req.BookingID, req.UserID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("QueuePosition: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("QueuePosition: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}

	if err := uc.authorize(ctx, req, booking); err != nil {
		return nil, err
	}

	if booking.IsCancelled() {
		uc.logger.Warn("QueuePosition: booking id=%d is cancelled", booking.ID)
		return nil, ErrNotConfirmed
	}

	resp := &Response{
		BookingID: booking.ID,
		Date:      booking.Date,
		Time:      booking.Time,
		Status:    string(booking.EffectiveStatus(uc.timeProvider.Now(), uc.cfg.Location)),
		Position:  1,
		Total:     1,
	}

	// Экстренная запись обслуживается вне очереди
	if !booking.HasSlot() {
		return resp, nil
	}

	queue, err := uc.bookingRepo.ListConfirmedBySlot(ctx, booking.SlotKey())
	if err != nil {
		uc.logger.Error("QueuePosition: failed to list slot bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list slot bookings: %w", ErrInternal, err)
	}

	resp.Total = len(queue)
	for i, b := range queue {
		if b.ID == booking.ID {
			resp.Position = i + 1
			break
		}
	}
	resp.Ahead = resp.Position - 1
	resp.EstimatedWaitMinutes = resp.Ahead * uc.cfg.AvgServiceMinutes

	uc.logger.Info("QueuePosition: booking=%d position=%d/%d", booking.ID, resp.Position, resp.Total)
	return resp, nil
}

// authorize пропускает владельца, глобального администратора и администратора услуги
func (uc *UseCase) authorize(ctx context.Context, req *Request, booking *domain.Booking) error {
	if req.IsAdmin || req.UserID == booking.UserID {
		return nil
	}

	service, err := uc.catalogRepo.GetService(ctx, booking.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAccessDenied
		}
		uc.logger.Error("QueuePosition: failed to get service id=%d: %v", booking.ServiceID, err)
		return fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	if !service.IsAdmin(req.UserID) {
		uc.logger.Warn("QueuePosition: access denied for user=%d to booking=%d", req.UserID, booking.ID)
		return ErrAccessDenied
	}
	return nil
}
