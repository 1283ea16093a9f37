package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований.
// Статус в ответах всегда производный: подтверждённое бронирование, время которого прошло, отдаётся как completed.
type Service struct {
	bookingRepo  BookingRepository
	waitlistRepo WaitlistRepository
	catalogRepo  CatalogRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	waitlistRepo WaitlistRepository,
	catalogRepo CatalogRepository,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		waitlistRepo: waitlistRepo,
		catalogRepo:  catalogRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование
// или если он является администратором услуги
func (s *Service) GetByID(ctx context.Context, req *models.GetBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", req.BookingID, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if booking.UserID != req.UserID && !req.IsAdmin {
		if err := s.checkServiceAdmin(ctx, booking.ServiceID, req.UserID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", req.UserID, req.BookingID)
			return nil, err
		}
	}

	return models.FromDomainBooking(booking, s.status(booking)), nil
}

// GetUserBookings получает историю бронирований пользователя (сначала новые)
// Опционально фильтрует по производному статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.RequesterID != req.UserID && !req.IsAdmin {
		s.logger.Warn("GetUserBookings: user=%d is not allowed to read bookings of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	var wanted *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		wanted = &status
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, req.UserID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	resp := s.toList(bookings, wanted)
	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(resp.Bookings), req.UserID)
	return resp, nil
}

// GetServiceBookings получает бронирования услуги с фильтрацией по направлению, периоду и статусу
// Доступно только администраторам услуги
func (s *Service) GetServiceBookings(ctx context.Context, req *models.GetServiceBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetServiceBookings: fetching bookings for service=%d, user=%d", req.ServiceID, req.UserID)
	if req.SubServiceID != nil {
		logMsg += fmt.Sprintf(", sub_service=%d", *req.SubServiceID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if !req.IsAdmin {
		if err := s.checkServiceAdmin(ctx, req.ServiceID, req.UserID); err != nil {
			return nil, err
		}
	}

	filter, wanted, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetServiceBookings: invalid filter for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.ListByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetServiceBookings: repository error for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: GetServiceBookings - repository error: %w", ErrInternal, err)
	}

	resp := s.toList(bookings, wanted)
	s.logger.Info("GetServiceBookings: successfully fetched %d bookings for service=%d", len(resp.Bookings), req.ServiceID)
	return resp, nil
}

// GetUserWaitlist получает записи пользователя в листах ожидания с позициями
func (s *Service) GetUserWaitlist(ctx context.Context, requesterID, userID int64, isAdmin bool) (*models.WaitlistListResponse, error) {
	s.logger.Info("GetUserWaitlist: fetching waitlist entries for user=%d", userID)

	if requesterID != userID && !isAdmin {
		s.logger.Warn("GetUserWaitlist: user=%d is not allowed to read waitlist of user=%d", requesterID, userID)
		return nil, ErrAccessDenied
	}

	entries, err := s.waitlistRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserWaitlist: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserWaitlist - repository error: %w", ErrInternal, err)
	}

	resp := &models.WaitlistListResponse{Entries: make([]models.WaitlistEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		position, err := s.waitlistRepo.Position(ctx, entry)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Запись удалена между чтениями
				continue
			}
			s.logger.Error("GetUserWaitlist: failed to get position for entry id=%d: %v", entry.ID, err)
			return nil, fmt.Errorf("%w: GetUserWaitlist - position: %w", ErrInternal, err)
		}
		resp.Entries = append(resp.Entries, models.FromDomainWaitlistEntry(entry, position))
	}

	return resp, nil
}

// Вспомогательные методы

// status производный статус бронирования на текущий момент
func (s *Service) status(b *domain.Booking) domain.BookingStatus {
	return b.EffectiveStatus(s.timeProvider.Now(), s.location)
}

// toList конвертирует бронирования, оставляя только нужный производный статус (если задан)
func (s *Service) toList(bookings []*domain.Booking, wanted *domain.BookingStatus) *models.BookingListResponse {
	resp := &models.BookingListResponse{Bookings: make([]models.BookingResponse, 0, len(bookings))}

	for _, b := range bookings {
		status := s.status(b)
		if wanted != nil && status != *wanted {
			continue
		}
		resp.Bookings = append(resp.Bookings, *models.FromDomainBooking(b, status))
	}

	return resp
}

// checkServiceAdmin проверяет, что пользователь является администратором услуги
func (s *Service) checkServiceAdmin(ctx context.Context, serviceID int64, userID int64) error {
	service, err := s.catalogRepo.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("checkServiceAdmin: service id=%d not found", serviceID)
			return ErrServiceNotFound
		}
		s.logger.Error("checkServiceAdmin: failed to get service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: checkServiceAdmin - failed to get service: %w", ErrInternal, err)
	}

	if !service.IsAdmin(userID) {
		s.logger.Warn("checkServiceAdmin: user=%d is not an admin of service=%d", userID, serviceID)
		return ErrAccessDenied
	}

	return nil
}
