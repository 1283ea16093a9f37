package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/slots/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// Service управление временными слотами направлений (для администраторов услуги)
type Service struct {
	slotRepo    SlotRepository
	catalogRepo CatalogRepository
	promoter    Promoter
	logger      Logger
}

// NewService создает новый экземпляр сервиса слотов.
// promoter может быть nil: тогда увеличение вместимости не уведомляет лист ожидания сразу.
func NewService(slotRepo SlotRepository, catalogRepo CatalogRepository, promoter Promoter, logger Logger) *Service {
	return &Service{
		slotRepo:    slotRepo,
		catalogRepo: catalogRepo,
		promoter:    promoter,
		logger:      logger,
	}
}

// AddSlot создает слот с указанной вместимостью (по умолчанию 3)
func (s *Service) AddSlot(ctx context.Context, req *models.AddSlotRequest) (*models.SlotResponse, error) {
	capacity := domain.DefaultSlotCapacity
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	s.logger.Info("AddSlot: sub_service=%d, date=%s, time=%q, capacity=%d by user=%d",
		req.SubServiceID, req.Date.Format(domain.DateFormat), req.Time, capacity, req.UserID)

	if err := validateCapacity(capacity); err != nil {
		s.logger.Warn("AddSlot: invalid capacity %d", capacity)
		return nil, err
	}

	key, err := s.authorize(ctx, &req.SlotRequest)
	if err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.Add(ctx, key, capacity)
	if err != nil {
		if errors.Is(err, domain.ErrSlotExists) {
			s.logger.Warn("AddSlot: slot %s %s already exists", key.Date.Format(domain.DateFormat), key.Time)
			return nil, ErrSlotExists
		}
		s.logger.Error("AddSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddSlot - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("AddSlot: successfully created slot %s %s", key.Date.Format(domain.DateFormat), key.Time)
	return models.FromDomainSlot(slot), nil
}

// SetCapacity меняет вместимость слота; уменьшить её ниже числа занятых мест нельзя.
// Если появились свободные места, первые в листе ожидания получают уведомление.
func (s *Service) SetCapacity(ctx context.Context, req *models.SetCapacityRequest) (*models.SlotResponse, error) {
	s.logger.Info("SetCapacity: sub_service=%d, date=%s, time=%q, capacity=%d by user=%d",
		req.SubServiceID, req.Date.Format(domain.DateFormat), req.Time, req.Capacity, req.UserID)

	if err := validateCapacity(req.Capacity); err != nil {
		s.logger.Warn("SetCapacity: invalid capacity %d", req.Capacity)
		return nil, err
	}

	key, err := s.authorize(ctx, &req.SlotRequest)
	if err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.SetCapacity(ctx, key, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, ErrSlotNotFound
		case errors.Is(err, domain.ErrSlotHasBookings):
			s.logger.Warn("SetCapacity: capacity %d is below booked count", req.Capacity)
			return nil, ErrSlotHasBookings
		}
		s.logger.Error("SetCapacity: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetCapacity - repository error: %w", ErrInternal, err)
	}

	resp := models.FromDomainSlot(slot)
	if s.promoter != nil && !slot.IsFull() {
		notified, err := s.promoter.PromoteFromWaitlist(ctx, key)
		if err != nil {
			s.logger.Error("SetCapacity: waitlist promotion failed: %v", err)
		}
		resp.Notified = notified
	}

	s.logger.Info("SetCapacity: slot %s %s capacity=%d booked=%d",
		key.Date.Format(domain.DateFormat), key.Time, slot.Capacity, slot.Booked)
	return resp, nil
}

// DeleteSlot удаляет слот. Без force слот с бронированиями не удаляется;
// с force существующие бронирования остаются в журнале как есть.
func (s *Service) DeleteSlot(ctx context.Context, req *models.DeleteSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("DeleteSlot: sub_service=%d, date=%s, time=%q, force=%t by user=%d",
		req.SubServiceID, req.Date.Format(domain.DateFormat), req.Time, req.Force, req.UserID)

	key, err := s.authorize(ctx, &req.SlotRequest)
	if err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.Delete(ctx, key, req.Force)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, ErrSlotNotFound
		case errors.Is(err, domain.ErrSlotHasBookings):
			s.logger.Warn("DeleteSlot: slot %s %s has bookings", key.Date.Format(domain.DateFormat), key.Time)
			return nil, ErrSlotHasBookings
		}
		s.logger.Error("DeleteSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: DeleteSlot - repository error: %w", ErrInternal, err)
	}

	if slot.Booked > 0 {
		s.logger.Warn("DeleteSlot: slot %s %s deleted with %d bookings", key.Date.Format(domain.DateFormat), key.Time, slot.Booked)
	}
	return models.FromDomainSlot(slot), nil
}

// authorize проверяет ключ слота и права администратора услуги, которой принадлежит направление
func (s *Service) authorize(ctx context.Context, req *models.SlotRequest) (domain.SlotKey, error) {
	label, err := types.NewTimeLabel(req.Time)
	if err != nil || req.Date.IsZero() || req.SubServiceID <= 0 {
		return domain.SlotKey{}, fmt.Errorf("%w: valid subServiceId, date and time are required", ErrInvalidInput)
	}

	sub, err := s.catalogRepo.GetSubService(ctx, req.SubServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("authorize: sub-service id=%d not found", req.SubServiceID)
			return domain.SlotKey{}, ErrSubServiceNotFound
		}
		s.logger.Error("authorize: failed to get sub-service id=%d: %v", req.SubServiceID, err)
		return domain.SlotKey{}, fmt.Errorf("%w: authorize - sub-service: %w", ErrInternal, err)
	}

	if !req.IsAdmin {
		service, err := s.catalogRepo.GetService(ctx, sub.ServiceID)
		if err != nil {
			s.logger.Error("authorize: failed to get service id=%d: %v", sub.ServiceID, err)
			return domain.SlotKey{}, fmt.Errorf("%w: authorize - service: %w", ErrInternal, err)
		}
		if !service.IsAdmin(req.UserID) {
			s.logger.Warn("authorize: user=%d is not an admin of service=%d", req.UserID, sub.ServiceID)
			return domain.SlotKey{}, ErrAccessDenied
		}
	}

	return domain.SlotKey{SubServiceID: sub.ID, Date: domain.DateOnly(req.Date), Time: label}, nil
}

func validateCapacity(capacity int) error {
	if capacity < domain.MinSlotCapacity || capacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d", ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}
	return nil
}
