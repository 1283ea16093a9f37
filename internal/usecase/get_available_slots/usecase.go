package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// UseCase use case для получения слотов направления и их загрузки
type UseCase struct {
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает слоты направления на дату: вместимость и занятость каждого
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: sub_service=%d, date=%s",
		req.SubServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}
	date := domain.DateOnly(req.Date)

	// 2. Получаем направление
	sub, err := uc.getSubService(ctx, req.SubServiceID)
	if err != nil {
		return nil, err
	}

	// 3. Получаем слоты на дату
	timeSlots, err := uc.slotRepo.ListByDate(ctx, sub.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %w", ErrInternal, err)
	}

	slots := toSlots(timeSlots)

	uc.logger.Info("GetAvailableSlots: found %d slots for sub_service=%d, date=%s",
		len(slots), sub.ID, date.Format(domain.DateFormat))

	return &Response{
		Date:         date,
		ServiceID:    sub.ServiceID,
		SubServiceID: sub.ID,
		TokenFee:     sub.TokenFee,
		Slots:        slots,
	}, nil
}

// ExecuteDates возвращает даты, на которые у направления заведены слоты
func (uc *UseCase) ExecuteDates(ctx context.Context, req *DatesRequest) (*DatesResponse, error) {
	uc.logger.Info("GetAvailableDates: sub_service=%d", req.SubServiceID)

	if req.SubServiceID <= 0 {
		return nil, fmt.Errorf("%w: subServiceID must be positive", ErrInvalidInput)
	}

	sub, err := uc.getSubService(ctx, req.SubServiceID)
	if err != nil {
		return nil, err
	}

	var from *time.Time
	if !req.IncludePast {
		today := domain.DateOnly(uc.timeProvider.Now())
		from = &today
	}

	dates, err := uc.slotRepo.ListDates(ctx, sub.ID, from)
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to list dates: %v", err)
		return nil, fmt.Errorf("%w: failed to list dates: %w", ErrInternal, err)
	}

	return &DatesResponse{SubServiceID: sub.ID, Dates: dates}, nil
}

func (uc *UseCase) getSubService(ctx context.Context, id int64) (*domain.SubService, error) {
	sub, err := uc.catalogRepo.GetSubService(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailableSlots: sub-service id=%d not found", id)
			return nil, ErrSubServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get sub-service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get sub-service: %w", ErrInternal, err)
	}
	return sub, nil
}
