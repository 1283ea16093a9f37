package emergency_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// UseCase use case для экстренной записи вне очереди.
// Запись не занимает слот: дата и время фиксируются моментом обращения.
type UseCase struct {
	bookingRepo  BookingRepository
	accountRepo  AccountRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	references   ReferenceGenerator
	timeProvider TimeProvider
	cfg          Config
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	accountRepo AccountRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		accountRepo:  accountRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		references:   UUIDReferenceGenerator{},
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

// WithReferenceGenerator подменяет генератор номеров (для тестов)
func (uc *UseCase) WithReferenceGenerator(g ReferenceGenerator) *UseCase {
	uc.references = g
	return uc
}

// Execute создает экстренную запись.
// Списание токенов и создание записи выполняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("EmergencyBooking: user=%d, sub_service=%d, for=%q", req.UserID, req.SubServiceID, req.BookingFor)

	// 1. Валидация входных данных
	bookingFor, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("EmergencyBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем направление
	sub, err := uc.catalogRepo.GetSubService(ctx, req.SubServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("EmergencyBooking: sub-service id=%d not found", req.SubServiceID)
			return nil, ErrSubServiceNotFound
		}
		uc.logger.Error("EmergencyBooking: failed to get sub-service id=%d: %v", req.SubServiceID, err)
		return nil, fmt.Errorf("%w: failed to get sub-service: %w", ErrInternal, err)
	}

	// 3. Стоимость зависит от того, для кого запись
	fee := uc.cfg.FeeSelf
	if bookingFor == domain.BookingForOther {
		fee = uc.cfg.FeeOther
	}

	now := uc.timeProvider.Now().In(uc.cfg.Location)
	reference := uc.references.Generate()

	var (
		created *domain.Booking
		balance int64
	)

	// 4. Списание и создание записи в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		account, err := uc.accountRepo.Ensure(txCtx, req.UserID)
		if err != nil {
			return fmt.Errorf("%w: failed to ensure account: %w", ErrInternal, err)
		}
		balance = account.Balance

		if fee > 0 {
			account, err = uc.accountRepo.Debit(txCtx, req.UserID, fee)
			if err != nil {
				if errors.Is(err, domain.ErrInsufficientBalance) {
					return ErrInsufficientBalance
				}
				return fmt.Errorf("%w: failed to debit: %w", ErrInternal, err)
			}
			balance = account.Balance
		}

		created, err = uc.bookingRepo.Create(txCtx, domain.BookingDraft{
			UserID:           req.UserID,
			ServiceID:        sub.ServiceID,
			SubServiceID:     sub.ID,
			Date:             domain.DateOnly(now),
			Time:             types.LabelFromTime(now),
			OriginalTimeSlot: types.LabelFromTime(now),
			TokenFee:         fee,
			Emergency:        true,
			ReferenceNumber:  &reference,
			BookingFor:       &bookingFor,
			Details:          req.Details,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			uc.logger.Warn("EmergencyBooking: user=%d cannot afford fee=%d", req.UserID, fee)
		} else {
			uc.logger.Error("EmergencyBooking: transaction failed: %v", err)
		}
		if errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	uc.logger.Info("EmergencyBooking: created booking id=%d, reference=%s", created.ID, reference)

	return &Response{
		ID:              created.ID,
		UserID:          created.UserID,
		ServiceID:       created.ServiceID,
		SubServiceID:    created.SubServiceID,
		Date:            created.Date,
		Time:            created.Time,
		TokenFee:        created.TokenFee,
		Status:          string(created.Status),
		ReferenceNumber: reference,
		BookingFor:      string(bookingFor),
		Details:         created.Details,
		Balance:         balance,
		CreatedAt:       created.CreatedAt,
	}, nil
}
