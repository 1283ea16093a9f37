package accounts

import (
	"context"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts/models"
)

// Service сервис балансов пользователей
type Service struct {
	accountRepo AccountRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса балансов
func NewService(accountRepo AccountRepository, logger Logger) *Service {
	return &Service{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// GetAccount получает баланс пользователя.
// Пользователь видит только свой баланс, администратор - любой.
// Счёт без движений возвращается с нулевым балансом.
func (s *Service) GetAccount(ctx context.Context, req *models.GetAccountRequest) (*models.AccountResponse, error) {
	s.logger.Info("GetAccount: user=%d requested by %d", req.UserID, req.RequesterID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if !req.IsAdmin && req.RequesterID != req.UserID {
		s.logger.Warn("GetAccount: access denied for user=%d to account=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	account, err := s.accountRepo.Ensure(ctx, req.UserID)
	if err != nil {
		s.logger.Error("GetAccount: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAccount - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAccount(account), nil
}

// TopUp зачисляет токены на баланс пользователя
func (s *Service) TopUp(ctx context.Context, req *models.TopUpRequest) (*models.AccountResponse, error) {
	s.logger.Info("TopUp: user=%d, amount=%d by admin=%d", req.UserID, req.Amount, req.RequesterID)

	if !req.IsAdmin {
		s.logger.Warn("TopUp: user=%d is not an admin", req.RequesterID)
		return nil, ErrAccessDenied
	}
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.Amount <= 0 || req.Amount > domain.MaxTopUpAmount {
		return nil, fmt.Errorf("%w: amount must be between 1 and %d", ErrInvalidInput, domain.MaxTopUpAmount)
	}

	if _, err := s.accountRepo.Ensure(ctx, req.UserID); err != nil {
		s.logger.Error("TopUp: failed to ensure account: %v", err)
		return nil, fmt.Errorf("%w: TopUp - ensure account: %w", ErrInternal, err)
	}

	account, err := s.accountRepo.Credit(ctx, req.UserID, req.Amount)
	if err != nil {
		s.logger.Error("TopUp: failed to credit: %v", err)
		return nil, fmt.Errorf("%w: TopUp - credit: %w", ErrInternal, err)
	}

	s.logger.Info("TopUp: user=%d balance=%d", account.UserID, account.Balance)
	return models.FromDomainAccount(account), nil
}
