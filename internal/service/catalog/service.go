package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/catalog/models"
)

// Service сервис каталога услуг и их направлений
type Service struct {
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// ListServices получает каталог услуг с направлениями
// Публичный метод - доступен всем
func (s *Service) ListServices(ctx context.Context, category *string) (*models.ServiceListResponse, error) {
	s.logger.Info("ListServices: fetching services, category=%v", category)

	services, err := s.catalogRepo.ListServices(ctx, category)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %w", ErrInternal, err)
	}

	ids := make([]int64, len(services))
	for i, svc := range services {
		ids[i] = svc.ID
	}

	subs, err := s.catalogRepo.ListSubServices(ctx, ids)
	if err != nil {
		s.logger.Error("ListServices: failed to list sub-services: %v", err)
		return nil, fmt.Errorf("%w: ListServices - sub-services: %w", ErrInternal, err)
	}

	byService := make(map[int64][]*domain.SubService, len(services))
	for _, sub := range subs {
		byService[sub.ServiceID] = append(byService[sub.ServiceID], sub)
	}

	resp := &models.ServiceListResponse{Services: make([]models.ServiceResponse, 0, len(services))}
	for _, svc := range services {
		resp.Services = append(resp.Services, *models.FromDomainService(svc, byService[svc.ID]))
	}

	s.logger.Info("ListServices: successfully fetched %d services", len(resp.Services))
	return resp, nil
}

// GetSubService получает направление по ID
func (s *Service) GetSubService(ctx context.Context, id int64) (*models.SubServiceResponse, error) {
	sub, err := s.catalogRepo.GetSubService(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetSubService: sub-service id=%d not found", id)
			return nil, ErrSubServiceNotFound
		}
		s.logger.Error("GetSubService: repository error for sub-service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetSubService - repository error: %w", ErrInternal, err)
	}

	resp := models.FromDomainSubService(sub)
	return &resp, nil
}

// CreateService создает услугу
// Доступно только глобальным администраторам; создатель становится администратором услуги
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: creating service name=%q by user=%d", req.Name, req.UserID)

	if !req.IsAdmin {
		s.logger.Warn("CreateService: user=%d is not an admin", req.UserID)
		return nil, ErrAccessDenied
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > domain.MaxNameLength {
		s.logger.Warn("CreateService: invalid name %q", req.Name)
		return nil, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	created, err := s.catalogRepo.CreateService(ctx, req.ToDomainService())
	if err != nil {
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateService: successfully created service id=%d", created.ID)
	return models.FromDomainService(created, nil), nil
}

// UpdateService меняет описание и/или добавляет администратора услуги
// Доступно только администраторам услуги
func (s *Service) UpdateService(ctx context.Context, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: updating service id=%d by user=%d", req.ServiceID, req.UserID)

	service, err := s.authorize(ctx, req.ServiceID, req.UserID, req.IsAdmin)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if service, err = s.catalogRepo.UpdateServiceDescription(ctx, req.ServiceID, *req.Description); err != nil {
			s.logger.Error("UpdateService: failed to update description for service id=%d: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: UpdateService - description: %w", ErrInternal, err)
		}
	}

	if req.AddAdminID != nil {
		if *req.AddAdminID <= 0 {
			return nil, fmt.Errorf("%w: addAdminId must be positive", ErrInvalidInput)
		}
		if service, err = s.catalogRepo.AddServiceAdmin(ctx, req.ServiceID, *req.AddAdminID); err != nil {
			s.logger.Error("UpdateService: failed to add admin for service id=%d: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: UpdateService - add admin: %w", ErrInternal, err)
		}
	}

	s.logger.Info("UpdateService: successfully updated service id=%d", req.ServiceID)
	return models.FromDomainService(service, nil), nil
}

// CreateSubService создает направление услуги
// Доступно только администраторам услуги
func (s *Service) CreateSubService(ctx context.Context, req *models.CreateSubServiceRequest) (*models.SubServiceResponse, error) {
	s.logger.Info("CreateSubService: creating sub-service name=%q for service=%d by user=%d",
		req.Name, req.ServiceID, req.UserID)

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if err := validateTokenFee(req.TokenFee); err != nil {
		return nil, err
	}

	if _, err := s.authorize(ctx, req.ServiceID, req.UserID, req.IsAdmin); err != nil {
		return nil, err
	}

	created, err := s.catalogRepo.CreateSubService(ctx, domain.SubService{
		ServiceID: req.ServiceID,
		Name:      req.Name,
		TokenFee:  req.TokenFee,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("CreateSubService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSubService - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateSubService: successfully created sub-service id=%d", created.ID)
	resp := models.FromDomainSubService(created)
	return &resp, nil
}

// UpdateTokenFee меняет стоимость записи на направление
// Доступно только администраторам услуги; уже созданные бронирования сохраняют прежнюю стоимость
func (s *Service) UpdateTokenFee(ctx context.Context, req *models.UpdateTokenFeeRequest) (*models.SubServiceResponse, error) {
	s.logger.Info("UpdateTokenFee: sub-service id=%d, fee=%d by user=%d", req.SubServiceID, req.TokenFee, req.UserID)

	if err := validateTokenFee(req.TokenFee); err != nil {
		s.logger.Warn("UpdateTokenFee: invalid fee %d", req.TokenFee)
		return nil, err
	}

	sub, err := s.catalogRepo.GetSubService(ctx, req.SubServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("UpdateTokenFee: sub-service id=%d not found", req.SubServiceID)
			return nil, ErrSubServiceNotFound
		}
		s.logger.Error("UpdateTokenFee: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateTokenFee - repository error: %w", ErrInternal, err)
	}

	if _, err := s.authorize(ctx, sub.ServiceID, req.UserID, req.IsAdmin); err != nil {
		return nil, err
	}

	updated, err := s.catalogRepo.UpdateTokenFee(ctx, req.SubServiceID, req.TokenFee)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrSubServiceNotFound
		}
		s.logger.Error("UpdateTokenFee: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateTokenFee - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("UpdateTokenFee: successfully updated sub-service id=%d", req.SubServiceID)
	resp := models.FromDomainSubService(updated)
	return &resp, nil
}

// Вспомогательные методы

// authorize проверяет, что пользователь является администратором услуги (или глобальным администратором)
func (s *Service) authorize(ctx context.Context, serviceID, userID int64, isAdmin bool) (*domain.Service, error) {
	service, err := s.catalogRepo.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("authorize: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("authorize: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: authorize - failed to get service: %w", ErrInternal, err)
	}

	if !isAdmin && !service.IsAdmin(userID) {
		s.logger.Warn("authorize: user=%d is not an admin of service=%d", userID, serviceID)
		return nil, ErrAccessDenied
	}

	return service, nil
}

// validateTokenFee проверяет стоимость записи
func validateTokenFee(fee int64) error {
	if fee < 0 || fee > domain.MaxTokenFee {
		return fmt.Errorf("%w: tokenFee must be between 0 and %d", ErrInvalidInput, domain.MaxTokenFee)
	}
	return nil
}
