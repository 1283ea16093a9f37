package catalog

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	CreateService(ctx context.Context, service domain.Service) (*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListServices(ctx context.Context, category *string) ([]*domain.Service, error)
	UpdateServiceDescription(ctx context.Context, id int64, description string) (*domain.Service, error)
	AddServiceAdmin(ctx context.Context, id int64, userID int64) (*domain.Service, error)
	CreateSubService(ctx context.Context, sub domain.SubService) (*domain.SubService, error)
	GetSubService(ctx context.Context, id int64) (*domain.SubService, error)
	ListSubServices(ctx context.Context, serviceIDs []int64) ([]*domain.SubService, error)
	UpdateTokenFee(ctx context.Context, id int64, fee int64) (*domain.SubService, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
