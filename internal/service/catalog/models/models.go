package models

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// Request модели

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	UserID      int64   `json:"-"`
	IsAdmin     bool    `json:"-"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	AdminIDs    []int64 `json:"adminIds,omitempty"` // создатель добавляется автоматически
}

// CreateSubServiceRequest запрос на создание направления
type CreateSubServiceRequest struct {
	UserID    int64  `json:"-"`
	IsAdmin   bool   `json:"-"`
	ServiceID int64  `json:"-"`
	Name      string `json:"name"`
	TokenFee  int64  `json:"tokenFee"`
}

// UpdateTokenFeeRequest запрос на изменение стоимости записи
type UpdateTokenFeeRequest struct {
	UserID       int64 `json:"-"`
	IsAdmin      bool  `json:"-"`
	SubServiceID int64 `json:"-"`
	TokenFee     int64 `json:"tokenFee"`
}

// UpdateServiceRequest запрос на изменение услуги
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRequest struct {
	UserID      int64   `json:"-"`
	IsAdmin     bool    `json:"-"`
	ServiceID   int64   `json:"-"`
	Description *string `json:"description,omitempty"`
	AddAdminID  *int64  `json:"addAdminId,omitempty"`
}

// Response модели

// SubServiceResponse направление услуги
type SubServiceResponse struct {
	ID        int64     `json:"id"`
	ServiceID int64     `json:"serviceId"`
	Name      string    `json:"name"`
	TokenFee  int64     `json:"tokenFee"`
	CreatedAt time.Time `json:"createdAt"`
}

// ServiceResponse услуга с направлениями
type ServiceResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Location    string               `json:"location"`
	AdminIDs    []int64              `json:"adminIds"`
	SubServices []SubServiceResponse `json:"subServices"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// Методы конвертации

// FromDomainSubService конвертирует domain модель в DTO
func FromDomainSubService(s *domain.SubService) SubServiceResponse {
	return SubServiceResponse{
		ID:        s.ID,
		ServiceID: s.ServiceID,
		Name:      s.Name,
		TokenFee:  s.TokenFee,
		CreatedAt: s.CreatedAt,
	}
}

// FromDomainService конвертирует услугу и её направления в DTO
func FromDomainService(s *domain.Service, subs []*domain.SubService) *ServiceResponse {
	if s == nil {
		return nil
	}

	resp := &ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Description: s.Description,
		Location:    s.Location,
		AdminIDs:    append([]int64{}, s.AdminIDs...),
		SubServices: make([]SubServiceResponse, 0, len(subs)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, sub := range subs {
		resp.SubServices = append(resp.SubServices, FromDomainSubService(sub))
	}

	return resp
}

// ToDomainService конвертирует CreateServiceRequest в domain модель
func (r *CreateServiceRequest) ToDomainService() domain.Service {
	admins := append([]int64{}, r.AdminIDs...)
	if !contains(admins, r.UserID) {
		admins = append(admins, r.UserID)
	}

	return domain.Service{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Location:    r.Location,
		AdminIDs:    admins,
	}
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
