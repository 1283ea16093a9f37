package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	errServiceNotFound    = fmt.Errorf("memory: service %w", domain.ErrNotFound)
	errSubServiceNotFound = fmt.Errorf("memory: sub-service %w", domain.ErrNotFound)
)

// Catalog каталог услуг в памяти
type Catalog struct {
	s *Store
}

// CreateService создает услугу
func (r *Catalog) CreateService(ctx context.Context, service domain.Service) (*domain.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	now := r.s.now()
	created := service
	created.ID = r.s.nextID()
	created.AdminIDs = append([]int64{}, service.AdminIDs...)
	created.CreatedAt = now
	created.UpdatedAt = now
	r.s.services[created.ID] = &created
	r.s.record(ctx, func() { delete(r.s.services, created.ID) })

	return cloneService(&created), nil
}

// GetService получает услугу по ID
func (r *Catalog) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	service, ok := r.s.services[id]
	if !ok {
		return nil, errServiceNotFound
	}
	return cloneService(service), nil
}

// ListServices получает услуги, опционально по категории
func (r *Catalog) ListServices(ctx context.Context, category *string) ([]*domain.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	list := make([]*domain.Service, 0, len(r.s.services))
	for _, service := range r.s.services {
		if category != nil && service.Category != *category {
			continue
		}
		list = append(list, cloneService(service))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// UpdateServiceDescription меняет описание услуги
func (r *Catalog) UpdateServiceDescription(ctx context.Context, id int64, description string) (*domain.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	service, ok := r.s.services[id]
	if !ok {
		return nil, errServiceNotFound
	}
	prev := service.Description
	service.Description = description
	service.UpdatedAt = r.s.now()
	r.s.record(ctx, func() { service.Description = prev })
	return cloneService(service), nil
}

// AddServiceAdmin добавляет администратора услуги
func (r *Catalog) AddServiceAdmin(ctx context.Context, id int64, userID int64) (*domain.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	service, ok := r.s.services[id]
	if !ok {
		return nil, errServiceNotFound
	}
	if !service.IsAdmin(userID) {
		prev := service.AdminIDs
		service.AdminIDs = append(append([]int64{}, prev...), userID)
		service.UpdatedAt = r.s.now()
		r.s.record(ctx, func() { service.AdminIDs = prev })
	}
	return cloneService(service), nil
}

// CreateSubService создает направление
func (r *Catalog) CreateSubService(ctx context.Context, sub domain.SubService) (*domain.SubService, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	if _, ok := r.s.services[sub.ServiceID]; !ok {
		return nil, errServiceNotFound
	}

	now := r.s.now()
	created := sub
	created.ID = r.s.nextID()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.s.subServices[created.ID] = &created
	r.s.record(ctx, func() { delete(r.s.subServices, created.ID) })

	copied := created
	return &copied, nil
}

// GetSubService получает направление по ID
func (r *Catalog) GetSubService(ctx context.Context, id int64) (*domain.SubService, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	sub, ok := r.s.subServices[id]
	if !ok {
		return nil, errSubServiceNotFound
	}
	copied := *sub
	return &copied, nil
}

// ListSubServices получает направления указанных услуг
func (r *Catalog) ListSubServices(ctx context.Context, serviceIDs []int64) ([]*domain.SubService, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	wanted := make(map[int64]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		wanted[id] = struct{}{}
	}

	list := make([]*domain.SubService, 0)
	for _, sub := range r.s.subServices {
		if _, ok := wanted[sub.ServiceID]; !ok {
			continue
		}
		copied := *sub
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ServiceID != list[j].ServiceID {
			return list[i].ServiceID < list[j].ServiceID
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// UpdateTokenFee меняет стоимость записи
func (r *Catalog) UpdateTokenFee(ctx context.Context, id int64, fee int64) (*domain.SubService, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	sub, ok := r.s.subServices[id]
	if !ok {
		return nil, errSubServiceNotFound
	}
	prev := sub.TokenFee
	sub.TokenFee = fee
	sub.UpdatedAt = r.s.now()
	r.s.record(ctx, func() { sub.TokenFee = prev })

	copied := *sub
	return &copied, nil
}

func cloneService(s *domain.Service) *domain.Service {
	copied := *s
	copied.AdminIDs = append([]int64{}, s.AdminIDs...)
	return &copied
}
