package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/storageerr"
	"github.com/m04kA/EffiQ-BookingService/pkg/dbmetrics"
	"github.com/m04kA/EffiQ-BookingService/pkg/psqlbuilder"
)

const (
	servicesTable    = "services"
	subServicesTable = "sub_services"
)

var serviceColumns = []string{
	"id",
	"name",
	"category",
	"description",
	"location",
	"admin_ids",
	"created_at",
	"updated_at",
}

var subServiceColumns = []string{
	"id",
	"service_id",
	"name",
	"token_fee",
	"created_at",
	"updated_at",
}

const (
	serviceReturning    = "RETURNING id, name, category, description, location, admin_ids, created_at, updated_at"
	subServiceReturning = "RETURNING id, service_id, name, token_fee, created_at, updated_at"
)

// Repository репозиторий каталога услуг и направлений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateService создает новую услугу
func (r *Repository) CreateService(ctx context.Context, service domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	adminIDs := service.AdminIDs
	if adminIDs == nil {
		adminIDs = []int64{}
	}

	query, args, err := psqlbuilder.Insert(servicesTable).
		Columns("name", "category", "description", "location", "admin_ids").
		Values(service.Name, service.Category, service.Description, service.Location, pq.Array(adminIDs)).
		Suffix(serviceReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - execute insert: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return created, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From(servicesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, storageerr.Classify(err))
	}

	return service, nil
}

// ListServices получает все услуги, опционально по категории
func (r *Repository) ListServices(ctx context.Context, category *string) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(serviceColumns...).
		From(servicesTable).
		OrderBy("id ASC")

	if category != nil {
		builder = builder.Where(squirrel.Eq{"category": *category})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %w", ErrScanRow, storageerr.Classify(err))
	}

	return services, nil
}

// UpdateServiceDescription меняет описание услуги
func (r *Repository) UpdateServiceDescription(ctx context.Context, id int64, description string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(servicesTable).
		Set("description", description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix(serviceReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateServiceDescription - build update query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateServiceDescription - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return service, nil
}

// AddServiceAdmin добавляет администратора услуги. Повторное добавление ничего не меняет.
func (r *Repository) AddServiceAdmin(ctx context.Context, id int64, userID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(servicesTable).
		Set("admin_ids", squirrel.Expr("array_append(admin_ids, ?)", userID)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("NOT (? = ANY(admin_ids))", userID).
		Suffix(serviceReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddServiceAdmin - build update query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return r.GetService(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: AddServiceAdmin - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return service, nil
}

// CreateSubService создает направление внутри услуги
func (r *Repository) CreateSubService(ctx context.Context, sub domain.SubService) (*domain.SubService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(subServicesTable).
		Columns("service_id", "name", "token_fee").
		Values(sub.ServiceID, sub.Name, sub.TokenFee).
		Suffix(subServiceReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSubService - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanSubService(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSubService - execute insert: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return created, nil
}

// GetSubService получает направление по ID
func (r *Repository) GetSubService(ctx context.Context, id int64) (*domain.SubService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subServiceColumns...).
		From(subServicesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubService - build select query: %v", ErrBuildQuery, err)
	}

	sub, err := scanSubService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubService - scan sub-service: %w", ErrScanRow, storageerr.Classify(err))
	}

	return sub, nil
}

// ListSubServices получает направления указанных услуг
func (r *Repository) ListSubServices(ctx context.Context, serviceIDs []int64) ([]*domain.SubService, error) {
	if len(serviceIDs) == 0 {
		return []*domain.SubService{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subServiceColumns...).
		From(subServicesTable).
		Where(squirrel.Eq{"service_id": serviceIDs}).
		OrderBy("service_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSubServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSubServices - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	subs := make([]*domain.SubService, 0)
	for rows.Next() {
		sub, err := scanSubService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListSubServices - scan row: %v", ErrScanRow, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSubServices - rows error: %w", ErrScanRow, storageerr.Classify(err))
	}

	return subs, nil
}

// UpdateTokenFee меняет стоимость записи на направление
func (r *Repository) UpdateTokenFee(ctx context.Context, id int64, fee int64) (*domain.SubService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(subServicesTable).
		Set("token_fee", fee).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix(subServiceReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTokenFee - build update query: %v", ErrBuildQuery, err)
	}

	sub, err := scanSubService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTokenFee - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return sub, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var service domain.Service
	var adminIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Category,
		&service.Description,
		&service.Location,
		&adminIDs,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	service.AdminIDs = []int64(adminIDs)
	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time
	return &service, nil
}

func scanSubService(row rowScanner) (*domain.SubService, error) {
	var sub domain.SubService
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&sub.ID,
		&sub.ServiceID,
		&sub.Name,
		&sub.TokenFee,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.CreatedAt = createdAt.Time
	sub.UpdatedAt = updatedAt.Time
	return &sub, nil
}
