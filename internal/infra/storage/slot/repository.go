package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/storageerr"
	"github.com/m04kA/EffiQ-BookingService/pkg/dbmetrics"
	"github.com/m04kA/EffiQ-BookingService/pkg/psqlbuilder"
)

const table = "time_slots"

var columns = []string{
	"sub_service_id",
	"slot_date",
	"slot_time",
	"capacity",
	"booked",
	"created_at",
}

const returningColumns = "RETURNING sub_service_id, slot_date, slot_time, capacity, booked, created_at"

// Repository репозиторий временных слотов (SlotStore).
// Изменение счётчика booked выполняется только одним условным UPDATE,
// без предварительного чтения, поэтому операции линеаризуемы на стороне PostgreSQL.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает слот по ключу
func (r *Repository) Get(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(keyCondition(key)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan slot: %w", ErrScanRow, storageerr.Classify(err))
	}

	return slot, nil
}

// ListByDate получает все слоты направления на дату в порядке добавления.
// Упорядочивание по времени суток выполняется в Go (domain.SortSlots),
// так как метки времени хранятся в пользовательском формате.
func (r *Repository) ListByDate(ctx context.Context, subServiceID int64, date time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"sub_service_id": subServiceID,
			"slot_date":      date.Format(domain.DateFormat),
		}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %w", ErrScanRow, storageerr.Classify(err))
	}

	return slots, nil
}

// ListDates получает даты, на которые у направления есть слоты.
// from - опциональная нижняя граница (включительно).
func (r *Repository) ListDates(ctx context.Context, subServiceID int64, from *time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("DISTINCT slot_date").
		From(table).
		Where(squirrel.Eq{"sub_service_id": subServiceID}).
		OrderBy("slot_date ASC")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"slot_date": from.Format(domain.DateFormat)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDates - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: ListDates - scan date: %v", ErrScanRow, err)
		}
		dates = append(dates, domain.DateOnly(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDates - rows error: %w", ErrScanRow, storageerr.Classify(err))
	}

	return dates, nil
}

// Reserve атомарно занимает одно место в слоте, если booked < capacity.
// Возвращает ErrSlotFull, если мест нет, и ErrSlotNotFound, если слота не существует.
func (r *Repository) Reserve(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("booked", squirrel.Expr("booked + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key)).
		Where("booked < capacity").
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Ни одна строка не обновилась: либо слота нет, либо он заполнен
		if _, getErr := r.Get(ctx, key); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSlotFull
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return slot, nil
}

// Release атомарно освобождает одно место в слоте (booked не опускается ниже нуля)
func (r *Repository) Release(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("booked", squirrel.Expr("GREATEST(booked - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key)).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return slot, nil
}

// Add создает новый слот с нулевым количеством бронирований
func (r *Repository) Add(ctx context.Context, key domain.SlotKey, capacity int) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("sub_service_id", "slot_date", "slot_time", "capacity", "booked").
		Values(key.SubServiceID, key.Date.Format(domain.DateFormat), key.Time, capacity, 0).
		Suffix("ON CONFLICT (sub_service_id, slot_date, slot_time) DO NOTHING " + returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Add - build insert query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Add - execute insert: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return slot, nil
}

// SetCapacity меняет вместимость слота. Новая вместимость не может быть меньше числа бронирований.
func (r *Repository) SetCapacity(ctx context.Context, key domain.SlotKey, capacity int) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("capacity", capacity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(keyCondition(key)).
		Where(squirrel.LtOrEq{"booked": capacity}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SetCapacity - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, key); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSlotHasBookings
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SetCapacity - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return slot, nil
}

// Delete удаляет слот. Без force удаление возможно только при booked = 0.
func (r *Repository) Delete(ctx context.Context, key domain.SlotKey, force bool) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Delete(table).
		Where(keyCondition(key)).
		Suffix(returningColumns)

	if !force {
		builder = builder.Where(squirrel.Eq{"booked": 0})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, key); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSlotHasBookings
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return slot, nil
}

func keyCondition(key domain.SlotKey) squirrel.Eq {
	return squirrel.Eq{
		"sub_service_id": key.SubServiceID,
		"slot_date":      key.Date.Format(domain.DateFormat),
		"slot_time":      key.Time.String(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var createdAt sql.NullTime

	err := row.Scan(
		&slot.SubServiceID,
		&slot.Date,
		&slot.Time,
		&slot.Capacity,
		&slot.Booked,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Date = domain.DateOnly(slot.Date)
	slot.CreatedAt = createdAt.Time
	return &slot, nil
}
