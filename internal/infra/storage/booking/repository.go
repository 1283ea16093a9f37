package booking

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

const table = "bookings"

var columns = []string{
	"id",
	"user_id",
	"service_id",
	"sub_service_id",
	"booking_date",
	"slot_time",
	"original_time_slot",
	"was_rescheduled",
	"token_fee",
	"status",
	"cancelled_at",
	"cancelled_by",
	"rescheduled_at",
	"rescheduled_by",
	"emergency",
	"reference_number",
	"booking_for",
	"details",
	"version",
	"created_at",
	"updated_at",
}

const returningColumns = "RETURNING id, user_id, service_id, sub_service_id, booking_date, slot_time, " +
	"original_time_slot, was_rescheduled, token_fee, status, cancelled_at, cancelled_by, " +
	"rescheduled_at, rescheduled_by, emergency, reference_number, booking_for, details, " +
	"version, created_at, updated_at"

// Repository репозиторий бронирований (BookingLedger).
// Бронирование после отмены не изменяется: все UPDATE условны по status = 'confirmed'.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое подтверждённое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var subServiceID interface{}
	if draft.SubServiceID != 0 {
		subServiceID = draft.SubServiceID
	}

	var bookingFor interface{}
	if draft.BookingFor != nil {
		bookingFor = string(*draft.BookingFor)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"user_id",
			"service_id",
			"sub_service_id",
			"booking_date",
			"slot_time",
			"original_time_slot",
			"was_rescheduled",
			"token_fee",
			"status",
			"emergency",
			"reference_number",
			"booking_for",
			"details",
		).
		Values(
			draft.UserID,
			draft.ServiceID,
			subServiceID,
			draft.Date.Format(domain.DateFormat),
			draft.Time.String(),
			draft.OriginalTimeSlot.String(),
			draft.WasRescheduled,
			draft.TokenFee,
			string(domain.StatusConfirmed),
			draft.Emergency,
			draft.ReferenceNumber,
			bookingFor,
			draft.Details,
		).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, storageerr.Classify(err))
	}

	return booking, nil
}

// Cancel переводит подтверждённое бронирование в статус cancelled.
// Повторная отмена возвращает ErrAlreadyCancelled и ничего не меняет.
func (r *Repository) Cancel(ctx context.Context, id int64, actorID int64, at time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusCancelled)).
		Set("cancelled_at", at).
		Set("cancelled_by", actorID).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(domain.StatusConfirmed)}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if existing.IsCancelled() {
			return existing, ErrAlreadyCancelled
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return booking, nil
}

// Reschedule переносит подтверждённое бронирование на новые дату и время.
// expectedVersion - версия, прочитанная вызывающим; при несовпадении возвращается ErrVersionConflict.
// OriginalTimeSlot не меняется.
func (r *Repository) Reschedule(ctx context.Context, id int64, key domain.SlotKey, actorID int64, expectedVersion int, at time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("booking_date", key.Date.Format(domain.DateFormat)).
		Set("slot_time", key.Time.String()).
		Set("was_rescheduled", true).
		Set("rescheduled_at", at).
		Set("rescheduled_by", actorID).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":      id,
			"status":  string(domain.StatusConfirmed),
			"version": expectedVersion,
		}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if existing.Status != domain.StatusConfirmed {
			return nil, ErrNotConfirmed
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Reschedule - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return booking, nil
}

// ListByUser получает все бронирования пользователя (сначала новые)
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByFilter получает бронирования услуги с фильтрацией по направлению, периоду и статусу
func (r *Repository) ListByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"service_id": filter.ServiceID})

	if filter.SubServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"sub_service_id": *filter.SubServiceID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.OrderBy("booking_date ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ExistsConfirmed проверяет, есть ли у пользователя подтверждённое бронирование на этот слот
func (r *Repository) ExistsConfirmed(ctx context.Context, userID int64, key domain.SlotKey) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{
			"user_id":        userID,
			"sub_service_id": key.SubServiceID,
			"booking_date":   key.Date.Format(domain.DateFormat),
			"slot_time":      key.Time.String(),
			"status":         string(domain.StatusConfirmed),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsConfirmed - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsConfirmed - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return true, nil
}

// ListConfirmedBySlot получает подтверждённые бронирования слота в порядке записи
func (r *Repository) ListConfirmedBySlot(ctx context.Context, key domain.SlotKey) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"sub_service_id": key.SubServiceID,
			"booking_date":   key.Date.Format(domain.DateFormat),
			"slot_time":      key.Time.String(),
			"status":         string(domain.StatusConfirmed),
		}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedBySlot - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	return scanBookings(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var subServiceID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ServiceID,
		&subServiceID,
		&booking.Date,
		&booking.Time,
		&booking.OriginalTimeSlot,
		&booking.WasRescheduled,
		&booking.TokenFee,
		&booking.Status,
		&booking.CancelledAt,
		&booking.CancelledBy,
		&booking.RescheduledAt,
		&booking.RescheduledBy,
		&booking.Emergency,
		&booking.ReferenceNumber,
		&booking.BookingFor,
		&booking.Details,
		&booking.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.SubServiceID = subServiceID.Int64
	booking.Date = domain.DateOnly(booking.Date)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, storageerr.Classify(err))
	}

	return bookings, nil
}
