package waitlist

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

const table = "waitlist_entries"

var columns = []string{
	"id",
	"user_id",
	"service_id",
	"sub_service_id",
	"entry_date",
	"desired_time",
	"created_at",
	"notified_at",
}

const returningColumns = "RETURNING id, user_id, service_id, sub_service_id, entry_date, desired_time, created_at, notified_at"

// fifoOrder порядок очереди: время постановки, затем id для одинаковых меток времени
var fifoOrder = []string{"created_at ASC", "id ASC"}

// Repository репозиторий листа ожидания (WaitlistQueue).
// Очередь FIFO по ключу (sub_service_id, entry_date, desired_time).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue ставит пользователя в очередь.
// Повторная постановка того же пользователя на тот же ключ возвращает существующую запись.
func (r *Repository) Enqueue(ctx context.Context, entry domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("user_id", "service_id", "sub_service_id", "entry_date", "desired_time").
		Values(
			entry.UserID,
			entry.ServiceID,
			entry.SubServiceID,
			entry.Date.Format(domain.DateFormat),
			entry.DesiredTime.String(),
		).
		Suffix("ON CONFLICT (user_id, sub_service_id, entry_date, desired_time) DO NOTHING " + returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return r.getForUser(ctx, entry.UserID, entry.Key())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Enqueue - execute insert: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return created, nil
}

// Get получает запись очереди по ID
func (r *Repository) Get(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan entry: %w", ErrScanRow, storageerr.Classify(err))
	}

	return entry, nil
}

func (r *Repository) getForUser(ctx context.Context, userID int64, key domain.WaitlistKey) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(keyCondition(key)).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getForUser - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getForUser - scan entry: %w", ErrScanRow, storageerr.Classify(err))
	}

	return entry, nil
}

// PeekOldest возвращает до n самых старых записей очереди, не удаляя их.
// pendingOnly оставляет только тех, кого ещё не уведомляли.
func (r *Repository) PeekOldest(ctx context.Context, key domain.WaitlistKey, n int, pendingOnly bool) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(keyCondition(key)).
		OrderBy(fifoOrder...).
		Limit(uint64(n))

	if pendingOnly {
		builder = builder.Where(squirrel.Eq{"notified_at": nil})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: PeekOldest - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: PeekOldest - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Remove удаляет запись из очереди
func (r *Repository) Remove(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Remove - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Remove - execute delete: %w", ErrExecQuery, storageerr.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Remove - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// RemoveForUser удаляет запись пользователя по ключу (после успешного бронирования).
// Возвращает количество удалённых записей.
func (r *Repository) RemoveForUser(ctx context.Context, userID int64, key domain.WaitlistKey) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(keyCondition(key)).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: RemoveForUser - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: RemoveForUser - execute delete: %w", ErrExecQuery, storageerr.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: RemoveForUser - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// Position возвращает позицию записи в очереди, начиная с 1
func (r *Repository) Position(ctx context.Context, entry *domain.WaitlistEntry) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(keyCondition(entry.Key())).
		Where(squirrel.Expr("(created_at, id) <= (?, ?)", entry.CreatedAt, entry.ID)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Position - build select query: %v", ErrBuildQuery, err)
	}

	var position int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&position); err != nil {
		return 0, fmt.Errorf("%w: Position - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return position, nil
}

// MarkNotified отмечает время последнего уведомления для записей
func (r *Repository) MarkNotified(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("notified_at", at).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkNotified - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkNotified - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return nil
}

// ListPendingKeys возвращает ключи очередей, в которых есть неуведомлённые записи на даты не раньше from
func (r *Repository) ListPendingKeys(ctx context.Context, from time.Time) ([]domain.WaitlistKey, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT sub_service_id", "entry_date", "desired_time").
		From(table).
		Where(squirrel.Eq{"notified_at": nil}).
		Where(squirrel.GtOrEq{"entry_date": from.Format(domain.DateFormat)}).
		OrderBy("entry_date ASC", "sub_service_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingKeys - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingKeys - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	keys := make([]domain.WaitlistKey, 0)
	for rows.Next() {
		var key domain.WaitlistKey
		if err := rows.Scan(&key.SubServiceID, &key.Date, &key.DesiredTime); err != nil {
			return nil, fmt.Errorf("%w: ListPendingKeys - scan row: %v", ErrScanRow, err)
		}
		key.Date = domain.DateOnly(key.Date)
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPendingKeys - rows error: %w", ErrScanRow, storageerr.Classify(err))
	}

	return keys, nil
}

// ListByUser получает все записи пользователя в очередях
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy(fifoOrder...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	return scanEntries(rows)
}

func keyCondition(key domain.WaitlistKey) squirrel.Eq {
	return squirrel.Eq{
		"sub_service_id": key.SubServiceID,
		"entry_date":     key.Date.Format(domain.DateFormat),
		"desired_time":   key.DesiredTime.String(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	var createdAt sql.NullTime

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.ServiceID,
		&entry.SubServiceID,
		&entry.Date,
		&entry.DesiredTime,
		&createdAt,
		&entry.NotifiedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Date = domain.DateOnly(entry.Date)
	entry.CreatedAt = createdAt.Time
	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]*domain.WaitlistEntry, error) {
	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %w", ErrScanRow, storageerr.Classify(err))
	}
	return entries, nil
}
