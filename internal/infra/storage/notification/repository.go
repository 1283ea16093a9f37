package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/storageerr"
	"github.com/m04kA/EffiQ-BookingService/pkg/dbmetrics"
	"github.com/m04kA/EffiQ-BookingService/pkg/psqlbuilder"
)

const table = "notifications"

var columns = []string{"id", "user_id", "type", "message", "context", "read", "created_at"}

// Repository репозиторий входящих уведомлений пользователя
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет уведомление
func (r *Repository) Create(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(n.Context)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal context: %v", ErrEncodeContext, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("user_id", "type", "message", "context").
		Values(n.UserID, string(n.Type), n.Message, string(payload)).
		Suffix("RETURNING id, user_id, type, message, context, read, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanNotification(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return created, nil
}

// ListByUser получает последние уведомления пользователя (сначала новые)
func (r *Repository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")

	if unreadOnly {
		builder = builder.Where(squirrel.Eq{"read": false})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %w", ErrExecQuery, storageerr.Classify(err))
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %w", ErrScanRow, storageerr.Classify(err))
	}

	return notifications, nil
}

// MarkRead отмечает уведомление пользователя прочитанным
func (r *Repository) MarkRead(ctx context.Context, userID int64, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRead - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var payload []byte
	var createdAt sql.NullTime

	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &payload, &n.Read, &createdAt); err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &n.Context); err != nil {
			return nil, fmt.Errorf("unmarshal context: %w", err)
		}
	}

	n.CreatedAt = createdAt.Time
	return &n, nil
}
