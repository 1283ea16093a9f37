package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/storageerr"
	"github.com/m04kA/EffiQ-BookingService/pkg/dbmetrics"
	"github.com/m04kA/EffiQ-BookingService/pkg/psqlbuilder"
)

const table = "user_accounts"

var columns = []string{"user_id", "balance", "created_at", "updated_at"}

const returningColumns = "RETURNING user_id, balance, created_at, updated_at"

// Repository репозиторий балансов пользователей.
// Баланс меняется только условными UPDATE, поэтому он никогда не становится отрицательным.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория балансов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает счёт пользователя
func (r *Repository) Get(ctx context.Context, userID int64) (*domain.UserAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	account, err := scanAccount(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan account: %w", ErrScanRow, storageerr.Classify(err))
	}

	return account, nil
}

// Ensure создает счёт с нулевым балансом, если его ещё нет, и возвращает текущее состояние
func (r *Repository) Ensure(ctx context.Context, userID int64) (*domain.UserAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("user_id", "balance").
		Values(userID, 0).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Ensure - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Ensure - execute insert: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return r.Get(ctx, userID)
}

// Debit атомарно списывает amount, если баланс не меньше amount
func (r *Repository) Debit(ctx context.Context, userID int64, amount int64) (*domain.UserAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("balance", squirrel.Expr("balance - ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"balance": amount}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Debit - build update query: %v", ErrBuildQuery, err)
	}

	account, err := scanAccount(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, userID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInsufficientBalance
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Debit - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return account, nil
}

// Credit зачисляет amount на счёт пользователя
func (r *Repository) Credit(ctx context.Context, userID int64, amount int64) (*domain.UserAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("balance", squirrel.Expr("balance + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Credit - build update query: %v", ErrBuildQuery, err)
	}

	account, err := scanAccount(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Credit - execute update: %w", ErrExecQuery, storageerr.Classify(err))
	}

	return account, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*domain.UserAccount, error) {
	var account domain.UserAccount
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&account.UserID, &account.Balance, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	return &account, nil
}
