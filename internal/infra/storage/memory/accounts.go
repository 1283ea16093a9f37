package memory

import (
	"context"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	errAccountNotFound     = fmt.Errorf("memory: account %w", domain.ErrNotFound)
	errInsufficientBalance = fmt.Errorf("memory: %w", domain.ErrInsufficientBalance)
)

// Accounts балансы пользователей в памяти
type Accounts struct {
	s *Store
}

// Get получает счёт пользователя
func (r *Accounts) Get(ctx context.Context, userID int64) (*domain.UserAccount, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	a, ok := r.s.accounts[userID]
	if !ok {
		return nil, errAccountNotFound
	}
	copied := *a
	return &copied, nil
}

// Ensure создает счёт с нулевым балансом, если его нет
func (r *Accounts) Ensure(ctx context.Context, userID int64) (*domain.UserAccount, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	a, ok := r.s.accounts[userID]
	if !ok {
		now := r.s.now()
		a = &domain.UserAccount{UserID: userID, CreatedAt: now, UpdatedAt: now}
		r.s.accounts[userID] = a
		r.s.record(ctx, func() { delete(r.s.accounts, userID) })
	}
	copied := *a
	return &copied, nil
}

// Debit списывает amount, если баланс не меньше amount
func (r *Accounts) Debit(ctx context.Context, userID int64, amount int64) (*domain.UserAccount, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	a, ok := r.s.accounts[userID]
	if !ok {
		return nil, errAccountNotFound
	}
	if !a.CanAfford(amount) {
		return nil, errInsufficientBalance
	}

	a.Balance -= amount
	a.UpdatedAt = r.s.now()
	r.s.record(ctx, func() { a.Balance += amount })

	copied := *a
	return &copied, nil
}

// Credit зачисляет amount
func (r *Accounts) Credit(ctx context.Context, userID int64, amount int64) (*domain.UserAccount, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	a, ok := r.s.accounts[userID]
	if !ok {
		return nil, errAccountNotFound
	}

	a.Balance += amount
	a.UpdatedAt = r.s.now()
	r.s.record(ctx, func() { a.Balance -= amount })

	copied := *a
	return &copied, nil
}
