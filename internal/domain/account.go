package domain

import "time"

// UserAccount баланс пользователя во внутренних токенах.
// Инвариант: Balance >= 0.
type UserAccount struct {
	UserID    int64
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAfford returns true if the balance covers the fee
func (a *UserAccount) CanAfford(fee int64) bool {
	return a.Balance >= fee
}
