package models

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// GetAccountRequest запрос баланса пользователя
type GetAccountRequest struct {
	RequesterID int64
	IsAdmin     bool
	UserID      int64
}

// TopUpRequest запрос на пополнение баланса (только для администратора)
type TopUpRequest struct {
	RequesterID int64 `json:"-"`
	IsAdmin     bool  `json:"-"`
	UserID      int64 `json:"-"`
	Amount      int64 `json:"amount"`
}

// AccountResponse баланс пользователя в токенах
type AccountResponse struct {
	UserID    int64     `json:"userId"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainAccount конвертирует доменную модель в ответ
func FromDomainAccount(a *domain.UserAccount) *AccountResponse {
	return &AccountResponse{
		UserID:    a.UserID,
		Balance:   a.Balance,
		UpdatedAt: a.UpdatedAt,
	}
}
