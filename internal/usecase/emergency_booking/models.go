package emergency_booking

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// Request модель запроса на экстренную запись
type Request struct {
	UserID       int64   // ID пользователя
	SubServiceID int64   // ID направления
	BookingFor   string  // "self" или "other"
	Details      *string // описание ситуации (опционально)
}

// Response модель ответа с созданной экстренной записью
type Response struct {
	ID              int64
	UserID          int64
	ServiceID       int64
	SubServiceID    int64
	Date            time.Time
	Time            types.TimeLabel
	TokenFee        int64
	Status          string
	ReferenceNumber string
	BookingFor      string
	Details         *string
	Balance         int64 // баланс после списания
	CreatedAt       time.Time
}

// Config параметры экстренной записи
type Config struct {
	FeeSelf  int64          // стоимость записи для себя
	FeeOther int64          // стоимость записи для другого человека
	Location *time.Location // часовая зона, в которой фиксируются дата и время записи
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		FeeSelf:  100,
		FeeOther: 0,
		Location: time.UTC,
	}
}
