package queue_position

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// Request модель запроса позиции в очереди
type Request struct {
	BookingID int64
	UserID    int64 // кто спрашивает
	IsAdmin   bool  // глобальная роль администратора
}

// Response позиция бронирования среди подтверждённых записей того же слота
type Response struct {
	BookingID            int64
	Date                 time.Time
	Time                 types.TimeLabel
	Status               string
	Position             int // 1 - следующий на приём
	Ahead                int
	Total                int
	EstimatedWaitMinutes int
}

// Config параметры расчёта
type Config struct {
	AvgServiceMinutes int            // среднее время приёма одного человека
	Location          *time.Location // часовая зона для вычисления статуса
}
