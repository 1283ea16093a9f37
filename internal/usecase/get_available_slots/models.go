package get_available_slots

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// Request модель запроса на получение слотов направления
type Request struct {
	SubServiceID int64     // ID направления
	Date         time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date         time.Time // Дата, на которую запрашивались слоты
	ServiceID    int64     // ID услуги
	SubServiceID int64     // ID направления
	TokenFee     int64     // Стоимость записи
	Slots        []Slot    // Слоты в порядке времени суток
}

// Slot модель временного слота
type Slot struct {
	Time      types.TimeLabel // Метка времени (например, "9:00 AM")
	Capacity  int             // Общее количество мест
	Booked    int             // Занято мест
	Available int             // Свободно мест
}

// DatesRequest модель запроса на получение дат со слотами
type DatesRequest struct {
	SubServiceID int64
	IncludePast  bool // по умолчанию только сегодня и позже
}

// DatesResponse модель ответа со списком дат
type DatesResponse struct {
	SubServiceID int64
	Dates        []time.Time
}
