package get_available_slots

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/EffiQ-BookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model.
// Availability - карта метка -> загрузка, Slots - те же слоты в порядке времени суток.
type AvailableSlotsResponse struct {
	Date         string                  `json:"date"`
	ServiceID    int64                   `json:"serviceId"`
	SubServiceID int64                   `json:"subServiceId"`
	TokenFee     int64                   `json:"tokenFee"`
	Availability map[string]Availability `json:"availability"`
	Slots        []AvailableSlot         `json:"slots"`
}

// Availability загрузка слота
type Availability struct {
	Capacity int `json:"capacity"`
	Booked   int `json:"booked"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time      string `json:"time"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Available int    `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	result := &AvailableSlotsResponse{
		Date:         resp.Date.Format(domain.DateFormat),
		ServiceID:    resp.ServiceID,
		SubServiceID: resp.SubServiceID,
		TokenFee:     resp.TokenFee,
		Availability: make(map[string]Availability, len(resp.Slots)),
		Slots:        make([]AvailableSlot, len(resp.Slots)),
	}

	for i, slot := range resp.Slots {
		result.Availability[slot.Time.String()] = Availability{Capacity: slot.Capacity, Booked: slot.Booked}
		result.Slots[i] = AvailableSlot{
			Time:      slot.Time.String(),
			Capacity:  slot.Capacity,
			Booked:    slot.Booked,
			Available: slot.Available,
		}
	}

	return result
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(subServiceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		SubServiceID: subServiceID,
		Date:         date,
	}, nil
}
