package get_available_slots

import (
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// toSlots упорядочивает слоты по времени суток и считает свободные места.
// Метки, которые не удалось разобрать, идут в конце в порядке создания.
func toSlots(timeSlots []*domain.TimeSlot) []Slot {
	sorted := domain.SortSlots(timeSlots)

	slots := make([]Slot, 0, len(sorted))
	for _, s := range sorted {
		slots = append(slots, Slot{
			Time:      s.Time,
			Capacity:  s.Capacity,
			Booked:    s.Booked,
			Available: s.Available(),
		})
	}

	return slots
}
