package domain

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// SlotKey ключ временного слота
type SlotKey struct {
	SubServiceID int64
	Date         time.Time // дата без времени
	Time         types.TimeLabel
}

// TimeSlot временной слот с ограниченной вместимостью.
// Инвариант: 0 <= Booked <= Capacity.
type TimeSlot struct {
	SubServiceID int64
	Date         time.Time
	Time         types.TimeLabel
	Capacity     int
	Booked       int
	CreatedAt    time.Time
}

// Key возвращает ключ слота
func (s *TimeSlot) Key() SlotKey {
	return SlotKey{SubServiceID: s.SubServiceID, Date: s.Date, Time: s.Time}
}

// Available возвращает количество свободных мест
func (s *TimeSlot) Available() int {
	if s.Booked >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Booked
}

// IsFull returns true if the slot has no available spots
func (s *TimeSlot) IsFull() bool {
	return s.Booked >= s.Capacity
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *TimeSlot) OccupancyRate() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Booked) / float64(s.Capacity) * 100
}

// SortSlots упорядочивает слоты по времени суток (стабильно, см. types.SortTimeLabels)
func SortSlots(slots []*TimeSlot) []*TimeSlot {
	labels := make([]types.TimeLabel, len(slots))
	byLabel := make(map[types.TimeLabel]*TimeSlot, len(slots))
	for i, s := range slots {
		labels[i] = s.Time
		byLabel[s.Time] = s
	}

	types.SortTimeLabels(labels)

	sorted := make([]*TimeSlot, len(labels))
	for i, l := range labels {
		sorted[i] = byLabel[l]
	}
	return sorted
}

// DateOnly обнуляет время, оставляя только дату в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
