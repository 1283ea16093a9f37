package domain

// AllocationStatus исход попытки бронирования слота
type AllocationStatus string

const (
	AllocationReserved   AllocationStatus = "reserved"   // забронирован запрошенный слот
	AllocationOverflowed AllocationStatus = "overflowed" // забронирован следующий свободный слот той же даты
	AllocationWaitlisted AllocationStatus = "waitlisted" // свободных слотов нет, пользователь в очереди
	AllocationRejected   AllocationStatus = "rejected"   // отказ без побочных эффектов
)

// RejectReason причина отказа
type RejectReason string

const (
	RejectInsufficientBalance RejectReason = "insufficient_balance"
	RejectDuplicateBooking    RejectReason = "duplicate_booking"
)

// CancelStatus результат отмены бронирования
type CancelStatus string

const (
	CancelOk               CancelStatus = "ok"
	CancelNotFound         CancelStatus = "not_found"
	CancelAlreadyCancelled CancelStatus = "already_cancelled"
)

// RescheduleStatus результат переноса бронирования
type RescheduleStatus string

const (
	RescheduleOk       RescheduleStatus = "ok"
	RescheduleSlotFull RescheduleStatus = "slot_full"
	RescheduleNotFound RescheduleStatus = "not_found"
)
