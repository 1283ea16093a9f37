package domain

// Значения по умолчанию
const (
	DefaultSlotCapacity      = 3   // вместимость слота, если администратор не указал другую
	DefaultPromoteBatch      = 3   // сколько пользователей из очереди уведомлять об освободившемся слоте
	DefaultEmergencyFee      = 100 // стоимость экстренной записи для себя
	DefaultAvgServiceMinutes = 15  // среднее время обслуживания одного человека в очереди
)

// Ограничения бизнес-валидации
const (
	MinSlotCapacity  = 1
	MaxSlotCapacity  = 1000
	MaxTokenFee      = 1_000_000
	MaxTopUpAmount   = 1_000_000
	MaxNameLength    = 200
	MaxDetailsLength = 1000
	MaxListDateRange = 366 // дней
)

// Форматы
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Роли пользователей, приходящие от провайдера идентификации
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
