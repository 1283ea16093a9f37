package domain

import "time"

// Service организация, в которую записываются пользователи (больница, ресторан, госучреждение)
type Service struct {
	ID          int64
	Name        string
	Category    string
	Description string
	Location    string
	AdminIDs    []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdmin возвращает true, если пользователь администрирует услугу
func (s *Service) IsAdmin(userID int64) bool {
	for _, id := range s.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SubService конкретное направление внутри услуги (например, приём терапевта)
type SubService struct {
	ID        int64
	ServiceID int64
	Name      string
	TokenFee  int64 // стоимость записи во внутренних токенах, >= 0
	CreatedAt time.Time
	UpdatedAt time.Time
}
