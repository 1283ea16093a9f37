package set_slot_capacity

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/slots/models"
)

// SetCapacityRequest HTTP request model
type SetCapacityRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Capacity int    `json:"capacity"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetCapacityRequest) ToServiceRequest(userID int64, isAdmin bool, subServiceID int64) (*models.SetCapacityRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.SetCapacityRequest{
		SlotRequest: models.SlotRequest{
			UserID:       userID,
			IsAdmin:      isAdmin,
			SubServiceID: subServiceID,
			Date:         date,
			Time:         r.Time,
		},
		Capacity: r.Capacity,
	}, nil
}
