package add_slot

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/slots/models"
)

// AddSlotRequest HTTP request model
type AddSlotRequest struct {
	Date     string `json:"date"` // "2025-10-15"
	Time     string `json:"time"` // "9:00 AM"
	Capacity *int   `json:"capacity,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddSlotRequest) ToServiceRequest(userID int64, isAdmin bool, subServiceID int64) (*models.AddSlotRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.AddSlotRequest{
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
