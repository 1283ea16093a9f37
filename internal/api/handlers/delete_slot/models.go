package delete_slot

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/slots/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров date, time и force
func ToServiceRequest(userID int64, isAdmin bool, subServiceID int64, query url.Values) (*models.DeleteSlotRequest, error) {
	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		return nil, err
	}

	force := false
	if s := query.Get("force"); s != "" {
		if force, err = strconv.ParseBool(s); err != nil {
			return nil, err
		}
	}

	return &models.DeleteSlotRequest{
		SlotRequest: models.SlotRequest{
			UserID:       userID,
			IsAdmin:      isAdmin,
			SubServiceID: subServiceID,
			Date:         date,
			Time:         query.Get("time"),
		},
		Force: force,
	}, nil
}
