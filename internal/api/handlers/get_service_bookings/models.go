package get_service_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задаёт один день, startDate/endDate - период; date имеет приоритет.
func ToServiceRequest(serviceID, userID int64, isAdmin bool, query url.Values) (*models.GetServiceBookingsRequest, error) {
	req := &models.GetServiceBookingsRequest{
		UserID:    userID,
		IsAdmin:   isAdmin,
		ServiceID: serviceID,
	}

	if s := query.Get("subServiceId"); s != "" {
		subServiceID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		req.SubServiceID = &subServiceID
	}

	if s := query.Get("status"); s != "" {
		req.Status = &s
	}

	if s := query.Get("date"); s != "" {
		date, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
		return req, nil
	}

	if s := query.Get("startDate"); s != "" {
		start, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, err
		}
		req.StartDate = &start
	}

	if s := query.Get("endDate"); s != "" {
		end, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, err
		}
		req.EndDate = &end
	}

	return req, nil
}
