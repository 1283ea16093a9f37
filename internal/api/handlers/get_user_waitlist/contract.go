package get_user_waitlist

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetUserWaitlist(ctx context.Context, requesterID, userID int64, isAdmin bool) (*models.WaitlistListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
