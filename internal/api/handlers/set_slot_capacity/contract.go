package set_slot_capacity

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/slots/models"
)

type SlotService interface {
	SetCapacity(ctx context.Context, req *models.SetCapacityRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
