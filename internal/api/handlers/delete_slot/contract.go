package delete_slot

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/slots/models"
)

type SlotService interface {
	DeleteSlot(ctx context.Context, req *models.DeleteSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
