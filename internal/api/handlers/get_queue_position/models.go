package get_queue_position

import (
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	queuePosition "github.com/m04kA/EffiQ-BookingService/internal/usecase/queue_position"
)

// QueuePositionResponse HTTP response model
type QueuePositionResponse struct {
	BookingID            int64  `json:"bookingId"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
	Status               string `json:"status"`
	Position             int    `json:"position"`
	Ahead                int    `json:"ahead"`
	Total                int    `json:"total"`
	EstimatedWaitMinutes int    `json:"estimatedWaitMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *queuePosition.Response) *QueuePositionResponse {
	return &QueuePositionResponse{
		BookingID:            resp.BookingID,
		Date:                 resp.Date.Format(domain.DateFormat),
		Time:                 resp.Time.String(),
		Status:               resp.Status,
		Position:             resp.Position,
		Ahead:                resp.Ahead,
		Total:                resp.Total,
		EstimatedWaitMinutes: resp.EstimatedWaitMinutes,
	}
}
