package emergency_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса и возвращает, для кого запись
func validateRequest(req *Request) (domain.BookingFor, error) {
	if req.UserID <= 0 {
		return "", fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SubServiceID <= 0 {
		return "", fmt.Errorf("%w: subServiceID must be positive", ErrInvalidInput)
	}

	if req.Details != nil && utf8.RuneCountInString(*req.Details) > domain.MaxDetailsLength {
		return "", fmt.Errorf("%w: details must be at most %d characters", ErrInvalidInput, domain.MaxDetailsLength)
	}

	return parseBookingFor(req.BookingFor)
}

// parseBookingFor пустое значение означает запись для себя
func parseBookingFor(s string) (domain.BookingFor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(domain.BookingForSelf):
		return domain.BookingForSelf, nil
	case string(domain.BookingForOther), "someoneelse":
		return domain.BookingForOther, nil
	default:
		return "", fmt.Errorf("%w: bookingFor must be %q or %q", ErrInvalidInput, domain.BookingForSelf, domain.BookingForOther)
	}
}
