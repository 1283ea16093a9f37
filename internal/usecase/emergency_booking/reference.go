package emergency_booking

import (
	"strings"

	"github.com/google/uuid"
)

// referenceLength длина случайной части номера
const referenceLength = 8

// UUIDReferenceGenerator номер вида EMG-1A2B3C4D на основе UUID
type UUIDReferenceGenerator struct{}

// Generate генерирует номер экстренной записи
func (UUIDReferenceGenerator) Generate() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "EMG-" + strings.ToUpper(id[:referenceLength])
}
