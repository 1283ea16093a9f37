package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeLabel возвращается при некорректном формате метки времени
	ErrInvalidTimeLabel = errors.New("invalid time label format")
)

// unparsableMinutes позиция для меток, которые не удалось разобрать (всегда в конце)
const unparsableMinutes = math.MaxInt32

// TimeLabel метка времени слота в том виде, в котором её задал администратор.
// Поддерживаются 12-часовой ("9:00 AM", "12:30 PM", "9 AM") и 24-часовой ("14:00") форматы.
// Сама метка является частью ключа слота, поэтому хранится как есть (после нормализации пробелов).
type TimeLabel string

// NewTimeLabel нормализует и валидирует метку времени
func NewTimeLabel(s string) (TimeLabel, error) {
	label := normalize(s)
	if label == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTimeLabel)
	}
	if _, err := parseMinutes(label); err != nil {
		return "", err
	}
	return TimeLabel(label), nil
}

// MustTimeLabel как NewTimeLabel, но паникует при ошибке (для тестов и констант)
func MustTimeLabel(s string) TimeLabel {
	label, err := NewTimeLabel(s)
	if err != nil {
		panic(err)
	}
	return label
}

// LabelFromTime метка в 12-часовом формате для момента времени ("3:04 PM")
func LabelFromTime(t time.Time) TimeLabel {
	return TimeLabel(t.Format("3:04 PM"))
}

// String возвращает строковое представление
func (t TimeLabel) String() string {
	return string(t)
}

// IsZero возвращает true, если метка не задана
func (t TimeLabel) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Minutes возвращает количество минут от полуночи
func (t TimeLabel) Minutes() (int, error) {
	return parseMinutes(normalize(string(t)))
}

// sortKey ключ сортировки: минуты от полуночи, нераспознанные метки уходят в конец
func (t TimeLabel) sortKey() int {
	m, err := t.Minutes()
	if err != nil {
		return unparsableMinutes
	}
	return m
}

// At возвращает момент времени слота для указанной даты в заданной зоне
func (t TimeLabel) At(date time.Time, loc *time.Location) (time.Time, error) {
	m, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, loc), nil
}

// Value реализует driver.Valuer
func (t TimeLabel) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan реализует sql.Scanner
func (t *TimeLabel) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*t = TimeLabel(v)
	case []byte:
		*t = TimeLabel(string(v))
	case nil:
		*t = ""
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeLabel, src)
	}
	return nil
}

// SortTimeLabels сортирует метки по времени суток.
// Сортировка стабильная: метки с одинаковым временем сохраняют исходный порядок.
func SortTimeLabels(labels []TimeLabel) {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].sortKey() < labels[j].sortKey()
	})
}

// LaterThan возвращает метки, которые идут строго после current в отсортированном порядке.
// Если current отсутствует в списке, возвращаются метки с большим временем.
func LaterThan(sorted []TimeLabel, current TimeLabel) []TimeLabel {
	for i, label := range sorted {
		if label == current {
			return append([]TimeLabel(nil), sorted[i+1:]...)
		}
	}

	key := current.sortKey()
	result := make([]TimeLabel, 0, len(sorted))
	for _, label := range sorted {
		if label.sortKey() > key {
			result = append(result, label)
		}
	}
	return result
}

func normalize(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 2 {
		fields[1] = strings.ToUpper(fields[1])
	}
	return strings.Join(fields, " ")
}

func parseMinutes(label string) (int, error) {
	parts := strings.Split(label, " ")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	clock := strings.Split(parts[0], ":")
	if len(clock) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	// strconv.Atoi принимает знак, поэтому допускаем только цифры
	if !isDigits(clock[0]) || (len(clock) == 2 && !isDigits(clock[1])) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	hours, err := strconv.Atoi(clock[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	minutes := 0
	if len(clock) == 2 {
		minutes, err = strconv.Atoi(clock[1])
		if err != nil || len(clock[1]) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
		}
	}
	if minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	if len(parts) == 1 {
		if hours < 0 || hours > 23 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
		}
		return hours*60 + minutes, nil
	}

	if hours < 1 || hours > 12 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	switch parts[1] {
	case "AM":
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours != 12 {
			hours += 12
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	return hours*60 + minutes, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
