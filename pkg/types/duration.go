package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidDuration возвращается при некорректном формате строки длительности
	ErrInvalidDuration = errors.New("types: invalid duration format, expected HH:MM or HH:MM:SS")

	// ErrNegativeDuration возвращается при отрицательной длительности
	ErrNegativeDuration = errors.New("types: duration must not be negative")
)

// Duration длительность услуги в минутах
// Единственная точка парсинга строк вида "HH:MM" и "HH:MM:SS",
// приходящих из внешних систем. Секунды отбрасываются.
type Duration int

// ParseDuration парсит строку "HH:MM" или "HH:MM:SS" в Duration
func ParseDuration(s string) (Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
	}

	if hours < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegativeDuration, s)
	}

	return Duration(hours*60 + minutes), nil
}

// DurationFromMinutes создает Duration из количества минут
func DurationFromMinutes(minutes int) (Duration, error) {
	if minutes < 0 {
		return 0, ErrNegativeDuration
	}
	return Duration(minutes), nil
}

// Minutes возвращает длительность в минутах
func (d Duration) Minutes() int {
	return int(d)
}

// Format возвращает строковое представление "HH:MM"
func (d Duration) Format() string {
	return fmt.Sprintf("%02d:%02d", int(d)/60, int(d)%60)
}
