package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus возвращается при парсинге неизвестного статуса
var ErrUnknownStatus = errors.New("unknown appointment status")

// AppointmentStatus статус жизненного цикла записи
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
	StatusCanceled  AppointmentStatus = "canceled"
)

// allowedTransitions таблица разрешенных переходов статусов
// canceled - терминальный статус, из него переходов нет
// completed/no_show -> booked - явное ручное переоткрытие записи
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusBooked:    {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCanceled},
	StatusCompleted: {StatusBooked},
	StatusNoShow:    {StatusBooked},
	StatusCanceled:  {},
}

// IsValid проверяет, что статус - один из известных
func (s AppointmentStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal возвращает true, если из статуса нет переходов
func (s AppointmentStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo проверяет, разрешен ли переход s -> target
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseAppointmentStatus конвертирует строку в AppointmentStatus с валидацией
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}
