package transition_status

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	// или принадлежит другому клиенту
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidStatus возвращается при неизвестном целевом статусе
	ErrInvalidStatus = errors.New("invalid target status")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("status transition is not allowed")

	// ErrSlotNotAvailable возвращается, когда при возврате записи в работу
	// её интервал уже занят другой записью
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
