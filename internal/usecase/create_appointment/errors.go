package create_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrStaffInactive возвращается для неактивного сотрудника
	ErrStaffInactive = errors.New("staff member is inactive")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrStaffNotWorking возвращается, когда сотрудник не работает в эту дату
	ErrStaffNotWorking = errors.New("staff member is not working on this date")

	// ErrOutsideWorkingHours возвращается, когда интервал записи выходит за рабочее окно
	ErrOutsideWorkingHours = errors.New("appointment is outside working hours")

	// ErrSlotNotAvailable возвращается, когда интервал занят или пересекает перерыв
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrConflictingAppointmentNotFound возвращается, когда отменяемая
	// конфликтующая запись не найдена или принадлежит другому клиенту
	ErrConflictingAppointmentNotFound = errors.New("conflicting appointment not found")

	// ErrIdempotencyConflict возвращается, когда запрос с тем же
	// Idempotency-Key еще выполняется
	ErrIdempotencyConflict = errors.New("request with this idempotency key is in progress")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
