package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	// или принадлежит другому клиенту
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrNotReschedulable возвращается для записей в статусах,
	// не допускающих перенос
	ErrNotReschedulable = errors.New("appointment cannot be rescheduled in its current status")

	// ErrStaffNotFound возвращается, когда новый сотрудник не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrStaffInactive возвращается для неактивного сотрудника
	ErrStaffInactive = errors.New("staff member is inactive")

	// ErrServiceNotFound возвращается, когда новая услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrStaffNotWorking возвращается, когда сотрудник не работает в новую дату
	ErrStaffNotWorking = errors.New("staff member is not working on this date")

	// ErrOutsideWorkingHours возвращается, когда новый интервал выходит за рабочее окно
	ErrOutsideWorkingHours = errors.New("appointment is outside working hours")

	// ErrSlotNotAvailable возвращается, когда новый интервал занят или пересекает перерыв
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrAmbiguousDuration возвращается, когда заданы одновременно
	// endTime и durationMinutes
	ErrAmbiguousDuration = errors.New("endTime and durationMinutes are mutually exclusive")

	// ErrNoChanges возвращается при пустом наборе изменений
	ErrNoChanges = errors.New("no changes requested")

	// ErrInvalidDate возвращается при новой дате записи в прошлом
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
