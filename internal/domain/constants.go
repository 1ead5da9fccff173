package domain

import "time"

// Default scheduling values
const (
	DefaultSlotStepMinutes = 20
	DefaultRestTimeMinutes = 0
	DefaultLookaheadDays   = 4
	DefaultWorkingDayStart = "09:00"
	DefaultWorkingDayEnd   = "20:00"
)

// DefaultClosedWeekday день недели, в который бизнес закрыт,
// если рабочие часы нигде не настроены
const DefaultClosedWeekday = time.Saturday

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 часов
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 120
	MinLookaheadDays            = 1
	MaxLookaheadDays            = 30
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxStatusChangeReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, при которых запись не занимает слот
// Используется при подсчете пересечений для доступности
var InactiveStatuses = []AppointmentStatus{
	StatusCanceled,
	StatusNoShow,
}

// ActiveStatuses статусы, при которых запись занимает слот
var ActiveStatuses = []AppointmentStatus{
	StatusBooked,
	StatusConfirmed,
	StatusCompleted,
}

// ConflictStatuses статусы, учитываемые при поиске конфликтующих записей клиента
var ConflictStatuses = []AppointmentStatus{
	StatusBooked,
	StatusConfirmed,
}
