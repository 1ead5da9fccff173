package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Appointment запись клиента на услугу
type Appointment struct {
	ID              int64
	BusinessID      int64
	CustomerID      int64
	StaffID         int64
	ServiceID       int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	CustomerPhone *string

	// Денормализованные данные для истории
	ServiceName  string
	ServicePrice float64
	IsFree       bool
	CreatedBy    *int64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если запись все еще занимает свой слот
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCanceled && a.Status != StatusNoShow
}

// IsCanceled возвращает true, если запись отменена
func (a *Appointment) IsCanceled() bool {
	return a.Status == StatusCanceled
}

// DurationConsistent проверяет согласованность DurationMinutes и EndTime - StartTime
func (a *Appointment) DurationConsistent() bool {
	diff, err := a.EndTime.Sub(a.StartTime)
	if err != nil {
		return false
	}
	return diff == a.DurationMinutes
}

// Interval возвращает занимаемый записью интервал для проверок пересечений
func (a *Appointment) Interval() BookedInterval {
	return BookedInterval{
		Start:   a.StartTime,
		End:     a.EndTime,
		StaffID: a.StaffID,
	}
}

// BookedInterval проекция существующей записи для проверки пересечений
// Отдельно не хранится, строится из записей на день
type BookedInterval struct {
	Start   types.TimeString
	End     types.TimeString
	StaffID int64
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Граничащие интервалы (конец одного == начало другого) пересечением не считаются
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}

// IntervalFree проверяет, что интервал [start, end) не пересекается ни с
// одной из существующих записей, конец каждой из которых продлен на
// restTimeMinutes (буфер отдыха мастера). Эту же проверку обязана
// повторить транзакция создания/переноса перед коммитом
func IntervalFree(start, end types.TimeString, booked []BookedInterval, restTimeMinutes int) bool {
	startMin, err := start.Minutes()
	if err != nil {
		return false
	}
	endMin, err := end.Minutes()
	if err != nil {
		return false
	}

	for _, b := range booked {
		bStart, err := b.Start.Minutes()
		if err != nil {
			continue
		}
		bEnd, err := b.End.Minutes()
		if err != nil {
			continue
		}

		bEnd += restTimeMinutes
		if bEnd > 24*60 {
			bEnd = 24 * 60
		}

		// Полуоткрытые интервалы: [a,b) и [c,d) пересекаются <=> a < d && c < b
		if startMin < bEnd && bStart < endMin {
			return false
		}
	}

	return true
}

// AppointmentFieldUpdate частичное обновление полей записи при переносе
// nil поле означает "не менять". Применяется одним UPDATE - либо все
// изменения сохраняются, либо ни одно
type AppointmentFieldUpdate struct {
	AppointmentDate *time.Time
	StartTime       *types.TimeString
	EndTime         *types.TimeString
	DurationMinutes *int
	StaffID         *int64
	ServiceID       *int64
	ServiceName     *string
	ServicePrice    *float64
	IsFree          *bool
	CustomerPhone   *string
}

// IsEmpty возвращает true, если ни одно поле не задано
func (u *AppointmentFieldUpdate) IsEmpty() bool {
	return u.AppointmentDate == nil && u.StartTime == nil && u.EndTime == nil &&
		u.DurationMinutes == nil && u.StaffID == nil && u.ServiceID == nil &&
		u.ServiceName == nil && u.ServicePrice == nil && u.IsFree == nil &&
		u.CustomerPhone == nil
}

// CustomerAppointmentsFilter фильтр для получения записей клиента
type CustomerAppointmentsFilter struct {
	CustomerID int64               // Обязательный параметр
	StartDate  *time.Time          // Начало периода (опционально)
	EndDate    *time.Time          // Конец периода (опционально)
	Statuses   []AppointmentStatus // Фильтр по статусам (опционально)
}

// StaffAppointmentsFilter фильтр для получения записей бизнеса
type StaffAppointmentsFilter struct {
	BusinessID      int64              // Обязательный параметр
	StaffID         *int64             // Фильтр по сотруднику (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отмененные и no-show записи
}
