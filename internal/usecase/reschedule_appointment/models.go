package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на перенос/изменение записи
// nil поле означает "не менять". EndTime и DurationMinutes взаимно
// исключают друг друга: авторитетно ровно одно из них, второе
// вычисляется
type Request struct {
	AppointmentID int64 // ID записи

	// CustomerID для проверки владения записью; nil - проверка
	// не выполняется (запрос от администратора бизнеса)
	CustomerID *int64

	ActorUserID *int64 // ID пользователя, выполняющего изменение

	Date            *time.Time        // Новая дата
	StartTime       *types.TimeString // Новое время начала
	EndTime         *types.TimeString // Новое время окончания
	DurationMinutes *int              // Новая длительность в минутах
	StaffID         *int64            // Новый сотрудник
	ServiceID       *int64            // Новая услуга
	CustomerPhone   *string           // Новый телефон клиента
}

// Response модель ответа с обновленной записью
type Response struct {
	ID              int64
	BusinessID      int64
	CustomerID      int64
	StaffID         int64
	ServiceID       int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	CustomerPhone   *string
	ServiceName     string
	ServicePrice    float64
	IsFree          bool
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		CustomerID:      a.CustomerID,
		StaffID:         a.StaffID,
		ServiceID:       a.ServiceID,
		AppointmentDate: a.AppointmentDate,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		CustomerPhone:   a.CustomerPhone,
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		IsFree:          a.IsFree,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
