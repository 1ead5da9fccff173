package transition_status

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на переход статуса записи
type Request struct {
	AppointmentID int64  // ID записи
	TargetStatus  string // Целевой статус

	// Reason причина перехода; обязательна осмысленно только для отмены
	Reason *string

	// CustomerID для проверки владения записью; nil - проверка
	// не выполняется (запрос от администратора бизнеса)
	CustomerID *int64

	ActorUserID *int64 // ID пользователя, выполняющего переход
}

// Response модель ответа с записью после перехода
type Response struct {
	ID                 int64
	BusinessID         int64
	CustomerID         int64
	StaffID            int64
	ServiceID          int64
	AppointmentDate    time.Time
	StartTime          types.TimeString
	EndTime            types.TimeString
	DurationMinutes    int
	Status             string
	CancellationReason *string
	CancelledAt        *time.Time
	UpdatedAt          time.Time
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:                 a.ID,
		BusinessID:         a.BusinessID,
		CustomerID:         a.CustomerID,
		StaffID:            a.StaffID,
		ServiceID:          a.ServiceID,
		AppointmentDate:    a.AppointmentDate,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
