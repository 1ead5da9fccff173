package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	BusinessID int64            // ID бизнеса
	CustomerID int64            // ID клиента (из контекста авторизации)
	StaffID    int64            // ID сотрудника
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи в локальном времени бизнеса
	StartTime  types.TimeString // Время начала "HH:MM"

	CustomerPhone *string // Телефон клиента (опционально)
	Notes         *string // Заметки (опционально)
	CreatedBy     *int64  // ID пользователя, создавшего запись (клиент или админ)

	// CancelConflictingID ID существующей записи клиента, которую нужно
	// отменить в той же транзакции (сценарий "отменить и перезаписаться")
	CancelConflictingID *int64

	// IdempotencyKey ключ идемпотентности запроса (опционально)
	IdempotencyKey *string
}

// Response модель ответа с созданной записью
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
