package check_conflict

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	findConflict "github.com/m04kA/SMC-AppointmentService/internal/usecase/find_conflict"
)

// ConflictResponse HTTP response model
type ConflictResponse struct {
	HasConflict bool                 `json:"hasConflict"`
	IsSameDay   bool                 `json:"isSameDay"`
	Degraded    bool                 `json:"degraded"`
	Appointment *ConflictAppointment `json:"appointment,omitempty"`
}

// ConflictAppointment ближайшая запись клиента
type ConflictAppointment struct {
	ID              int64  `json:"id"`
	BusinessID      int64  `json:"businessId"`
	StaffID         int64  `json:"staffId"`
	ServiceID       int64  `json:"serviceId"`
	ServiceName     string `json:"serviceName"`
	AppointmentDate string `json:"appointmentDate"`
	StartTime       string `json:"startTime"`
	Status          string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findConflict.Response) *ConflictResponse {
	out := &ConflictResponse{
		HasConflict: resp.HasConflict,
		IsSameDay:   resp.IsSameDay,
		Degraded:    resp.Degraded,
	}

	if resp.Appointment != nil {
		out.Appointment = &ConflictAppointment{
			ID:              resp.Appointment.ID,
			BusinessID:      resp.Appointment.BusinessID,
			StaffID:         resp.Appointment.StaffID,
			ServiceID:       resp.Appointment.ServiceID,
			ServiceName:     resp.Appointment.ServiceName,
			AppointmentDate: resp.Appointment.AppointmentDate.Format(domain.DateFormat),
			StartTime:       resp.Appointment.StartTime.String(),
			Status:          string(resp.Appointment.Status),
		}
	}

	return out
}
