package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
// Все поля опциональны; endTime и durationMinutes взаимно исключают друг друга
type RescheduleAppointmentRequest struct {
	Date            *string `json:"date,omitempty"`      // "2026-03-12"
	StartTime       *string `json:"startTime,omitempty"` // "10:00"
	EndTime         *string `json:"endTime,omitempty"`   // "11:30"
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	StaffID         *int64  `json:"staffId,omitempty"`
	ServiceID       *int64  `json:"serviceId,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`

	// AsBusiness true отключает проверку владения записью
	// (изменение от имени администратора бизнеса)
	AsBusiness bool `json:"asBusiness,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"businessId"`
	CustomerID      int64   `json:"customerId"`
	StaffID         int64   `json:"staffId"`
	ServiceID       int64   `json:"serviceId"`
	AppointmentDate string  `json:"appointmentDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	IsFree          bool    `json:"isFree"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID, userID int64) (*rescheduleAppointment.Request, error) {
	req := &rescheduleAppointment.Request{
		AppointmentID:   appointmentID,
		ActorUserID:     &userID,
		DurationMinutes: r.DurationMinutes,
		StaffID:         r.StaffID,
		ServiceID:       r.ServiceID,
		CustomerPhone:   r.CustomerPhone,
	}

	if !r.AsBusiness {
		req.CustomerID = &userID
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	if r.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		CustomerID:      resp.CustomerID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		AppointmentDate: resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		CustomerPhone:   resp.CustomerPhone,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		IsFree:          resp.IsFree,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
