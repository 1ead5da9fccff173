package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID int64  `json:"businessId"`
	StaffID    int64  `json:"staffId"`
	ServiceID  int64  `json:"serviceId"`
	Date       string `json:"date"`      // "2026-03-12"
	StartTime  string `json:"startTime"` // "10:00"

	// CustomerID клиент, для которого создается запись; 0 - сам
	// авторизованный пользователь (администратор может записать клиента)
	CustomerID int64 `json:"customerId,omitempty"`

	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	// CancelConflictingID запись клиента, которую нужно отменить
	// в той же транзакции
	CancelConflictingID *int64 `json:"cancelConflictingId,omitempty"`
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
// userID - авторизованный пользователь, idempotencyKey - значение
// заголовка Idempotency-Key (пустая строка, если не передан)
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64, idempotencyKey string) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	customerID := r.CustomerID
	if customerID == 0 {
		customerID = userID
	}

	req := &createAppointment.Request{
		BusinessID:          r.BusinessID,
		CustomerID:          customerID,
		StaffID:             r.StaffID,
		ServiceID:           r.ServiceID,
		Date:                date,
		StartTime:           startTime,
		CustomerPhone:       r.CustomerPhone,
		Notes:               r.Notes,
		CreatedBy:           &userID,
		CancelConflictingID: r.CancelConflictingID,
	}

	if idempotencyKey != "" {
		req.IdempotencyKey = &idempotencyKey
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
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
