package transition_status

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	transitionStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/transition_status"
)

// TransitionStatusRequest HTTP request model
type TransitionStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// AppointmentStatusResponse HTTP response model
type AppointmentStatusResponse struct {
	ID                 int64   `json:"id"`
	BusinessID         int64   `json:"businessId"`
	CustomerID         int64   `json:"customerId"`
	StaffID            int64   `json:"staffId"`
	AppointmentDate    string  `json:"appointmentDate"`
	StartTime          string  `json:"startTime"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionStatus.Response) *AppointmentStatusResponse {
	out := &AppointmentStatusResponse{
		ID:                 resp.ID,
		BusinessID:         resp.BusinessID,
		CustomerID:         resp.CustomerID,
		StaffID:            resp.StaffID,
		AppointmentDate:    resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:          resp.StartTime.String(),
		Status:             resp.Status,
		CancellationReason: resp.CancellationReason,
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.CancelledAt != nil {
		cancelledAt := resp.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &cancelledAt
	}

	return out
}
