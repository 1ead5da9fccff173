package get_customer_appointments

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	customerID int64,
	startDateStr string,
	endDateStr string,
	statusesStr string,
) (*models.GetCustomerAppointmentsRequest, error) {
	req := &models.GetCustomerAppointmentsRequest{
		CustomerID: customerID,
	}

	// Парсим startDate если указана
	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	// Парсим endDate если указана
	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	// Парсим statuses если указаны (через запятую)
	if statusesStr != "" {
		for _, s := range strings.Split(statusesStr, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Statuses = append(req.Statuses, s)
			}
		}
	}

	return req, nil
}
