package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByStaffAndDate получает активные записи сотрудника на дату
	GetByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*profileservice.Business, error)
	GetStaff(ctx context.Context, businessID, staffID int64) (*profileservice.Staff, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*profileservice.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
// Единственный источник "сейчас" в расчете слотов - скрытых чтений
// часов внутри алгоритма нет, выдача детерминирована по входам
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
