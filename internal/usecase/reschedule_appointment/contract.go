package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error)
	UpdateFields(ctx context.Context, id int64, update domain.AppointmentFieldUpdate) error
}

// LogRepository интерфейс репозитория аудит-лога записей
type LogRepository interface {
	// AppendBatch пишет пачку записей лога одним INSERT, все записи
	// получают одинаковый created_at
	AppendBatch(ctx context.Context, entries []*domain.AppointmentLogEntry) error
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*profileservice.Business, error)
	GetStaff(ctx context.Context, businessID, staffID int64) (*profileservice.Staff, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*profileservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
