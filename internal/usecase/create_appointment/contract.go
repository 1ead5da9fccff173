package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// LogRepository интерфейс репозитория аудит-лога записей
type LogRepository interface {
	Append(ctx context.Context, entry *domain.AppointmentLogEntry) error
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

// EventPublisher интерфейс публикации событий записей
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, appointmentID, businessID, customerID, staffID int64, occurredAt time.Time) error
}

// IdempotencyStore интерфейс хранилища ключей идемпотентности.
// nil store отключает идемпотентность
type IdempotencyStore interface {
	Begin(ctx context.Context, key string) (int64, error)
	Complete(ctx context.Context, key string, appointmentID int64) error
	Release(ctx context.Context, key string) error
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
