package find_conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error

	gotFilter domain.CustomerAppointmentsFilter
}

func (m *mockAppointmentRepo) GetByCustomerWithFilter(_ context.Context, filter domain.CustomerAppointmentsFilter) ([]*domain.Appointment, error) {
	m.gotFilter = filter
	return m.appointments, m.err
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func appointmentOn(id int64, date time.Time, start string) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		CustomerID:      7,
		AppointmentDate: date,
		StartTime:       types.TimeString(start),
		Status:          domain.StatusBooked,
	}
}

func TestExecute_NoAppointments(t *testing.T) {
	repo := &mockAppointmentRepo{}
	uc := NewUseCase(repo, &fixedTime{now: now}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{CustomerID: 7})
	require.NoError(t, err)

	assert.False(t, resp.HasConflict)
	assert.Nil(t, resp.Appointment)
	assert.False(t, resp.Degraded)
}

func TestExecute_SoonestAppointmentReturned(t *testing.T) {
	tomorrow := now.AddDate(0, 0, 1)
	dayAfter := now.AddDate(0, 0, 2)

	// Репозиторий отдает записи по возрастанию времени начала
	repo := &mockAppointmentRepo{
		appointments: []*domain.Appointment{
			appointmentOn(1, tomorrow, "10:00"),
			appointmentOn(2, dayAfter, "09:00"),
		},
	}
	uc := NewUseCase(repo, &fixedTime{now: now}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{CustomerID: 7})
	require.NoError(t, err)

	require.True(t, resp.HasConflict)
	assert.Equal(t, int64(1), resp.Appointment.ID)
	assert.False(t, resp.IsSameDay)
}

func TestExecute_TodayStartedAppointmentSkipped(t *testing.T) {
	tomorrow := now.AddDate(0, 0, 1)

	repo := &mockAppointmentRepo{
		appointments: []*domain.Appointment{
			// Сегодняшняя запись уже началась (10:00 < 12:00) - не конфликт
			appointmentOn(1, now, "10:00"),
			appointmentOn(2, tomorrow, "09:00"),
		},
	}
	uc := NewUseCase(repo, &fixedTime{now: now}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{CustomerID: 7})
	require.NoError(t, err)

	require.True(t, resp.HasConflict)
	assert.Equal(t, int64(2), resp.Appointment.ID)
}

func TestExecute_TodayUpcomingAppointmentCounts(t *testing.T) {
	repo := &mockAppointmentRepo{
		appointments: []*domain.Appointment{
			appointmentOn(1, now, "15:00"),
		},
	}
	uc := NewUseCase(repo, &fixedTime{now: now}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{CustomerID: 7})
	require.NoError(t, err)

	require.True(t, resp.HasConflict)
	assert.Equal(t, int64(1), resp.Appointment.ID)
}

func TestExecute_IsSameDayFlag(t *testing.T) {
	tomorrow := now.AddDate(0, 0, 1)
	repo := &mockAppointmentRepo{
		appointments: []*domain.Appointment{
			appointmentOn(1, tomorrow, "10:00"),
		},
	}
	uc := NewUseCase(repo, &fixedTime{now: now}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{CustomerID: 7, ProposedDate: tomorrow})
	require.NoError(t, err)
	require.True(t, resp.HasConflict)
	assert.True(t, resp.IsSameDay)

	resp, err = uc.Execute(context.Background(), &Request{CustomerID: 7, ProposedDate: now.AddDate(0, 0, 3)})
	require.NoError(t, err)
	require.True(t, resp.HasConflict)
	assert.False(t, resp.IsSameDay)
}

func TestExecute_DegradesOnRepoError(t *testing.T) {
	repo := &mockAppointmentRepo{err: errors.New("connection refused")}
	uc := NewUseCase(repo, &fixedTime{now: now}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{CustomerID: 7})
	require.NoError(t, err)

	assert.False(t, resp.HasConflict)
	assert.True(t, resp.Degraded)
}

func TestExecute_LookaheadWindow(t *testing.T) {
	repo := &mockAppointmentRepo{}
	uc := NewUseCase(repo, &fixedTime{now: now}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{CustomerID: 7, LookaheadDays: 10})
	require.NoError(t, err)

	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, repo.gotFilter.StartDate)
	require.NotNil(t, repo.gotFilter.EndDate)
	assert.Equal(t, today, *repo.gotFilter.StartDate)
	assert.Equal(t, today.AddDate(0, 0, 10), *repo.gotFilter.EndDate)
	assert.Equal(t, domain.ConflictStatuses, repo.gotFilter.Statuses)
}

func TestExecute_DefaultLookahead(t *testing.T) {
	repo := &mockAppointmentRepo{}
	uc := NewUseCase(repo, &fixedTime{now: now}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{CustomerID: 7})
	require.NoError(t, err)

	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today.AddDate(0, 0, domain.DefaultLookaheadDays), *repo.gotFilter.EndDate)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&mockAppointmentRepo{}, &fixedTime{now: now}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{CustomerID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{CustomerID: 7, LookaheadDays: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
