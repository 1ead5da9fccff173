package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockAppointmentRepo struct {
	byID         map[int64]*domain.Appointment
	appointments []*domain.Appointment

	customerFilter *domain.CustomerAppointmentsFilter
	businessFilter *domain.StaffAppointmentsFilter
	err            error
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if m.err != nil {
		return nil, m.err
	}
	appt, ok := m.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (m *mockAppointmentRepo) GetByCustomerWithFilter(_ context.Context, filter domain.CustomerAppointmentsFilter) ([]*domain.Appointment, error) {
	m.customerFilter = &filter
	return m.appointments, m.err
}

func (m *mockAppointmentRepo) GetByBusinessWithFilter(_ context.Context, filter domain.StaffAppointmentsFilter) ([]*domain.Appointment, error) {
	m.businessFilter = &filter
	return m.appointments, m.err
}

type mockLogRepo struct {
	entries []*domain.AppointmentLogEntry
	err     error
}

func (m *mockLogRepo) ListByAppointment(_ context.Context, _ int64) ([]*domain.AppointmentLogEntry, error) {
	return m.entries, m.err
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              11,
		BusinessID:      1,
		CustomerID:      7,
		StaffID:         2,
		ServiceID:       3,
		AppointmentDate: testDate,
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusBooked,
		ServiceName:     "Стрижка",
		ServicePrice:    1500.0,
	}
}

func newService(repo *mockAppointmentRepo, logRepo *mockLogRepo) *Service {
	if logRepo == nil {
		logRepo = &mockLogRepo{}
	}
	return NewService(repo, logRepo, noopLogger{})
}

func ptrInt64(v int64) *int64 { return &v }

func TestGetByID_Success(t *testing.T) {
	repo := &mockAppointmentRepo{byID: map[int64]*domain.Appointment{11: testAppointment()}}
	svc := newService(repo, nil)

	resp, err := svc.GetByID(context.Background(), 11, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "2025-06-12", resp.AppointmentDate)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "booked", resp.Status)
	assert.Equal(t, "Стрижка", resp.ServiceName)
}

func TestGetByID_OwnerCheck(t *testing.T) {
	repo := &mockAppointmentRepo{byID: map[int64]*domain.Appointment{11: testAppointment()}}
	svc := newService(repo, nil)

	// Владелец видит свою запись
	_, err := svc.GetByID(context.Background(), 11, ptrInt64(7))
	require.NoError(t, err)

	// Чужая запись выглядит как отсутствующая
	_, err = svc.GetByID(context.Background(), 11, ptrInt64(99))
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	svc := newService(repo, nil)

	_, err := svc.GetByID(context.Background(), 999, nil)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_InvalidID(t *testing.T) {
	svc := newService(&mockAppointmentRepo{}, nil)

	_, err := svc.GetByID(context.Background(), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetByID_RepoError(t *testing.T) {
	repo := &mockAppointmentRepo{err: errors.New("connection refused")}
	svc := newService(repo, nil)

	_, err := svc.GetByID(context.Background(), 11, nil)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetCustomerAppointments_FilterConversion(t *testing.T) {
	repo := &mockAppointmentRepo{appointments: []*domain.Appointment{testAppointment()}}
	svc := newService(repo, nil)

	start := testDate
	end := testDate.AddDate(0, 0, 7)
	resp, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 7,
		StartDate:  &start,
		EndDate:    &end,
		Statuses:   []string{"booked", "confirmed"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)

	require.NotNil(t, repo.customerFilter)
	assert.Equal(t, int64(7), repo.customerFilter.CustomerID)
	assert.Equal(t,
		[]domain.AppointmentStatus{domain.StatusBooked, domain.StatusConfirmed},
		repo.customerFilter.Statuses)
}

func TestGetCustomerAppointments_InvalidStatus(t *testing.T) {
	svc := newService(&mockAppointmentRepo{}, nil)

	_, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 7,
		Statuses:   []string{"unknown"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCustomerAppointments_InvalidCustomerID(t *testing.T) {
	svc := newService(&mockAppointmentRepo{}, nil)

	_, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{CustomerID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBusinessAppointments_FilterConversion(t *testing.T) {
	repo := &mockAppointmentRepo{appointments: []*domain.Appointment{testAppointment()}}
	svc := newService(repo, nil)

	status := "confirmed"
	resp, err := svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		BusinessID:      1,
		StaffID:         ptrInt64(2),
		Status:          &status,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)

	require.NotNil(t, repo.businessFilter)
	assert.Equal(t, int64(1), repo.businessFilter.BusinessID)
	require.NotNil(t, repo.businessFilter.StaffID)
	assert.Equal(t, int64(2), *repo.businessFilter.StaffID)
	require.NotNil(t, repo.businessFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.businessFilter.Status)
	assert.True(t, repo.businessFilter.IncludeInactive)
}

func TestGetBusinessAppointments_InvalidStatus(t *testing.T) {
	svc := newService(&mockAppointmentRepo{}, nil)

	status := "deleted"
	_, err := svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		BusinessID: 1,
		Status:     &status,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetLogs_Success(t *testing.T) {
	actor := int64(7)
	repo := &mockAppointmentRepo{byID: map[int64]*domain.Appointment{11: testAppointment()}}
	logRepo := &mockLogRepo{entries: []*domain.AppointmentLogEntry{
		{ID: 2, AppointmentID: 11, ActorUserID: &actor, Action: domain.LogActionTimeChange,
			Details: map[string]interface{}{"old": "2025-06-12 10:00", "new": "2025-06-12 15:00"}},
		{ID: 1, AppointmentID: 11, Action: domain.LogActionCreate},
	}}
	svc := newService(repo, logRepo)

	resp, err := svc.GetLogs(context.Background(), 11, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(11), resp.AppointmentID)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "time_change", resp.Entries[0].Action)
	assert.Equal(t, "create", resp.Entries[1].Action)
}

func TestGetLogs_OwnerCheck(t *testing.T) {
	repo := &mockAppointmentRepo{byID: map[int64]*domain.Appointment{11: testAppointment()}}
	svc := newService(repo, &mockLogRepo{})

	_, err := svc.GetLogs(context.Background(), 11, ptrInt64(99))
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetLogs_NotFound(t *testing.T) {
	repo := &mockAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	svc := newService(repo, &mockLogRepo{})

	_, err := svc.GetLogs(context.Background(), 999, nil)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetLogs_LogRepoError(t *testing.T) {
	repo := &mockAppointmentRepo{byID: map[int64]*domain.Appointment{11: testAppointment()}}
	svc := newService(repo, &mockLogRepo{err: errors.New("query failed")})

	_, err := svc.GetLogs(context.Background(), 11, nil)
	assert.ErrorIs(t, err, ErrInternal)
}
