package transition_status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockAppointmentRepo struct {
	appointment *domain.Appointment
	getErr      error

	staffAppointments []*domain.Appointment

	updatedStatus *domain.AppointmentStatus
	cancelReason  *string
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.appointment == nil || m.appointment.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	a := *m.appointment
	return &a, nil
}

func (m *mockAppointmentRepo) GetByStaffAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return m.staffAppointments, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, _ int64, status domain.AppointmentStatus) error {
	m.updatedStatus = &status
	m.appointment.Status = status
	return nil
}

func (m *mockAppointmentRepo) Cancel(_ context.Context, _ int64, reason string) error {
	m.cancelReason = &reason
	m.appointment.Status = domain.StatusCanceled
	m.appointment.CancellationReason = &reason
	return nil
}

type mockLogRepo struct {
	entries []*domain.AppointmentLogEntry
	err     error
}

func (m *mockLogRepo) Append(_ context.Context, entry *domain.AppointmentLogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

type mockProfileClient struct {
	business *profileservice.Business
	err      error
}

func (m *mockProfileClient) GetBusiness(_ context.Context, _ int64) (*profileservice.Business, error) {
	return m.business, m.err
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockPublisher struct {
	events []string
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, eventType string, _, _, _, _ int64, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, eventType)
	return nil
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

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func testAppointment(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              11,
		BusinessID:      1,
		CustomerID:      7,
		StaffID:         2,
		ServiceID:       3,
		AppointmentDate: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		DurationMinutes: 60,
		Status:          status,
	}
}

type env struct {
	repo      *mockAppointmentRepo
	logRepo   *mockLogRepo
	profiles  *mockProfileClient
	tx        *fakeTxManager
	publisher *mockPublisher
	uc        *UseCase
}

func newEnv(status domain.AppointmentStatus) *env {
	e := &env{
		repo:      &mockAppointmentRepo{appointment: testAppointment(status)},
		logRepo:   &mockLogRepo{},
		profiles:  &mockProfileClient{business: &profileservice.Business{ID: 1, RestTimeMinutes: 15}},
		tx:        &fakeTxManager{},
		publisher: &mockPublisher{},
	}
	e.uc = NewUseCase(e.repo, e.logRepo, e.profiles, e.tx, e.publisher, &fixedTime{now: testNow}, noopLogger{})
	return e
}

func TestExecute_Confirm(t *testing.T) {
	e := newEnv(domain.StatusBooked)

	resp, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	require.NotNil(t, e.repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *e.repo.updatedStatus)
	assert.Equal(t, 1, e.tx.calls)

	// Один лог status_change со старым и новым статусом
	require.Len(t, e.logRepo.entries, 1)
	entry := e.logRepo.entries[0]
	assert.Equal(t, domain.LogActionStatusChange, entry.Action)
	assert.Equal(t, "booked", entry.Details["old_status"])
	assert.Equal(t, "confirmed", entry.Details["new_status"])

	// confirmed не интересен внешним потребителям
	assert.Empty(t, e.publisher.events)
}

func TestExecute_CompletePublishesEvent(t *testing.T) {
	e := newEnv(domain.StatusConfirmed)

	resp, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "completed",
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, []string{events.EventAppointmentCompleted}, e.publisher.events)
}

func TestExecute_CancelUsesReason(t *testing.T) {
	e := newEnv(domain.StatusConfirmed)
	reason := "клиент попросил отменить"

	resp, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "canceled", Reason: &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, "canceled", resp.Status)
	require.NotNil(t, e.repo.cancelReason)
	assert.Equal(t, reason, *e.repo.cancelReason)
	assert.Equal(t, []string{events.EventAppointmentCanceled}, e.publisher.events)

	require.Len(t, e.logRepo.entries, 1)
	assert.Equal(t, reason, e.logRepo.entries[0].Details["reason"])
}

func TestExecute_InvalidTransition(t *testing.T) {
	e := newEnv(domain.StatusBooked)

	_, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "completed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, e.logRepo.entries)
	assert.Empty(t, e.publisher.events)
}

func TestExecute_CanceledIsTerminal(t *testing.T) {
	e := newEnv(domain.StatusCanceled)

	for _, target := range []string{"booked", "confirmed", "completed", "no_show"} {
		_, err := e.uc.Execute(context.Background(), &Request{
			AppointmentID: 11, TargetStatus: target,
		})
		assert.ErrorIs(t, err, ErrInvalidTransition, "target=%s", target)
	}
}

func TestExecute_UnknownStatus(t *testing.T) {
	e := newEnv(domain.StatusBooked)

	_, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestExecute_ReopenChecksInterval(t *testing.T) {
	e := newEnv(domain.StatusNoShow)
	// Интервал занят другой записью того же сотрудника
	other := testAppointment(domain.StatusBooked)
	other.ID = 99
	other.StartTime = types.TimeString("10:30")
	other.EndTime = types.TimeString("11:30")
	e.repo.staffAppointments = []*domain.Appointment{other}

	_, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "booked",
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_ReopenSucceedsOnFreeInterval(t *testing.T) {
	e := newEnv(domain.StatusCompleted)
	// Своя же запись в списке дня не считается пересечением
	self := testAppointment(domain.StatusCompleted)
	e.repo.staffAppointments = []*domain.Appointment{self}

	resp, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "booked",
	})
	require.NoError(t, err)
	assert.Equal(t, "booked", resp.Status)
}

func TestExecute_ReopenDegradesRestTimeOnProfileError(t *testing.T) {
	e := newEnv(domain.StatusNoShow)
	e.profiles.err = errors.New("profile service is down")
	// Сосед впритык: с нулевым буфером отдыха интервал свободен
	other := testAppointment(domain.StatusBooked)
	other.ID = 99
	other.StartTime = types.TimeString("09:00")
	other.EndTime = types.TimeString("10:00")
	e.repo.staffAppointments = []*domain.Appointment{other}

	resp, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "booked",
	})
	require.NoError(t, err)
	assert.Equal(t, "booked", resp.Status)
}

func TestExecute_OwnershipCheck(t *testing.T) {
	e := newEnv(domain.StatusBooked)
	foreign := int64(1000)

	_, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "confirmed", CustomerID: &foreign,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	owner := int64(7)
	resp, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "confirmed", CustomerID: &owner,
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv(domain.StatusBooked)

	_, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 404, TargetStatus: "confirmed",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_PublishFailureDoesNotFailTransition(t *testing.T) {
	e := newEnv(domain.StatusConfirmed)
	e.publisher.err = errors.New("kafka is down")

	resp, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestExecute_LogFailureRollsBack(t *testing.T) {
	e := newEnv(domain.StatusBooked)
	e.logRepo.err = errors.New("insert failed")

	_, err := e.uc.Execute(context.Background(), &Request{
		AppointmentID: 11, TargetStatus: "confirmed",
	})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, e.publisher.events)
}
