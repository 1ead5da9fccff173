package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/idempotency"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockAppointmentRepo struct {
	byID              map[int64]*domain.Appointment
	staffAppointments []*domain.Appointment
	nextID            int64

	created       []*domain.Appointment
	canceledIDs   []int64
	cancelReasons []string
	createErr     error
}

func newMockRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{byID: make(map[int64]*domain.Appointment), nextID: 100}
}

func (m *mockAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	created := *appt
	created.ID = m.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.created = append(m.created, &created)
	m.byID[created.ID] = &created
	return &created, nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := m.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	a := *appt
	return &a, nil
}

func (m *mockAppointmentRepo) GetByStaffAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return m.staffAppointments, nil
}

func (m *mockAppointmentRepo) Cancel(_ context.Context, id int64, reason string) error {
	m.canceledIDs = append(m.canceledIDs, id)
	m.cancelReasons = append(m.cancelReasons, reason)
	if appt, ok := m.byID[id]; ok {
		appt.Status = domain.StatusCanceled
	}
	return nil
}

type mockLogRepo struct {
	entries []*domain.AppointmentLogEntry
}

func (m *mockLogRepo) Append(_ context.Context, entry *domain.AppointmentLogEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

type mockProfileClient struct {
	business *profileservice.Business
	staff    *profileservice.Staff
	service  *profileservice.Service
}

func (m *mockProfileClient) GetBusiness(_ context.Context, _ int64) (*profileservice.Business, error) {
	return m.business, nil
}

func (m *mockProfileClient) GetStaff(_ context.Context, _, _ int64) (*profileservice.Staff, error) {
	return m.staff, nil
}

func (m *mockProfileClient) GetService(_ context.Context, _, _ int64) (*profileservice.Service, error) {
	return m.service, nil
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
}

func (m *mockPublisher) Publish(_ context.Context, eventType string, _, _, _, _ int64, _ time.Time) error {
	m.events = append(m.events, eventType)
	return nil
}

type mockIdempotencyStore struct {
	existingID int64
	beginErr   error

	completedKey *string
	releasedKey  *string
}

func (m *mockIdempotencyStore) Begin(_ context.Context, _ string) (int64, error) {
	return m.existingID, m.beginErr
}

func (m *mockIdempotencyStore) Complete(_ context.Context, key string, _ int64) error {
	m.completedKey = &key
	return nil
}

func (m *mockIdempotencyStore) Release(_ context.Context, key string) error {
	m.releasedKey = &key
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

// 2025-06-12 - четверг, now - за два дня до записи
var (
	testNow  = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
)

type env struct {
	repo      *mockAppointmentRepo
	logRepo   *mockLogRepo
	profiles  *mockProfileClient
	tx        *fakeTxManager
	publisher *mockPublisher
	idem      *mockIdempotencyStore
	uc        *UseCase
}

func newEnv(idem *mockIdempotencyStore) *env {
	price := 1500.0
	e := &env{
		repo:    newMockRepo(),
		logRepo: &mockLogRepo{},
		profiles: &mockProfileClient{
			business: &profileservice.Business{
				ID:              1,
				SlotStepMinutes: 20,
				RestTimeMinutes: 0,
				WorkingHours: &profileservice.WorkingHoursPayload{
					Thursday: &profileservice.DayHoursPayload{
						IsActive:  true,
						StartTime: "09:00",
						EndTime:   "20:00",
						Breaks: []profileservice.BreakPayload{
							{StartTime: "13:00", EndTime: "14:00"},
						},
					},
				},
			},
			staff: &profileservice.Staff{ID: 2, BusinessID: 1, IsActive: true},
			service: &profileservice.Service{
				ID:       3,
				Name:     "Стрижка",
				Duration: "01:00",
				Price:    &price,
			},
		},
		tx:        &fakeTxManager{},
		publisher: &mockPublisher{},
		idem:      idem,
	}

	var store IdempotencyStore
	if idem != nil {
		store = idem
	}
	e.uc = NewUseCase(e.repo, e.logRepo, e.profiles, e.tx, e.publisher, store, &fixedTime{now: testNow}, noopLogger{})
	return e
}

func validRequest() *Request {
	actor := int64(7)
	return &Request{
		BusinessID: 1,
		CustomerID: 7,
		StaffID:    2,
		ServiceID:  3,
		Date:       testDate,
		StartTime:  types.TimeString("10:00"),
		CreatedBy:  &actor,
	}
}

func TestExecute_Success(t *testing.T) {
	e := newEnv(nil)

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "booked", resp.Status)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.EndTime)
	assert.Equal(t, 60, resp.DurationMinutes)

	// Денормализация данных услуги
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	assert.False(t, resp.IsFree)

	assert.Equal(t, 1, e.tx.calls)
	assert.Equal(t, []string{events.EventAppointmentCreated}, e.publisher.events)

	// Первая запись аудит-лога с деталями создания
	require.Len(t, e.logRepo.entries, 1)
	entry := e.logRepo.entries[0]
	assert.Equal(t, domain.LogActionCreate, entry.Action)
	assert.Equal(t, "2025-06-12", entry.Details["date"])
	assert.Equal(t, "10:00", entry.Details["start_time"])
	assert.Equal(t, "11:00", entry.Details["end_time"])
}

func TestExecute_SlotTaken(t *testing.T) {
	e := newEnv(nil)
	e.repo.staffAppointments = []*domain.Appointment{
		{ID: 50, StaffID: 2, StartTime: types.TimeString("10:30"), EndTime: types.TimeString("11:30"), Status: domain.StatusBooked},
	}

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, e.repo.created)
	assert.Empty(t, e.publisher.events)
}

func TestExecute_RestTimeBlocksAdjacentSlot(t *testing.T) {
	e := newEnv(nil)
	e.profiles.business.RestTimeMinutes = 15
	e.repo.staffAppointments = []*domain.Appointment{
		{ID: 50, StaffID: 2, StartTime: types.TimeString("09:00"), EndTime: types.TimeString("10:00"), Status: domain.StatusBooked},
	}

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	e := newEnv(nil)

	req := validRequest()
	req.StartTime = types.TimeString("19:30") // конец в 20:30, окно до 20:00

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)

	req.StartTime = types.TimeString("08:00")
	_, err = e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_StartInsideBreak(t *testing.T) {
	e := newEnv(nil)

	req := validRequest()
	req.StartTime = types.TimeString("13:20") // внутри перерыва 13:00-14:00

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, e.repo.created)
}

func TestExecute_IntervalMayCoverBreak(t *testing.T) {
	e := newEnv(nil)

	// Запись 12:30-13:30 начинается до перерыва 13:00-14:00 и может
	// продолжаться поверх него
	req := validRequest()
	req.StartTime = types.TimeString("12:30")

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("13:30"), resp.EndTime)
}

func TestExecute_StaffNotWorking(t *testing.T) {
	e := newEnv(nil)
	e.profiles.business.WorkingHours = &profileservice.WorkingHoursPayload{
		Thursday: &profileservice.DayHoursPayload{IsActive: false},
	}

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotWorking)
}

func TestExecute_StaffInactive(t *testing.T) {
	e := newEnv(nil)
	e.profiles.staff.IsActive = false

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffInactive)
}

func TestExecute_DateInPast(t *testing.T) {
	e := newEnv(nil)

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_CancelConflictingInSameTransaction(t *testing.T) {
	e := newEnv(nil)

	// Конфликтующая запись клиента занимает тот же интервал
	conflicting := &domain.Appointment{
		ID:              55,
		CustomerID:      7,
		StaffID:         2,
		AppointmentDate: testDate,
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		Status:          domain.StatusBooked,
	}
	e.repo.byID[55] = conflicting
	e.repo.staffAppointments = []*domain.Appointment{conflicting}

	req := validRequest()
	conflictingID := int64(55)
	req.CancelConflictingID = &conflictingID

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "booked", resp.Status)
	assert.Equal(t, []int64{55}, e.repo.canceledIDs)
	assert.Equal(t, []string{cancelReasonRebooked}, e.repo.cancelReasons)

	// Два лога: отмена старой записи и создание новой
	require.Len(t, e.logRepo.entries, 2)
	assert.Equal(t, domain.LogActionStatusChange, e.logRepo.entries[0].Action)
	assert.Equal(t, int64(55), e.logRepo.entries[0].AppointmentID)
	assert.Equal(t, domain.LogActionCreate, e.logRepo.entries[1].Action)
}

func TestExecute_CancelConflictingForeignAppointment(t *testing.T) {
	e := newEnv(nil)
	e.repo.byID[55] = &domain.Appointment{
		ID:         55,
		CustomerID: 1000, // чужая запись
		Status:     domain.StatusBooked,
	}

	req := validRequest()
	conflictingID := int64(55)
	req.CancelConflictingID = &conflictingID

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrConflictingAppointmentNotFound)
	assert.Empty(t, e.repo.created)
}

func TestExecute_CancelConflictingAlreadyCanceled(t *testing.T) {
	e := newEnv(nil)
	e.repo.byID[55] = &domain.Appointment{
		ID:         55,
		CustomerID: 7,
		Status:     domain.StatusCanceled,
	}

	req := validRequest()
	conflictingID := int64(55)
	req.CancelConflictingID = &conflictingID

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Повторная отмена не выполняется, запись создается
	assert.Empty(t, e.repo.canceledIDs)
	assert.Equal(t, "booked", resp.Status)
}

func TestExecute_IdempotentReplay(t *testing.T) {
	idem := &mockIdempotencyStore{existingID: 200}
	e := newEnv(idem)
	e.repo.byID[200] = &domain.Appointment{
		ID:         200,
		CustomerID: 7,
		Status:     domain.StatusBooked,
		StartTime:  types.TimeString("10:00"),
		EndTime:    types.TimeString("11:00"),
	}

	req := validRequest()
	key := "req-abc"
	req.IdempotencyKey = &key

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Возвращается существующая запись, новая не создается
	assert.Equal(t, int64(200), resp.ID)
	assert.Empty(t, e.repo.created)
	assert.Empty(t, e.publisher.events)
}

func TestExecute_IdempotencyConflict(t *testing.T) {
	idem := &mockIdempotencyStore{beginErr: idempotency.ErrKeyConflict}
	e := newEnv(idem)

	req := validRequest()
	key := "req-abc"
	req.IdempotencyKey = &key

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrIdempotencyConflict)
}

func TestExecute_IdempotencyStoreUnavailable(t *testing.T) {
	idem := &mockIdempotencyStore{beginErr: errors.New("redis: connection refused")}
	e := newEnv(idem)

	req := validRequest()
	key := "req-abc"
	req.IdempotencyKey = &key

	// Недоступность Redis не блокирует создание
	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Nil(t, idem.completedKey)
}

func TestExecute_KeyCompletedOnSuccess(t *testing.T) {
	idem := &mockIdempotencyStore{}
	e := newEnv(idem)

	req := validRequest()
	key := "req-abc"
	req.IdempotencyKey = &key

	_, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, idem.completedKey)
	assert.Equal(t, key, *idem.completedKey)
}

func TestExecute_KeyReleasedOnFailure(t *testing.T) {
	idem := &mockIdempotencyStore{}
	e := newEnv(idem)
	e.repo.staffAppointments = []*domain.Appointment{
		{ID: 50, StaffID: 2, StartTime: types.TimeString("10:00"), EndTime: types.TimeString("11:00"), Status: domain.StatusBooked},
	}

	req := validRequest()
	key := "req-abc"
	req.IdempotencyKey = &key

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	require.NotNil(t, idem.releasedKey)
	assert.Equal(t, key, *idem.releasedKey)
}

func TestExecute_InvalidInput(t *testing.T) {
	e := newEnv(nil)

	req := validRequest()
	req.StartTime = types.TimeString("25:00")
	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.CustomerID = 0
	_, err = e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
