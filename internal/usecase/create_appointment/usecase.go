package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/idempotency"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	profileClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
)

// cancelReasonRebooked причина отмены конфликтующей записи при перезаписи
const cancelReasonRebooked = "отменена при создании новой записи"

// UseCase use case создания записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	logRepo          LogRepository
	profileClient    ProfileServiceClient
	txManager        TransactionManager
	publisher        EventPublisher
	idempotencyStore IdempotencyStore
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
// idempotencyStore может быть nil - тогда Idempotency-Key игнорируется
func NewUseCase(
	appointmentRepo AppointmentRepository,
	logRepo LogRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	idempotencyStore IdempotencyStore,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		logRepo:          logRepo,
		profileClient:    profileClient,
		txManager:        txManager,
		publisher:        publisher,
		idempotencyStore: idempotencyStore,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Проверка доступности интервала и вставка выполняются в сериализуемой
// транзакции с блокировкой записей дня (FOR UPDATE), чтобы две
// конкурирующие записи не заняли один интервал
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: business=%d, customer=%d, staff=%d, service=%d, date=%s, time=%s",
		req.BusinessID, req.CustomerID, req.StaffID, req.ServiceID,
		req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 4. Идемпотентность: повтор запроса с тем же ключом возвращает
	// уже созданную запись вместо создания дубликата
	idempotencyKey := ""
	if uc.idempotencyStore != nil && req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		idempotencyKey = *req.IdempotencyKey

		existingID, err := uc.idempotencyStore.Begin(ctx, idempotencyKey)
		switch {
		case err == nil && existingID > 0:
			uc.logger.Info("CreateAppointment: idempotent replay key=%s, appointment id=%d", idempotencyKey, existingID)
			return uc.replay(ctx, existingID)
		case errors.Is(err, idempotency.ErrKeyConflict):
			uc.logger.Warn("CreateAppointment: concurrent request with key=%s", idempotencyKey)
			return nil, ErrIdempotencyConflict
		case err != nil:
			// Недоступность Redis не блокирует создание записи
			uc.logger.Warn("CreateAppointment: idempotency store unavailable: %v", err)
			idempotencyKey = ""
		}
	}

	// 5. Получаем бизнес
	business, err := uc.profileClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		uc.releaseKey(ctx, idempotencyKey)
		if errors.Is(err, profileClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 6. Получаем сотрудника
	staff, err := uc.profileClient.GetStaff(ctx, req.BusinessID, req.StaffID)
	if err != nil {
		uc.releaseKey(ctx, idempotencyKey)
		if errors.Is(err, profileClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive {
		uc.releaseKey(ctx, idempotencyKey)
		uc.logger.Warn("CreateAppointment: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffInactive
	}

	// 7. Получаем услугу и вычисляем интервал записи
	service, err := uc.profileClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		uc.releaseKey(ctx, idempotencyKey)
		if errors.Is(err, profileClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	serviceDuration, err := service.DurationMinutes()
	if err != nil {
		uc.releaseKey(ctx, idempotencyKey)
		uc.logger.Error("CreateAppointment: invalid service duration id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: invalid service duration: %v", ErrInternal, err)
	}

	endTime, err := req.StartTime.AddMinutes(serviceDuration)
	if err != nil {
		uc.releaseKey(ctx, idempotencyKey)
		uc.logger.Warn("CreateAppointment: appointment does not fit into the day: %v", err)
		return nil, ErrOutsideWorkingHours
	}

	// 8. Вычисляем рабочее окно сотрудника на дату
	day, err := uc.resolveWorkingDay(staff, business, req)
	if err != nil {
		uc.releaseKey(ctx, idempotencyKey)
		return nil, err
	}

	if !day.Active {
		uc.releaseKey(ctx, idempotencyKey)
		uc.logger.Warn("CreateAppointment: staff id=%d is not working on %s",
			req.StaffID, req.Date.Format(domain.DateFormat))
		return nil, ErrStaffNotWorking
	}

	// 9. Интервал записи обязан помещаться в рабочее окно и не начинаться
	// внутри перерыва
	if req.StartTime.IsBefore(day.StartTime) || endTime.IsAfter(day.EndTime) {
		uc.releaseKey(ctx, idempotencyKey)
		uc.logger.Warn("CreateAppointment: interval %s-%s is outside working hours %s-%s",
			req.StartTime, endTime, day.StartTime, day.EndTime)
		return nil, ErrOutsideWorkingHours
	}

	if day.InBreak(req.StartTime) {
		uc.releaseKey(ctx, idempotencyKey)
		uc.logger.Warn("CreateAppointment: start %s falls inside a break", req.StartTime)
		return nil, ErrSlotNotAvailable
	}

	var result *domain.Appointment

	// 10. Проверка пересечений и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 10.1. Отменяем конфликтующую запись клиента, если запрошено
		canceledID := int64(0)
		if req.CancelConflictingID != nil {
			id, err := uc.cancelConflicting(txCtx, *req.CancelConflictingID, req.CustomerID, req.CreatedBy)
			if err != nil {
				return err
			}
			canceledID = id
		}

		// 10.2. Получаем активные записи сотрудника на дату с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetByStaffAndDate(txCtx, req.StaffID, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		booked := make([]domain.BookedInterval, 0, len(appointments))
		for _, a := range appointments {
			if a.ID == canceledID {
				continue
			}
			booked = append(booked, a.Interval())
		}

		// 10.3. Проверяем, что интервал свободен с учетом буфера отдыха
		if !domain.IntervalFree(req.StartTime, endTime, booked, business.RestTimeMinutes) {
			uc.logger.Warn("CreateAppointment: interval %s-%s is already taken for staff=%d",
				req.StartTime, endTime, req.StaffID)
			return ErrSlotNotAvailable
		}

		// 10.4. Создаем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			BusinessID:      req.BusinessID,
			CustomerID:      req.CustomerID,
			StaffID:         req.StaffID,
			ServiceID:       req.ServiceID,
			AppointmentDate: req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: serviceDuration,
			Status:          domain.StatusBooked,
			CustomerPhone:   req.CustomerPhone,
			ServiceName:     service.Name,
			ServicePrice:    servicePrice(service),
			IsFree:          service.IsFree,
			CreatedBy:       req.CreatedBy,
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 10.5. Первая запись аудит-лога
		entry := &domain.AppointmentLogEntry{
			AppointmentID: created.ID,
			ActorUserID:   req.CreatedBy,
			Action:        domain.LogActionCreate,
			Details: map[string]interface{}{
				"staff_id":   created.StaffID,
				"service_id": created.ServiceID,
				"date":       created.AppointmentDate.Format(domain.DateFormat),
				"start_time": created.StartTime.String(),
				"end_time":   created.EndTime.String(),
			},
		}
		if err := uc.logRepo.Append(txCtx, entry); err != nil {
			uc.logger.Error("CreateAppointment: failed to append log: %v", err)
			return fmt.Errorf("%w: failed to append log: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		uc.releaseKey(ctx, idempotencyKey)
		return nil, err
	}

	// 11. Фиксируем ключ идемпотентности и публикуем событие
	if idempotencyKey != "" {
		if err := uc.idempotencyStore.Complete(ctx, idempotencyKey, result.ID); err != nil {
			uc.logger.Warn("CreateAppointment: failed to complete idempotency key=%s: %v", idempotencyKey, err)
		}
	}

	if err := uc.publisher.Publish(ctx, events.EventAppointmentCreated,
		result.ID, result.BusinessID, result.CustomerID, result.StaffID, now); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish event for id=%d: %v", result.ID, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return toResponse(result), nil
}

// resolveWorkingDay конвертирует профили рабочих часов и вычисляет окно на дату
func (uc *UseCase) resolveWorkingDay(staff *profileClient.Staff, business *profileClient.Business, req *Request) (domain.ResolvedDay, error) {
	staffProfile, err := staff.WorkingHours.ToDomainProfile()
	if err != nil {
		uc.logger.Error("CreateAppointment: invalid staff working hours id=%d: %v", req.StaffID, err)
		return domain.ResolvedDay{}, fmt.Errorf("%w: invalid staff working hours: %v", ErrInternal, err)
	}

	businessProfile, err := business.WorkingHours.ToDomainProfile()
	if err != nil {
		uc.logger.Error("CreateAppointment: invalid business working hours id=%d: %v", req.BusinessID, err)
		return domain.ResolvedDay{}, fmt.Errorf("%w: invalid business working hours: %v", ErrInternal, err)
	}

	return domain.ResolveWorkingDay(staffProfile, businessProfile, req.Date), nil
}

// cancelConflicting отменяет существующую запись клиента внутри транзакции
// создания новой. Возвращает ID отмененной записи, чтобы исключить её
// из проверки пересечений
func (uc *UseCase) cancelConflicting(txCtx context.Context, conflictingID, customerID int64, actor *int64) (int64, error) {
	existing, err := uc.appointmentRepo.GetByID(txCtx, conflictingID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CreateAppointment: conflicting appointment id=%d not found", conflictingID)
			return 0, ErrConflictingAppointmentNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get conflicting appointment id=%d: %v", conflictingID, err)
		return 0, fmt.Errorf("%w: failed to get conflicting appointment: %v", ErrInternal, err)
	}

	// Чужая запись выглядит как отсутствующая, чтобы не раскрывать её существование
	if existing.CustomerID != customerID {
		uc.logger.Warn("CreateAppointment: conflicting appointment id=%d belongs to another customer", conflictingID)
		return 0, ErrConflictingAppointmentNotFound
	}

	// Запись в терминальном или неактивном статусе не занимает слот, отмена не нужна
	if !existing.Status.CanTransitionTo(domain.StatusCanceled) {
		uc.logger.Warn("CreateAppointment: conflicting appointment id=%d in status %s, skip cancellation",
			conflictingID, existing.Status)
		return existing.ID, nil
	}

	if err := uc.appointmentRepo.Cancel(txCtx, conflictingID, cancelReasonRebooked); err != nil {
		uc.logger.Error("CreateAppointment: failed to cancel conflicting appointment id=%d: %v", conflictingID, err)
		return 0, fmt.Errorf("%w: failed to cancel conflicting appointment: %v", ErrInternal, err)
	}

	entry := &domain.AppointmentLogEntry{
		AppointmentID: conflictingID,
		ActorUserID:   actor,
		Action:        domain.LogActionStatusChange,
		Details:       domain.NewStatusChangeDetails(existing.Status, domain.StatusCanceled, cancelReasonRebooked),
	}
	if err := uc.logRepo.Append(txCtx, entry); err != nil {
		uc.logger.Error("CreateAppointment: failed to append cancellation log id=%d: %v", conflictingID, err)
		return 0, fmt.Errorf("%w: failed to append cancellation log: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: canceled conflicting appointment id=%d", conflictingID)
	return conflictingID, nil
}

// replay возвращает уже созданную запись при повторе запроса
func (uc *UseCase) replay(ctx context.Context, appointmentID int64) (*Response, error) {
	appt, err := uc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load appointment id=%d for replay: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: failed to load appointment for replay: %v", ErrInternal, err)
	}
	return toResponse(appt), nil
}

// releaseKey освобождает ключ идемпотентности при неудачном создании
func (uc *UseCase) releaseKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := uc.idempotencyStore.Release(ctx, key); err != nil {
		uc.logger.Warn("CreateAppointment: failed to release idempotency key=%s: %v", key, err)
	}
}

// servicePrice извлекает цену услуги; nil цена означает 0.0
func servicePrice(service *profileClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
