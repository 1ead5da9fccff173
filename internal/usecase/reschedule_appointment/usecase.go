package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	profileClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case переноса/изменения записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	logRepo         LogRepository
	profileClient   ProfileServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	logRepo LogRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		logRepo:         logRepo,
		profileClient:   profileClient,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// changeSet вычисленный целевой вид записи после переноса
type changeSet struct {
	date     time.Time
	start    types.TimeString
	end      types.TimeString
	duration int
	staffID  int64

	service         *profileClient.Service // nil, если услуга не меняется
	intervalMoved   bool                   // дата, время, длительность или сотрудник изменились
	update          domain.AppointmentFieldUpdate
	logEntries      []*domain.AppointmentLogEntry
	restTime        int
	staffProfile    *domain.WorkingHoursProfile
	businessProfile *domain.WorkingHoursProfile
}

// Execute выполняет перенос записи
// Все изменения применяются одним UPDATE, и на каждое измененное поле
// пишется отдельная запись аудит-лога; пачка лога получает один
// created_at. Выполняется в сериализуемой транзакции - либо запись,
// все элементы лога и проверка пересечений согласованы, либо ничего
// не сохраняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d", req.AppointmentID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Предварительное чтение записи для проверок и интеграционных вызовов
	existing, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if err := uc.checkReschedulable(existing, req.CustomerID); err != nil {
		return nil, err
	}

	// 4. Проверка новой даты
	if req.Date != nil {
		if err := validateDate(*req.Date, now); err != nil {
			uc.logger.Warn("RescheduleAppointment: date validation failed: %v", err)
			return nil, err
		}
	}

	// 5. Интеграционные данные: новая услуга, новый сотрудник, рабочие часы
	cs, err := uc.buildChangeSet(ctx, existing, req)
	if err != nil {
		return nil, err
	}

	if cs.update.IsEmpty() {
		uc.logger.Warn("RescheduleAppointment: id=%d, nothing changed", req.AppointmentID)
		return nil, ErrNoChanges
	}

	// 6. Проверка рабочего окна для нового интервала
	if cs.intervalMoved {
		day := domain.ResolveWorkingDay(cs.staffProfile, cs.businessProfile, cs.date)
		if !day.Active {
			uc.logger.Warn("RescheduleAppointment: staff id=%d is not working on %s",
				cs.staffID, cs.date.Format(domain.DateFormat))
			return nil, ErrStaffNotWorking
		}

		if cs.start.IsBefore(day.StartTime) || cs.end.IsAfter(day.EndTime) {
			uc.logger.Warn("RescheduleAppointment: interval %s-%s is outside working hours %s-%s",
				cs.start, cs.end, day.StartTime, day.EndTime)
			return nil, ErrOutsideWorkingHours
		}

		if day.InBreak(cs.start) {
			uc.logger.Warn("RescheduleAppointment: start %s falls inside a break", cs.start)
			return nil, ErrSlotNotAvailable
		}
	}

	var result *domain.Appointment

	// 7. Проверка пересечений и атомарное применение в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Перечитываем запись с блокировкой (FOR UPDATE)
		current, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to lock appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to lock appointment: %v", ErrInternal, err)
		}

		if err := uc.checkReschedulable(current, req.CustomerID); err != nil {
			return err
		}

		// 7.2. Проверяем, что новый интервал свободен у целевого сотрудника
		if cs.intervalMoved {
			appointments, err := uc.appointmentRepo.GetByStaffAndDate(txCtx, cs.staffID, cs.date)
			if err != nil {
				uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
				return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
			}

			booked := make([]domain.BookedInterval, 0, len(appointments))
			for _, a := range appointments {
				if a.ID == current.ID {
					continue
				}
				booked = append(booked, a.Interval())
			}

			if !domain.IntervalFree(cs.start, cs.end, booked, cs.restTime) {
				uc.logger.Warn("RescheduleAppointment: interval %s-%s is already taken for staff=%d",
					cs.start, cs.end, cs.staffID)
				return ErrSlotNotAvailable
			}
		}

		// 7.3. Применяем все изменения одним UPDATE
		if err := uc.appointmentRepo.UpdateFields(txCtx, current.ID, cs.update); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		// 7.4. Пишем пачку записей лога - по одной на измененное поле
		if err := uc.logRepo.AppendBatch(txCtx, cs.logEntries); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to append logs id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to append logs: %v", ErrInternal, err)
		}

		// 7.5. Перечитываем итоговое состояние
		updated, err := uc.appointmentRepo.GetByID(txCtx, current.ID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to reload appointment id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully updated appointment id=%d, %d fields changed",
		result.ID, len(cs.logEntries))

	return toResponse(result), nil
}

// checkReschedulable проверяет владение записью и допустимость переноса
func (uc *UseCase) checkReschedulable(a *domain.Appointment, customerID *int64) error {
	// Чужая запись выглядит как отсутствующая
	if customerID != nil && a.CustomerID != *customerID {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d belongs to another customer", a.ID)
		return ErrAppointmentNotFound
	}

	if a.Status != domain.StatusBooked && a.Status != domain.StatusConfirmed {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d in status %s cannot be rescheduled", a.ID, a.Status)
		return ErrNotReschedulable
	}

	return nil
}

// buildChangeSet вычисляет целевой вид записи, частичное обновление
// и записи аудит-лога для каждого измененного поля
func (uc *UseCase) buildChangeSet(ctx context.Context, existing *domain.Appointment, req *Request) (*changeSet, error) {
	cs := &changeSet{
		date:     existing.AppointmentDate,
		start:    existing.StartTime,
		end:      existing.EndTime,
		duration: existing.DurationMinutes,
		staffID:  existing.StaffID,
	}

	if req.Date != nil {
		cs.date = *req.Date
	}
	if req.StartTime != nil {
		cs.start = *req.StartTime
	}
	if req.StaffID != nil {
		cs.staffID = *req.StaffID
	}

	// Новая услуга: меняется денормализация и, если длительность не
	// задана явно, длительность записи
	if req.ServiceID != nil && *req.ServiceID != existing.ServiceID {
		service, err := uc.profileClient.GetService(ctx, existing.BusinessID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, profileClient.ErrServiceNotFound) {
				uc.logger.Warn("RescheduleAppointment: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		cs.service = service

		if req.DurationMinutes == nil && req.EndTime == nil {
			d, err := service.DurationMinutes()
			if err != nil {
				uc.logger.Error("RescheduleAppointment: invalid service duration id=%d: %v", *req.ServiceID, err)
				return nil, fmt.Errorf("%w: invalid service duration: %v", ErrInternal, err)
			}
			cs.duration = d
		}
	}

	// Авторитетно ровно одно из endTime/durationMinutes, второе вычисляется
	switch {
	case req.EndTime != nil:
		cs.end = *req.EndTime
		d, err := cs.end.Sub(cs.start)
		if err != nil || d <= 0 {
			uc.logger.Warn("RescheduleAppointment: endTime %s is not after startTime %s", cs.end, cs.start)
			return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
		}
		cs.duration = d
	default:
		if req.DurationMinutes != nil {
			cs.duration = *req.DurationMinutes
		}
		end, err := cs.start.AddMinutes(cs.duration)
		if err != nil {
			uc.logger.Warn("RescheduleAppointment: appointment does not fit into the day: %v", err)
			return nil, ErrOutsideWorkingHours
		}
		cs.end = end
	}

	dateChanged := !domain.SameCalendarDay(cs.date, existing.AppointmentDate)
	// Производный конец интервала здесь не учитывается: изменение одной
	// только длительности фиксируется как duration_change, без пустого
	// time_change с совпадающими old/new
	timeChanged := dateChanged || cs.start != existing.StartTime
	staffChanged := cs.staffID != existing.StaffID
	durationChanged := cs.duration != existing.DurationMinutes
	serviceChanged := cs.service != nil
	phoneChanged := req.CustomerPhone != nil &&
		(existing.CustomerPhone == nil || *existing.CustomerPhone != *req.CustomerPhone)

	cs.intervalMoved = timeChanged || staffChanged || durationChanged

	// Рабочие часы и буфер отдыха нужны только при смене интервала
	if cs.intervalMoved {
		if err := uc.loadWorkingHours(ctx, existing.BusinessID, cs); err != nil {
			return nil, err
		}
	}

	// Частичное обновление и аудит-лог: отдельная запись на каждое поле
	if timeChanged {
		if dateChanged {
			cs.update.AppointmentDate = &cs.date
		}
		cs.update.StartTime = &cs.start
		cs.update.EndTime = &cs.end
		cs.logEntries = append(cs.logEntries, uc.logEntry(existing.ID, req.ActorUserID, domain.LogActionTimeChange,
			domain.NewFieldChangeDetails(
				formatDateTime(existing.AppointmentDate, existing.StartTime),
				formatDateTime(cs.date, cs.start),
			)))
	}

	if durationChanged {
		cs.update.DurationMinutes = &cs.duration
		if !timeChanged {
			cs.update.EndTime = &cs.end
		}
		cs.logEntries = append(cs.logEntries, uc.logEntry(existing.ID, req.ActorUserID, domain.LogActionDurationChange,
			domain.NewFieldChangeDetails(existing.DurationMinutes, cs.duration)))
	}

	if staffChanged {
		cs.update.StaffID = &cs.staffID
		cs.logEntries = append(cs.logEntries, uc.logEntry(existing.ID, req.ActorUserID, domain.LogActionStaffChange,
			domain.NewFieldChangeDetails(existing.StaffID, cs.staffID)))
	}

	if serviceChanged {
		cs.update.ServiceID = req.ServiceID
		cs.update.ServiceName = &cs.service.Name
		price := servicePrice(cs.service)
		cs.update.ServicePrice = &price
		cs.update.IsFree = &cs.service.IsFree
		cs.logEntries = append(cs.logEntries, uc.logEntry(existing.ID, req.ActorUserID, domain.LogActionServiceChange,
			domain.NewFieldChangeDetails(existing.ServiceID, *req.ServiceID)))
	}

	if phoneChanged {
		cs.update.CustomerPhone = req.CustomerPhone
		cs.logEntries = append(cs.logEntries, uc.logEntry(existing.ID, req.ActorUserID, domain.LogActionPhoneChange,
			domain.NewFieldChangeDetails(derefString(existing.CustomerPhone), *req.CustomerPhone)))
	}

	return cs, nil
}

// loadWorkingHours загружает бизнес и целевого сотрудника и конвертирует
// их профили рабочих часов
func (uc *UseCase) loadWorkingHours(ctx context.Context, businessID int64, cs *changeSet) error {
	business, err := uc.profileClient.GetBusiness(ctx, businessID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	cs.restTime = business.RestTimeMinutes

	staff, err := uc.profileClient.GetStaff(ctx, businessID, cs.staffID)
	if err != nil {
		if errors.Is(err, profileClient.ErrStaffNotFound) {
			uc.logger.Warn("RescheduleAppointment: staff id=%d not found", cs.staffID)
			return ErrStaffNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get staff id=%d: %v", cs.staffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive {
		uc.logger.Warn("RescheduleAppointment: staff id=%d is inactive", cs.staffID)
		return ErrStaffInactive
	}

	cs.staffProfile, err = staff.WorkingHours.ToDomainProfile()
	if err != nil {
		uc.logger.Error("RescheduleAppointment: invalid staff working hours id=%d: %v", cs.staffID, err)
		return fmt.Errorf("%w: invalid staff working hours: %v", ErrInternal, err)
	}

	cs.businessProfile, err = business.WorkingHours.ToDomainProfile()
	if err != nil {
		uc.logger.Error("RescheduleAppointment: invalid business working hours id=%d: %v", businessID, err)
		return fmt.Errorf("%w: invalid business working hours: %v", ErrInternal, err)
	}

	return nil
}

func (uc *UseCase) logEntry(appointmentID int64, actor *int64, action domain.LogAction, details map[string]interface{}) *domain.AppointmentLogEntry {
	return &domain.AppointmentLogEntry{
		AppointmentID: appointmentID,
		ActorUserID:   actor,
		Action:        action,
		Details:       details,
	}
}

// formatDateTime формирует человекочитаемое значение "YYYY-MM-DD HH:MM" для лога
func formatDateTime(date time.Time, t types.TimeString) string {
	return date.Format(domain.DateFormat) + " " + t.String()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// servicePrice извлекает цену услуги; nil цена означает 0.0
func servicePrice(service *profileClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
