package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	profileClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
)

// UseCase use case для получения доступных слотов расписания сотрудника
type UseCase struct {
	appointmentRepo AppointmentRepository
	profileClient   ProfileServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	profileClient ProfileServiceClient,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		profileClient:   profileClient,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, staff=%d, service=%d, date=%s",
		req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время (единственное чтение часов в расчете)
	now := uc.timeProvider.Now()

	// 3. Валидация даты
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем бизнес
	business, err := uc.profileClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, profileClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 5. Получаем сотрудника
	staff, err := uc.profileClient.GetStaff(ctx, req.BusinessID, req.StaffID)
	if err != nil {
		if errors.Is(err, profileClient.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	// 6. Получаем услугу
	service, err := uc.profileClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, profileClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	serviceDuration, err := service.DurationMinutes()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid service duration id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: invalid service duration: %v", ErrInternal, err)
	}

	// 7. Конвертируем профили рабочих часов
	staffProfile, err := staff.WorkingHours.ToDomainProfile()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid staff working hours id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: invalid staff working hours: %v", ErrInternal, err)
	}

	businessProfile, err := business.WorkingHours.ToDomainProfile()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid business working hours id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid business working hours: %v", ErrInternal, err)
	}

	// 8. Вычисляем эффективное рабочее окно на дату
	day := domain.ResolveWorkingDay(staffProfile, businessProfile, req.Date)
	if !day.Active {
		uc.logger.Info("GetAvailableSlots: staff id=%d is not working on %s",
			req.StaffID, req.Date.Format(domain.DateFormat))
		return &Response{
			Date:            req.Date,
			BusinessID:      req.BusinessID,
			StaffID:         req.StaffID,
			ServiceID:       req.ServiceID,
			DurationMinutes: serviceDuration,
			Slots:           []domain.TimeSlot{},
		}, nil
	}

	// 9. Получаем активные записи сотрудника на дату
	appointments, err := uc.appointmentRepo.GetByStaffAndDate(ctx, req.StaffID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	booked := make([]domain.BookedInterval, 0, len(appointments))
	for _, a := range appointments {
		booked = append(booked, a.Interval())
	}

	// 10. Строим сетку слотов и убираем прошедшие, если дата - сегодня
	stepMinutes := business.SlotStepMinutes
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}

	slots := buildSlots(day, booked, serviceDuration, stepMinutes, business.RestTimeMinutes)
	slots = filterPastSlots(slots, req.Date, now)

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, staff=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		BusinessID:      req.BusinessID,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: serviceDuration,
		Slots:           slots,
	}, nil
}
