package transition_status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

// UseCase use case перехода статуса записи
// Реализует машину состояний жизненного цикла:
// booked -> confirmed -> completed | no_show, любой нетерминальный -> canceled,
// completed/no_show -> booked (возврат в работу). canceled - терминальный
type UseCase struct {
	appointmentRepo AppointmentRepository
	logRepo         LogRepository
	profileClient   ProfileServiceClient
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	logRepo LogRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		logRepo:         logRepo,
		profileClient:   profileClient,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет переход статуса записи
// Переход, запись в аудит-лог и (для возврата в работу) проверка
// доступности интервала выполняются в одной сериализуемой транзакции.
// Событие публикуется после коммита - ровно один раз на состоявшийся
// переход, повтор запроса упадет на валидации перехода
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionStatus: id=%d, target=%s", req.AppointmentID, req.TargetStatus)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	target, err := domain.ParseAppointmentStatus(req.TargetStatus)
	if err != nil {
		uc.logger.Warn("TransitionStatus: unknown status %q", req.TargetStatus)
		return nil, ErrInvalidStatus
	}

	now := uc.timeProvider.Now()

	var result *domain.Appointment
	var oldStatus domain.AppointmentStatus

	// 2. Переход в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем запись с блокировкой (FOR UPDATE)
		current, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("TransitionStatus: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("TransitionStatus: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// Чужая запись выглядит как отсутствующая
		if req.CustomerID != nil && current.CustomerID != *req.CustomerID {
			uc.logger.Warn("TransitionStatus: appointment id=%d belongs to another customer", current.ID)
			return ErrAppointmentNotFound
		}

		// 2.2. Валидация перехода по машине состояний
		if !current.Status.CanTransitionTo(target) {
			uc.logger.Warn("TransitionStatus: transition %s -> %s is not allowed for id=%d",
				current.Status, target, current.ID)
			return ErrInvalidTransition
		}

		oldStatus = current.Status

		// 2.3. Возврат в работу занимает слот заново - интервал обязан быть свободен
		if target == domain.StatusBooked {
			if err := uc.checkIntervalFree(txCtx, current); err != nil {
				return err
			}
		}

		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}

		// 2.4. Применяем переход
		if target == domain.StatusCanceled {
			if err := uc.appointmentRepo.Cancel(txCtx, current.ID, reason); err != nil {
				uc.logger.Error("TransitionStatus: failed to cancel appointment id=%d: %v", current.ID, err)
				return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
			}
		} else {
			if err := uc.appointmentRepo.UpdateStatus(txCtx, current.ID, target); err != nil {
				uc.logger.Error("TransitionStatus: failed to update status id=%d: %v", current.ID, err)
				return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
			}
		}

		// 2.5. Запись аудит-лога
		entry := &domain.AppointmentLogEntry{
			AppointmentID: current.ID,
			ActorUserID:   req.ActorUserID,
			Action:        domain.LogActionStatusChange,
			Details:       domain.NewStatusChangeDetails(oldStatus, target, reason),
		}
		if err := uc.logRepo.Append(txCtx, entry); err != nil {
			uc.logger.Error("TransitionStatus: failed to append log id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to append log: %v", ErrInternal, err)
		}

		// 2.6. Перечитываем итоговое состояние
		updated, err := uc.appointmentRepo.GetByID(txCtx, current.ID)
		if err != nil {
			uc.logger.Error("TransitionStatus: failed to reload appointment id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Публикуем событие состоявшегося перехода
	uc.publishEvent(ctx, result, target, now)

	uc.logger.Info("TransitionStatus: appointment id=%d moved %s -> %s", result.ID, oldStatus, target)

	return toResponse(result), nil
}

// checkIntervalFree проверяет, что интервал записи свободен у сотрудника
// Используется при возврате завершенной/неявочной записи в работу
func (uc *UseCase) checkIntervalFree(txCtx context.Context, current *domain.Appointment) error {
	restTime := domain.DefaultRestTimeMinutes
	business, err := uc.profileClient.GetBusiness(txCtx, current.BusinessID)
	if err != nil {
		// Недоступность профиля не блокирует возврат, буфер отдыха нулевой
		uc.logger.Warn("TransitionStatus: failed to get business id=%d, using zero rest time: %v",
			current.BusinessID, err)
	} else {
		restTime = business.RestTimeMinutes
	}

	appointments, err := uc.appointmentRepo.GetByStaffAndDate(txCtx, current.StaffID, current.AppointmentDate)
	if err != nil {
		uc.logger.Error("TransitionStatus: failed to get appointments: %v", err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	booked := make([]domain.BookedInterval, 0, len(appointments))
	for _, a := range appointments {
		if a.ID == current.ID {
			continue
		}
		booked = append(booked, a.Interval())
	}

	if !domain.IntervalFree(current.StartTime, current.EndTime, booked, restTime) {
		uc.logger.Warn("TransitionStatus: interval %s-%s is already taken for staff=%d",
			current.StartTime, current.EndTime, current.StaffID)
		return ErrSlotNotAvailable
	}

	return nil
}

// publishEvent публикует событие для переходов, интересных внешним потребителям
func (uc *UseCase) publishEvent(ctx context.Context, a *domain.Appointment, target domain.AppointmentStatus, now time.Time) {
	var eventType string
	switch target {
	case domain.StatusCompleted:
		eventType = events.EventAppointmentCompleted
	case domain.StatusCanceled:
		eventType = events.EventAppointmentCanceled
	default:
		return
	}

	if err := uc.publisher.Publish(ctx, eventType, a.ID, a.BusinessID, a.CustomerID, a.StaffID, now); err != nil {
		uc.logger.Warn("TransitionStatus: failed to publish %s for id=%d: %v", eventType, a.ID, err)
	}
}
