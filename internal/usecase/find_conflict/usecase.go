package find_conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case поиска ближайшей будущей записи клиента.
// Используется как предупреждение перед созданием новой записи:
// "у вас уже есть запись, отменить её?"
type UseCase struct {
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет поиск ближайшей записи клиента в горизонте LookaheadDays.
// Ошибка чтения записей НЕ прерывает сценарий: ответ деградирует до
// "конфликт не подтвержден" (Degraded=true), чтобы не блокировать запись
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindConflict: customer=%d, lookahead=%d", req.CustomerID, req.LookaheadDays)

	// 1. Валидация входных данных
	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}
	if req.LookaheadDays < 0 {
		return nil, fmt.Errorf("%w: lookaheadDays must not be negative", ErrInvalidInput)
	}

	lookahead := req.LookaheadDays
	if lookahead == 0 {
		lookahead = domain.DefaultLookaheadDays
	}

	// 2. Горизонт поиска: [сегодня, сегодня + lookahead]
	now := uc.timeProvider.Now()
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endDate := startDate.AddDate(0, 0, lookahead)

	// 3. Ищем записи клиента в статусах booked/confirmed
	filter := domain.CustomerAppointmentsFilter{
		CustomerID: req.CustomerID,
		StartDate:  ptr.Ptr(startDate),
		EndDate:    ptr.Ptr(endDate),
		Statuses:   domain.ConflictStatuses,
	}

	appointments, err := uc.appointmentRepo.GetByCustomerWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("FindConflict: failed to get appointments for customer=%d: %v", req.CustomerID, err)
		return &Response{Degraded: true}, nil
	}

	// 4. Берем ближайшую еще не начавшуюся запись
	// Репозиторий возвращает записи по возрастанию даты и времени начала
	nowTS := types.NewTimeString(now)
	for _, a := range appointments {
		if domain.SameCalendarDay(a.AppointmentDate, now) && !a.StartTime.IsAfter(nowTS) {
			continue
		}

		isSameDay := !req.ProposedDate.IsZero() && domain.SameCalendarDay(a.AppointmentDate, req.ProposedDate)

		uc.logger.Info("FindConflict: customer=%d has appointment id=%d on %s at %s (same_day=%t)",
			req.CustomerID, a.ID, a.AppointmentDate.Format(domain.DateFormat), a.StartTime, isSameDay)

		return &Response{
			HasConflict: true,
			Appointment: a,
			IsSameDay:   isSameDay,
		}, nil
	}

	uc.logger.Info("FindConflict: no upcoming appointments for customer=%d", req.CustomerID)

	return &Response{}, nil
}
