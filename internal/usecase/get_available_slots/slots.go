package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// buildSlots строит сетку слотов рабочего дня с шагом stepMinutes.
// Слот попадает в ответ, если он свободен (Available=true) либо начинается
// внутри перерыва (Available=false, IsBreak=true). Занятые слоты в выдачу
// не входят. Перерыв запрещает только старт внутри себя: слот, начатый до
// перерыва, остается доступным, даже если его интервал накрывает перерыв
func buildSlots(
	day domain.ResolvedDay,
	booked []domain.BookedInterval,
	serviceDuration int,
	stepMinutes int,
	restTimeMinutes int,
) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)

	startMin, err := day.StartTime.Minutes()
	if err != nil {
		return slots
	}
	endMin, err := day.EndTime.Minutes()
	if err != nil {
		return slots
	}

	for t := startMin; t+serviceDuration <= endMin; t += stepMinutes {
		slotStart, err := types.NewTimeStringFromMinutes(t)
		if err != nil {
			break
		}
		slotEnd, err := types.NewTimeStringFromMinutes(t + serviceDuration)
		if err != nil {
			break
		}

		isBreak := day.InBreak(slotStart)
		available := !isBreak && domain.IntervalFree(slotStart, slotEnd, booked, restTimeMinutes)

		if available || isBreak {
			slots = append(slots, domain.TimeSlot{
				StartTime: slotStart,
				Available: available,
				IsBreak:   isBreak,
			})
		}
	}

	return slots
}

// filterPastSlots убирает слоты, начинающиеся не позже текущего момента.
// Применяется только когда запрошенная дата совпадает с сегодняшней
// в часовом поясе бизнеса
func filterPastSlots(slots []domain.TimeSlot, date time.Time, nowLocal time.Time) []domain.TimeSlot {
	if !domain.SameCalendarDay(date, nowLocal) {
		return slots
	}

	nowTS := types.NewTimeString(nowLocal)

	filtered := make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.StartTime.IsAfter(nowTS) {
			filtered = append(filtered, slot)
		}
	}

	return filtered
}
