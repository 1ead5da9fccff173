package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BreakInterval перерыв внутри рабочего окна, в течение которого записи не начинаются
type BreakInterval struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// DayHours рабочие часы на один день недели
type DayHours struct {
	IsActive  bool
	StartTime types.TimeString
	EndTime   types.TimeString
	Breaks    []BreakInterval
}

// SpecialDate переопределение рабочих часов на конкретную дату
// Полностью заменяет собой запись дня недели для этой даты
type SpecialDate struct {
	Date      time.Time
	IsClosed  bool
	StartTime *types.TimeString
	EndTime   *types.TimeString
}

// WorkingHoursProfile профиль рабочих часов бизнеса или сотрудника
// Создается и редактируется внешней системой конфигурации,
// для планировщика доступен только на чтение.
type WorkingHoursProfile struct {
	Weekdays     map[time.Weekday]DayHours
	SpecialDates []SpecialDate
}

// SpecialDateFor возвращает переопределение для даты, если оно есть
func (p *WorkingHoursProfile) SpecialDateFor(date time.Time) (*SpecialDate, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.SpecialDates {
		if sameDay(p.SpecialDates[i].Date, date) {
			return &p.SpecialDates[i], true
		}
	}
	return nil, false
}

// WeekdayFor возвращает рабочие часы дня недели, если они настроены
func (p *WorkingHoursProfile) WeekdayFor(weekday time.Weekday) (DayHours, bool) {
	if p == nil || p.Weekdays == nil {
		return DayHours{}, false
	}
	day, ok := p.Weekdays[weekday]
	return day, ok
}

// Validate проверяет инварианты профиля:
// start < end для активных дней, перерывы внутри окна и без пересечений между собой
func (p *WorkingHoursProfile) Validate() error {
	if p == nil {
		return nil
	}
	for weekday, day := range p.Weekdays {
		if !day.IsActive {
			continue
		}
		if !day.StartTime.IsBefore(day.EndTime) {
			return fmt.Errorf("working hours for %s: start_time %s must be before end_time %s",
				weekday, day.StartTime, day.EndTime)
		}
		for i, br := range day.Breaks {
			if !br.StartTime.IsBefore(br.EndTime) {
				return fmt.Errorf("working hours for %s: break start %s must be before break end %s",
					weekday, br.StartTime, br.EndTime)
			}
			if br.StartTime.IsBefore(day.StartTime) || br.EndTime.IsAfter(day.EndTime) {
				return fmt.Errorf("working hours for %s: break %s-%s is outside window %s-%s",
					weekday, br.StartTime, br.EndTime, day.StartTime, day.EndTime)
			}
			for j := 0; j < i; j++ {
				prev := day.Breaks[j]
				if Overlaps(br.StartTime, br.EndTime, prev.StartTime, prev.EndTime) {
					return fmt.Errorf("working hours for %s: breaks %s-%s and %s-%s overlap",
						weekday, prev.StartTime, prev.EndTime, br.StartTime, br.EndTime)
				}
			}
		}
	}
	return nil
}

// ResolvedDay эффективное рабочее окно на конкретную дату
type ResolvedDay struct {
	Active    bool
	StartTime types.TimeString
	EndTime   types.TimeString
	Breaks    []BreakInterval
}

// InBreak возвращает true, если момент t попадает в перерыв [start, end).
// Перерыв запрещает начинать запись внутри себя; запись, начатая до
// перерыва, может продолжаться поверх него
func (d ResolvedDay) InBreak(t types.TimeString) bool {
	for _, br := range d.Breaks {
		if !t.IsBefore(br.StartTime) && t.IsBefore(br.EndTime) {
			return true
		}
	}
	return false
}

// ResolveWorkingDay вычисляет эффективное рабочее окно на дату.
// Порядок разрешения, первый подошедший источник выигрывает:
//  1. Переопределение даты в профиле сотрудника (закрыто => Active=false)
//  2. День недели в профиле сотрудника (со своими перерывами)
//  3. Переопределение даты в профиле бизнеса
//  4. День недели в профиле бизнеса
//  5. Дефолт: 09:00-20:00 без перерывов, суббота - выходной
//
// Разрешение всегда завершается конкретным окном, ошибок не бывает
func ResolveWorkingDay(staff, business *WorkingHoursProfile, date time.Time) ResolvedDay {
	if sd, ok := staff.SpecialDateFor(date); ok {
		return resolvedFromSpecialDate(sd)
	}

	if day, ok := staff.WeekdayFor(date.Weekday()); ok {
		return resolvedFromDayHours(day)
	}

	if sd, ok := business.SpecialDateFor(date); ok {
		return resolvedFromSpecialDate(sd)
	}

	if day, ok := business.WeekdayFor(date.Weekday()); ok {
		return resolvedFromDayHours(day)
	}

	return ResolvedDay{
		Active:    date.Weekday() != DefaultClosedWeekday,
		StartTime: types.TimeString(DefaultWorkingDayStart),
		EndTime:   types.TimeString(DefaultWorkingDayEnd),
	}
}

func resolvedFromSpecialDate(sd *SpecialDate) ResolvedDay {
	if sd.IsClosed || sd.StartTime == nil || sd.EndTime == nil {
		return ResolvedDay{Active: false}
	}
	return ResolvedDay{
		Active:    true,
		StartTime: *sd.StartTime,
		EndTime:   *sd.EndTime,
	}
}

func resolvedFromDayHours(day DayHours) ResolvedDay {
	if !day.IsActive || day.StartTime.IsZero() || day.EndTime.IsZero() {
		return ResolvedDay{Active: false}
	}
	return ResolvedDay{
		Active:    true,
		StartTime: day.StartTime,
		EndTime:   day.EndTime,
		Breaks:    day.Breaks,
	}
}

// sameDay проверяет, что две даты относятся к одному календарному дню
func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameCalendarDay экспортированная проверка совпадения календарного дня
// Используется ConflictGuard для флага isSameDay
func SameCalendarDay(a, b time.Time) bool {
	return sameDay(a, b)
}
