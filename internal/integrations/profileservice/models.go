package profileservice

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DayHoursPayload рабочие часы одного дня недели в ответе ProfileService
type DayHoursPayload struct {
	IsActive  bool           `json:"is_active"`
	StartTime string         `json:"start_time"` // "HH:MM"
	EndTime   string         `json:"end_time"`   // "HH:MM"
	Breaks    []BreakPayload `json:"breaks,omitempty"`
}

// BreakPayload перерыв в ответе ProfileService
type BreakPayload struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SpecialDatePayload переопределение даты в ответе ProfileService
type SpecialDatePayload struct {
	Date      string  `json:"date"` // "YYYY-MM-DD"
	IsClosed  bool    `json:"is_closed"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// WorkingHoursPayload профиль рабочих часов в ответе ProfileService
type WorkingHoursPayload struct {
	Monday       *DayHoursPayload     `json:"monday,omitempty"`
	Tuesday      *DayHoursPayload     `json:"tuesday,omitempty"`
	Wednesday    *DayHoursPayload     `json:"wednesday,omitempty"`
	Thursday     *DayHoursPayload     `json:"thursday,omitempty"`
	Friday       *DayHoursPayload     `json:"friday,omitempty"`
	Saturday     *DayHoursPayload     `json:"saturday,omitempty"`
	Sunday       *DayHoursPayload     `json:"sunday,omitempty"`
	SpecialDates []SpecialDatePayload `json:"special_dates,omitempty"`
}

// Business модель бизнеса из ProfileService
type Business struct {
	ID              int64                `json:"id"`
	Name            string               `json:"name"`
	RestTimeMinutes int                  `json:"rest_time_minutes"`
	SlotStepMinutes int                  `json:"slot_step_minutes"`
	WorkingHours    *WorkingHoursPayload `json:"working_hours,omitempty"`
}

// Staff модель сотрудника из ProfileService
// WorkingHours == nil означает, что у сотрудника нет своего профиля
// и используются часы бизнеса
type Staff struct {
	ID           int64                `json:"id"`
	BusinessID   int64                `json:"business_id"`
	Name         string               `json:"name"`
	IsActive     bool                 `json:"is_active"`
	WorkingHours *WorkingHoursPayload `json:"working_hours,omitempty"`
}

// Service модель услуги из ProfileService
// Duration приходит строкой "HH:MM" или "HH:MM:SS"
type Service struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Duration string   `json:"duration"`
	Price    *float64 `json:"price,omitempty"`
	IsFree   bool     `json:"is_free"`
}

// DurationMinutes парсит длительность услуги в минуты
func (s *Service) DurationMinutes() (int, error) {
	d, err := types.ParseDuration(s.Duration)
	if err != nil {
		return 0, fmt.Errorf("%w: service duration: %v", ErrInvalidResponse, err)
	}
	return d.Minutes(), nil
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomainProfile конвертирует payload в доменный профиль рабочих часов
// Возвращает nil для nil payload (профиль не настроен)
func (p *WorkingHoursPayload) ToDomainProfile() (*domain.WorkingHoursProfile, error) {
	if p == nil {
		return nil, nil
	}

	profile := &domain.WorkingHoursProfile{
		Weekdays: make(map[time.Weekday]domain.DayHours),
	}

	weekdays := map[time.Weekday]*DayHoursPayload{
		time.Monday:    p.Monday,
		time.Tuesday:   p.Tuesday,
		time.Wednesday: p.Wednesday,
		time.Thursday:  p.Thursday,
		time.Friday:    p.Friday,
		time.Saturday:  p.Saturday,
		time.Sunday:    p.Sunday,
	}

	for weekday, payload := range weekdays {
		if payload == nil {
			continue
		}
		day, err := payload.toDomainDay()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, weekday, err)
		}
		profile.Weekdays[weekday] = day
	}

	for _, sd := range p.SpecialDates {
		date, err := time.Parse(domain.DateFormat, sd.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: special date %q: %v", ErrInvalidResponse, sd.Date, err)
		}

		special := domain.SpecialDate{Date: date, IsClosed: sd.IsClosed}
		if !sd.IsClosed {
			if sd.StartTime != nil {
				ts, err := types.NewTimeStringFromString(*sd.StartTime)
				if err != nil {
					return nil, fmt.Errorf("%w: special date %q: %v", ErrInvalidResponse, sd.Date, err)
				}
				special.StartTime = &ts
			}
			if sd.EndTime != nil {
				ts, err := types.NewTimeStringFromString(*sd.EndTime)
				if err != nil {
					return nil, fmt.Errorf("%w: special date %q: %v", ErrInvalidResponse, sd.Date, err)
				}
				special.EndTime = &ts
			}
		}
		profile.SpecialDates = append(profile.SpecialDates, special)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return profile, nil
}

func (d *DayHoursPayload) toDomainDay() (domain.DayHours, error) {
	day := domain.DayHours{IsActive: d.IsActive}
	if !d.IsActive {
		return day, nil
	}

	start, err := types.NewTimeStringFromString(d.StartTime)
	if err != nil {
		return domain.DayHours{}, err
	}
	end, err := types.NewTimeStringFromString(d.EndTime)
	if err != nil {
		return domain.DayHours{}, err
	}
	day.StartTime = start
	day.EndTime = end

	for _, br := range d.Breaks {
		brStart, err := types.NewTimeStringFromString(br.StartTime)
		if err != nil {
			return domain.DayHours{}, err
		}
		brEnd, err := types.NewTimeStringFromString(br.EndTime)
		if err != nil {
			return domain.DayHours{}, err
		}
		day.Breaks = append(day.Breaks, domain.BreakInterval{StartTime: brStart, EndTime: brEnd})
	}

	return day, nil
}
