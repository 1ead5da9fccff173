package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// TimeSlot вычисленный кандидат времени начала услуги
// Вычисляется заново на каждый запрос и никогда не кэшируется:
// занятость может измениться между запросами
type TimeSlot struct {
	StartTime types.TimeString
	Available bool
	IsBreak   bool
}

// IsSelectable возвращает true, если слот реально можно выбрать для записи
// Слоты перерывов отдаются в выдачу для отрисовки, но недоступны для выбора
func (s *TimeSlot) IsSelectable() bool {
	return s.Available && !s.IsBreak
}
