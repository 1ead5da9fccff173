package find_conflict

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на поиск ближайшей записи клиента
type Request struct {
	CustomerID    int64 // ID клиента
	LookaheadDays int   // Горизонт поиска в днях; 0 - использовать дефолт
	// ProposedDate дата, на которую клиент собирается записаться
	// Используется для вычисления флага IsSameDay
	ProposedDate time.Time
}

// Response модель ответа поиска конфликта
type Response struct {
	// HasConflict true, если у клиента есть будущая запись в горизонте поиска
	HasConflict bool
	// Appointment ближайшая по времени начала запись; nil, если конфликта нет
	Appointment *domain.Appointment
	// IsSameDay true, если найденная запись на ту же дату, что и ProposedDate
	IsSameDay bool
	// Degraded true, если проверка не удалась и ответ "конфликта нет"
	// означает лишь "подтвердить конфликт не удалось"
	Degraded bool
}
