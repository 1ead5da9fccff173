package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	StaffID    int64     // ID сотрудника
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата в локальном времени бизнеса (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time         // Дата, на которую запрашивались слоты
	BusinessID      int64             // ID бизнеса
	StaffID         int64             // ID сотрудника
	ServiceID       int64             // ID услуги
	DurationMinutes int               // Длительность услуги
	Slots           []domain.TimeSlot // Слоты в порядке возрастания времени
}
