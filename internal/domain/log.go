package domain

import "time"

// LogAction тип изменения записи в аудит-логе
type LogAction string

const (
	LogActionCreate         LogAction = "create"
	LogActionTimeChange     LogAction = "time_change"
	LogActionStaffChange    LogAction = "staff_change"
	LogActionServiceChange  LogAction = "service_change"
	LogActionDurationChange LogAction = "duration_change"
	LogActionPhoneChange    LogAction = "phone_change"
	LogActionStatusChange   LogAction = "status_change"
)

// IsValid проверяет, что действие - одно из известных действий лога
func (a LogAction) IsValid() bool {
	switch a {
	case LogActionCreate, LogActionTimeChange, LogActionStaffChange,
		LogActionServiceChange, LogActionDurationChange,
		LogActionPhoneChange, LogActionStatusChange:
		return true
	}
	return false
}

// AppointmentLogEntry append-only запись аудит-лога изменений записи
// Записи неизменяемы и никогда не переупорядочиваются; вместе они
// образуют единственную историю записи, отдаваемую UI в обратном
// хронологическом порядке.
type AppointmentLogEntry struct {
	ID            int64
	AppointmentID int64
	ActorUserID   *int64
	Action        LogAction
	Details       map[string]interface{}
	CreatedAt     time.Time
}

// NewFieldChangeDetails детали изменения одного поля (старое и новое значение)
func NewFieldChangeDetails(oldValue, newValue interface{}) map[string]interface{} {
	return map[string]interface{}{
		"old": oldValue,
		"new": newValue,
	}
}

// NewStatusChangeDetails детали перехода статуса
func NewStatusChangeDetails(oldStatus, newStatus AppointmentStatus, reason string) map[string]interface{} {
	details := map[string]interface{}{
		"old_status": string(oldStatus),
		"new_status": string(newStatus),
	}
	if reason != "" {
		details["reason"] = reason
	}
	return details
}
