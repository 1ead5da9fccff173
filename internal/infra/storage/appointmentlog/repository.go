package appointmentlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий аудит-лога записей
// Лог append-only: записи не изменяются и не удаляются
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудит-лога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет одну запись в аудит-лог
func (r *Repository) Append(ctx context.Context, entry *domain.AppointmentLogEntry) error {
	return r.AppendBatch(ctx, []*domain.AppointmentLogEntry{entry})
}

// AppendBatch добавляет пачку записей одним INSERT
// Все записи пачки получают одинаковый created_at (NOW() стабилен внутри
// выражения) - несколько изменений полей одним действием пользователя
// дают по записи на поле с общим таймстемпом
func (r *Repository) AppendBatch(ctx context.Context, entries []*domain.AppointmentLogEntry) error {
	if len(entries) == 0 {
		return ErrEmptyBatch
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("appointment_logs").
		Columns("appointment_id", "actor_user_id", "action", "details")

	for _, entry := range entries {
		details, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("%w: AppendBatch: %v", ErrMarshalDetails, err)
		}
		insertBuilder = insertBuilder.Values(
			entry.AppointmentID,
			entry.ActorUserID,
			entry.Action,
			details,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: AppendBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendBatch - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByAppointment возвращает историю записи в обратном хронологическом
// порядке (сначала новые) - так её отображает UI
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.AppointmentLogEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"actor_user_id",
		"action",
		"details",
		"created_at",
	).
		From("appointment_logs").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("created_at DESC, id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.AppointmentLogEntry, 0)

	for rows.Next() {
		var entry domain.AppointmentLogEntry
		var details []byte
		var createdAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.AppointmentID,
			&entry.ActorUserID,
			&entry.Action,
			&details,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByAppointment - scan row: %v", ErrScanRow, err)
		}

		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("%w: ListByAppointment - unmarshal details: %v", ErrScanRow, err)
			}
		}

		entry.CreatedAt = createdAt.Time
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
