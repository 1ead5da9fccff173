package check_conflict

import (
	"context"

	findConflict "github.com/m04kA/SMC-AppointmentService/internal/usecase/find_conflict"
)

type FindConflictUseCase interface {
	Execute(ctx context.Context, req *findConflict.Request) (*findConflict.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
