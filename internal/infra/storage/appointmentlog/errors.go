package appointmentlog

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointmentlog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointmentlog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointmentlog.repository: failed to scan row")

	// ErrMarshalDetails возвращается при ошибке сериализации деталей записи лога
	ErrMarshalDetails = errors.New("appointmentlog.repository: failed to marshal details")

	// ErrEmptyBatch возвращается при попытке записать пустую пачку
	ErrEmptyBatch = errors.New("appointmentlog.repository: empty batch")
)
