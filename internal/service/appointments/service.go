package appointments

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис чтения записей и их истории
type Service struct {
	appointmentRepo AppointmentRepository
	logRepo         LogRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	logRepo LogRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logRepo:         logRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// customerID != nil включает проверку владения: клиент видит только свои
// записи, чужая запись выглядит как отсутствующая
func (s *Service) GetByID(ctx context.Context, id int64, customerID *int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if customerID != nil && appt.CustomerID != *customerID {
		s.logger.Warn("GetByID: appointment id=%d belongs to another customer", id)
		return nil, ErrAppointmentNotFound
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments получает записи клиента
// Опционально фильтрует по периоду и статусам
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d", req.CustomerID)

	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCustomerAppointments: invalid filter for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByCustomerWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d",
		len(appointments), req.CustomerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetBusinessAppointments получает записи бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по сотруднику, периоду, статусу и включению
// отмененных/неявочных записей
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBusinessAppointments: fetching appointments for business=%d", req.BusinessID)

	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessAppointments: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAppointments: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessAppointments: successfully fetched %d appointments for business=%d",
		len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetLogs получает историю изменений записи в обратном хронологическом порядке
// customerID != nil включает проверку владения записью
func (s *Service) GetLogs(ctx context.Context, appointmentID int64, customerID *int64) (*models.LogListResponse, error) {
	s.logger.Info("GetLogs: fetching logs for appointment id=%d", appointmentID)

	if appointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetLogs: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetLogs: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetLogs - repository error: %v", ErrInternal, err)
	}

	if customerID != nil && appt.CustomerID != *customerID {
		s.logger.Warn("GetLogs: appointment id=%d belongs to another customer", appointmentID)
		return nil, ErrAppointmentNotFound
	}

	entries, err := s.logRepo.ListByAppointment(ctx, appointmentID)
	if err != nil {
		s.logger.Error("GetLogs: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetLogs - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetLogs: successfully fetched %d log entries for appointment id=%d",
		len(entries), appointmentID)
	return models.FromDomainLogEntries(appointmentID, entries), nil
}
