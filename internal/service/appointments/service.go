package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	companyClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/find_conflicts"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	createUC        CreateUseCase
	slotsUC         SlotsUseCase
	conflictsUC     ConflictsUseCase
	companyClient   CompanyServiceClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	createUC CreateUseCase,
	slotsUC SlotsUseCase,
	conflictsUC ConflictsUseCase,
	companyClient CompanyServiceClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		createUC:        createUC,
		slotsUC:         slotsUC,
		conflictsUC:     conflictsUC,
		companyClient:   companyClient,
		logger:          logger,
	}
}

// Create создает запись (или серию записей) от имени клиента
func (s *Service) Create(ctx context.Context, companyID, customerID int64, req *models.CreateAppointmentRequest) (*models.CreateAppointmentResponse, error) {
	s.logger.Info("Create: creating appointment for company=%d, staff=%d, customer=%d",
		companyID, req.StaffID, customerID)

	ucReq, err := req.ToUseCaseRequest(companyID, customerID)
	if err != nil {
		s.logger.Warn("Create: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resp, err := s.createUC.Execute(ctx, ucReq)
	if err != nil {
		return nil, err
	}

	tz := s.resolveTimezone(ctx, companyID, req.StaffID)

	s.logger.Info("Create: successfully created %d appointment(s) for customer=%d", len(resp.Created), customerID)
	return models.FromCreateResponse(resp, tz), nil
}

// GetAvailableSlots возвращает доступные слоты мастера на дату.
// Публичный метод - доступен всем
func (s *Service) GetAvailableSlots(ctx context.Context, companyID, staffID, serviceID int64, date string) (*models.AvailableSlotsResponse, error) {
	s.logger.Info("GetAvailableSlots: company=%d, staff=%d, service=%d, date=%s",
		companyID, staffID, serviceID, date)

	parsed, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		s.logger.Warn("GetAvailableSlots: invalid date %q", date)
		return nil, fmt.Errorf("%w: date %q", ErrInvalidInput, date)
	}

	resp, err := s.slotsUC.Execute(ctx, get_available_slots.Request{
		CompanyID: companyID,
		StaffID:   staffID,
		ServiceID: serviceID,
		Date:      parsed,
	})
	if err != nil {
		return nil, err
	}

	return models.FromSlotsResponse(resp), nil
}

// FindConflicts возвращает коллизии интервала с расписанием мастера.
// Доступно только менеджерам компании
func (s *Service) FindConflicts(ctx context.Context, userID, companyID, staffID int64, start, end time.Time) (*models.ConflictsResponse, error) {
	s.logger.Info("FindConflicts: company=%d, staff=%d, interval=[%s, %s) by user=%d",
		companyID, staffID, start.Format(time.RFC3339), end.Format(time.RFC3339), userID)

	if err := s.requireManager(ctx, companyID, userID); err != nil {
		return nil, err
	}

	resp, err := s.conflictsUC.Execute(ctx, find_conflicts.Request{
		CompanyID: companyID,
		StaffID:   staffID,
		StartUTC:  start,
		EndUTC:    end,
	})
	if err != nil {
		return nil, err
	}

	return models.FromConflictsResponse(resp), nil
}

// GetByID получает запись по ID.
// Доступно клиенту записи и менеджерам компании
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d by user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if appt.CustomerID != userID {
		if err := s.requireManager(ctx, appt.CompanyID, userID); err != nil {
			s.logger.Warn("GetByID: user=%d has no access to appointment id=%d", userID, id)
			return nil, ErrAccessDenied
		}
	}

	tz := s.resolveTimezone(ctx, appt.CompanyID, appt.StaffID)
	return models.FromDomainAppointment(appt, tz), nil
}

// GetByCustomer получает историю записей клиента
func (s *Service) GetByCustomer(ctx context.Context, customerID int64, status *string) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetByCustomer: fetching appointments for customer=%d", customerID)

	filter := domain.CustomerAppointmentsFilter{CustomerID: customerID}
	if status != nil {
		domainStatus, err := models.ToDomainAppointmentStatus(*status)
		if err != nil {
			s.logger.Warn("GetByCustomer: invalid status %q", *status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &domainStatus
	}

	appointments, err := s.appointmentRepo.GetByCustomer(ctx, filter)
	if err != nil {
		s.logger.Error("GetByCustomer: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetByCustomer - repository error: %v", ErrInternal, err)
	}

	// Записи клиента могут относиться к разным компаниям - таймзона
	// определяется для каждой компании отдельно
	result := &models.AppointmentListResponse{Appointments: make([]models.AppointmentResponse, 0, len(appointments))}
	tzByCompany := make(map[int64]string)
	for _, appt := range appointments {
		tz, ok := tzByCompany[appt.CompanyID]
		if !ok {
			tz = s.resolveTimezone(ctx, appt.CompanyID, appt.StaffID)
			tzByCompany[appt.CompanyID] = tz
		}
		result.Appointments = append(result.Appointments, *models.FromDomainAppointment(appt, tz))
	}

	s.logger.Info("GetByCustomer: successfully fetched %d appointments for customer=%d", len(result.Appointments), customerID)
	return result, nil
}

// GetByStaff получает записи мастера за период.
// Доступно только менеджерам компании
func (s *Service) GetByStaff(ctx context.Context, req *models.GetStaffAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetByStaff: fetching appointments for company=%d, staff=%d by user=%d",
		req.CompanyID, req.StaffID, req.UserID)

	if err := s.requireManager(ctx, req.CompanyID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetByStaff: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetByStaffWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetByStaff: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetByStaff - repository error: %v", ErrInternal, err)
	}

	tz := s.resolveTimezone(ctx, req.CompanyID, req.StaffID)

	s.logger.Info("GetByStaff: successfully fetched %d appointments for staff=%d", len(appointments), req.StaffID)
	return models.FromDomainAppointmentList(appointments, tz), nil
}

// Cancel отменяет запись.
// Клиент отменяет свою запись, менеджер компании - любую запись компании
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Статус отмены зависит от того, кто отменяет
	var status domain.AppointmentStatus
	switch {
	case appt.CustomerID == req.UserID:
		status = domain.StatusCancelledByCustomer
	default:
		if err := s.requireManager(ctx, appt.CompanyID, req.UserID); err != nil {
			s.logger.Warn("Cancel: user=%d has no access to appointment id=%d", req.UserID, id)
			return nil, ErrAccessDenied
		}
		status = domain.StatusCancelledByCompany
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d in status %s cannot be cancelled", id, appt.Status)
		return nil, fmt.Errorf("%w: status %s", ErrCannotCancel, appt.Status)
	}

	if err := s.appointmentRepo.Cancel(ctx, id, status, req.CancellationReason); err != nil {
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	updated, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Cancel: failed to re-fetch appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	tz := s.resolveTimezone(ctx, updated.CompanyID, updated.StaffID)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d with status %s", id, status)
	return models.FromDomainAppointment(updated, tz), nil
}

// UpdateStatus обновляет статус записи.
// Доступно только менеджерам компании
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to %s by user=%d", id, req.Status, req.UserID)

	status, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status %q", req.Status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.requireManager(ctx, appt.CompanyID, req.UserID); err != nil {
		s.logger.Warn("UpdateStatus: user=%d is not a manager of company=%d", req.UserID, appt.CompanyID)
		return nil, ErrAccessDenied
	}

	if err := validateStatusTransition(appt.Status, status); err != nil {
		s.logger.Warn("UpdateStatus: invalid transition %s -> %s for appointment id=%d", appt.Status, status, id)
		return nil, err
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	updated, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to re-fetch appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	tz := s.resolveTimezone(ctx, updated.CompanyID, updated.StaffID)

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to %s", id, status)
	return models.FromDomainAppointment(updated, tz), nil
}

// validateStatusTransition проверяет допустимость смены статуса менеджером.
// Отмена идет через Cancel, поэтому здесь допустимы только рабочие статусы
func validateStatusTransition(from, to domain.AppointmentStatus) error {
	switch to {
	case domain.StatusConfirmed:
		if from != domain.StatusPending {
			return fmt.Errorf("%w: cannot confirm from %s", ErrInvalidStatus, from)
		}
	case domain.StatusCompleted, domain.StatusNoShow:
		if from != domain.StatusPending && from != domain.StatusConfirmed {
			return fmt.Errorf("%w: cannot set %s from %s", ErrInvalidStatus, to, from)
		}
	default:
		return fmt.Errorf("%w: %s is not allowed here", ErrInvalidStatus, to)
	}
	return nil
}

// requireManager проверяет, что пользователь - менеджер компании
func (s *Service) requireManager(ctx context.Context, companyID, userID int64) error {
	company, err := s.companyClient.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, companyClient.ErrCompanyNotFound) {
			return ErrCompanyNotFound
		}
		s.logger.Error("requireManager: failed to get company id=%d: %v", companyID, err)
		return fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}
	if !company.IsManager(userID) {
		return ErrAccessDenied
	}
	return nil
}

// resolveTimezone возвращает таймзону мастера или UTC, если компания
// недоступна. Ошибка здесь не фатальна: ответ вернется с UTC временами
func (s *Service) resolveTimezone(ctx context.Context, companyID, staffID int64) string {
	company, err := s.companyClient.GetCompany(ctx, companyID)
	if err != nil {
		s.logger.Warn("resolveTimezone: failed to get company id=%d: %v", companyID, err)
		return "UTC"
	}
	return company.StaffTimezone(staffID)
}
