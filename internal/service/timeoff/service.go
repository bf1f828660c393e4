package timeoff

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	timeoffRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/timeoff"
	companyClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/timeoff/models"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/find_conflicts"
)

// Service сервис для работы с time-off интервалами
type Service struct {
	timeOffRepo   TimeOffRepository
	conflictsUC   ConflictsUseCase
	companyClient CompanyServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса time-off
func NewService(
	timeOffRepo TimeOffRepository,
	conflictsUC ConflictsUseCase,
	companyClient CompanyServiceClient,
	logger Logger,
) *Service {
	return &Service{
		timeOffRepo:   timeOffRepo,
		conflictsUC:   conflictsUC,
		companyClient: companyClient,
		logger:        logger,
	}
}

// Create создает time-off мастера.
// Доступно только менеджерам компании. Существующие записи в интервале не
// отменяются автоматически - они возвращаются как предупреждения
func (s *Service) Create(ctx context.Context, companyID int64, req *models.CreateTimeOffRequest) (*models.CreateTimeOffResponse, error) {
	s.logger.Info("Create: creating time off for company=%d, staff=%d by user=%d",
		companyID, req.StaffID, req.UserID)

	// 1. Проверяем компанию, права доступа и существование сотрудника
	company, err := s.companyClient.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, companyClient.ErrCompanyNotFound) {
			s.logger.Warn("Create: company id=%d not found", companyID)
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("Create: failed to get company id=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}
	if !company.IsManager(req.UserID) {
		s.logger.Warn("Create: user=%d is not a manager of company=%d", req.UserID, companyID)
		return nil, ErrAccessDenied
	}
	if _, ok := company.StaffByID(req.StaffID); !ok {
		s.logger.Warn("Create: staff id=%d not found in company=%d", req.StaffID, companyID)
		return nil, ErrStaffNotFound
	}

	// 2. Конвертируем локальные даты в UTC интервал в таймзоне мастера
	tz := company.StaffTimezone(req.StaffID)
	timeOff, err := req.ToDomainTimeOff(companyID, tz)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Создаем time-off
	created, err := s.timeOffRepo.Create(ctx, timeOff)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	resp := &models.CreateTimeOffResponse{TimeOff: *models.FromDomainTimeOff(created)}

	// 4. Собираем предупреждения о записях в этом интервале. Ошибка здесь
	// не откатывает создание - time-off уже сохранен
	conflicts, err := s.conflictsUC.Execute(ctx, find_conflicts.Request{
		CompanyID: companyID,
		StaffID:   req.StaffID,
		StartUTC:  created.Interval.Start,
		EndUTC:    created.Interval.End,
	})
	if err != nil {
		s.logger.Warn("Create: failed to collect affected appointments for time off id=%d: %v", created.ID, err)
	} else {
		resp.AffectedAppointments = models.AffectedFromConflicts(conflicts)
	}

	s.logger.Info("Create: successfully created time off id=%d (%d affected appointments)",
		created.ID, len(resp.AffectedAppointments))
	return resp, nil
}

// GetByStaff возвращает time-off мастера за период.
// Публичный метод - занятость мастера видна всем
func (s *Service) GetByStaff(ctx context.Context, req *models.GetTimeOffRequest) (*models.TimeOffListResponse, error) {
	s.logger.Info("GetByStaff: fetching time off for staff=%d", req.StaffID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetByStaff: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	timeOffs, err := s.timeOffRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetByStaff: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetByStaff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByStaff: successfully fetched %d time off entries for staff=%d", len(timeOffs), req.StaffID)
	return models.FromDomainTimeOffList(timeOffs), nil
}

// UpdateStatus одобряет или отклоняет time-off.
// Доступно только менеджерам компании
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateTimeOffStatusRequest) (*models.TimeOffResponse, error) {
	s.logger.Info("UpdateStatus: updating time off id=%d to %s by user=%d", id, req.Status, req.UserID)

	status, err := models.ToDomainTimeOffStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status %q", req.Status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	if status == domain.TimeOffPending {
		s.logger.Warn("UpdateStatus: cannot reset time off id=%d to pending", id)
		return nil, fmt.Errorf("%w: cannot reset to pending", ErrInvalidStatus)
	}

	timeOff, err := s.timeOffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, timeoffRepo.ErrTimeOffNotFound) {
			s.logger.Warn("UpdateStatus: time off id=%d not found", id)
			return nil, ErrTimeOffNotFound
		}
		s.logger.Error("UpdateStatus: repository error for time off id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.requireManager(ctx, timeOff.CompanyID, req.UserID); err != nil {
		s.logger.Warn("UpdateStatus: user=%d has no access to time off id=%d", req.UserID, id)
		return nil, err
	}

	if err := s.timeOffRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, timeoffRepo.ErrTimeOffNotFound) {
			return nil, ErrTimeOffNotFound
		}
		s.logger.Error("UpdateStatus: repository error for time off id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	updated, err := s.timeOffRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to re-fetch time off id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated time off id=%d to %s", id, status)
	return models.FromDomainTimeOff(updated), nil
}

// Delete удаляет time-off.
// Доступно только менеджерам компании
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	s.logger.Info("Delete: deleting time off id=%d by user=%d", id, userID)

	timeOff, err := s.timeOffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, timeoffRepo.ErrTimeOffNotFound) {
			s.logger.Warn("Delete: time off id=%d not found", id)
			return ErrTimeOffNotFound
		}
		s.logger.Error("Delete: repository error for time off id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.requireManager(ctx, timeOff.CompanyID, userID); err != nil {
		s.logger.Warn("Delete: user=%d has no access to time off id=%d", userID, id)
		return err
	}

	if err := s.timeOffRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, timeoffRepo.ErrTimeOffNotFound) {
			return ErrTimeOffNotFound
		}
		s.logger.Error("Delete: repository error for time off id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted time off id=%d", id)
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
