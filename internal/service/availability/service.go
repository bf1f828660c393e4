package availability

import (
	"context"
	"errors"
	"fmt"

	availabilityRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availability"
	companyClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/availability/models"
)

// Service сервис для работы с правилами еженедельной доступности
type Service struct {
	availabilityRepo AvailabilityRepository
	companyClient    CompanyServiceClient
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	companyClient CompanyServiceClient,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		companyClient:    companyClient,
		logger:           logger,
	}
}

// Create создает правило доступности мастера.
// Доступно только менеджерам компании
func (s *Service) Create(ctx context.Context, companyID int64, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: creating rule for company=%d, staff=%d, weekday=%d by user=%d",
		companyID, req.StaffID, req.Weekday, req.UserID)

	// 1. Валидируем и конвертируем входные данные
	rule, err := req.ToDomainRule(companyID)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем компанию, права доступа и существование сотрудника
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

	// 3. Окна одного дня недели не должны пересекаться между собой
	existing, err := s.availabilityRepo.GetByStaffAndWeekday(ctx, req.StaffID, rule.Weekday)
	if err != nil {
		s.logger.Error("Create: failed to load existing rules for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}
	for _, other := range existing {
		if rule.LocalStart.IsBefore(other.LocalEnd) && other.LocalStart.IsBefore(rule.LocalEnd) {
			s.logger.Warn("Create: rule overlaps existing rule id=%d", other.ID)
			return nil, fmt.Errorf("%w: overlaps rule %d (%s-%s)", ErrRulesOverlap, other.ID, other.LocalStart, other.LocalEnd)
		}
	}

	// 4. Создаем правило
	created, err := s.availabilityRepo.Create(ctx, rule)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created rule id=%d", created.ID)
	return models.FromDomainRule(created), nil
}

// GetByStaff возвращает все правила доступности мастера.
// Публичный метод - расписание мастера видно всем
func (s *Service) GetByStaff(ctx context.Context, staffID int64) (*models.RuleListResponse, error) {
	s.logger.Info("GetByStaff: fetching rules for staff=%d", staffID)

	rules, err := s.availabilityRepo.GetByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("GetByStaff: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetByStaff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByStaff: successfully fetched %d rules for staff=%d", len(rules), staffID)
	return models.FromDomainRuleList(rules), nil
}

// Delete удаляет правило доступности.
// Доступно только менеджерам компании
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	s.logger.Info("Delete: deleting rule id=%d by user=%d", id, userID)

	// 1. Получаем правило для проверки прав доступа
	rule, err := s.availabilityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrRuleNotFound) {
			s.logger.Warn("Delete: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	// 2. Проверяем права доступа
	company, err := s.companyClient.GetCompany(ctx, rule.CompanyID)
	if err != nil {
		if errors.Is(err, companyClient.ErrCompanyNotFound) {
			s.logger.Warn("Delete: company id=%d not found", rule.CompanyID)
			return ErrCompanyNotFound
		}
		s.logger.Error("Delete: failed to get company id=%d: %v", rule.CompanyID, err)
		return fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}
	if !company.IsManager(userID) {
		s.logger.Warn("Delete: user=%d is not a manager of company=%d", userID, rule.CompanyID)
		return ErrAccessDenied
	}

	// 3. Удаляем правило
	if err := s.availabilityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, availabilityRepo.ErrRuleNotFound) {
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted rule id=%d", id)
	return nil
}
