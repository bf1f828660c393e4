package scheduleconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	configRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleconfig"
	companyClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/scheduleconfig/models"
)

// Service сервис для работы с конфигурацией расписания компании
type Service struct {
	configRepo    ConfigRepository
	companyClient CompanyServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	companyClient CompanyServiceClient,
	logger Logger,
) *Service {
	return &Service{
		configRepo:    configRepo,
		companyClient: companyClient,
		logger:        logger,
	}
}

// GetByCompany возвращает конфигурацию расписания компании.
// Если конфигурация не настроена, возвращаются дефолтные значения
func (s *Service) GetByCompany(ctx context.Context, companyID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetByCompany: fetching config for company=%d", companyID)

	cfg, err := s.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Info("GetByCompany: company=%d has no config, returning defaults", companyID)
			return models.FromDomainConfig(domain.DefaultScheduleConfig(companyID)), nil
		}
		s.logger.Error("GetByCompany: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: GetByCompany - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByCompany: successfully fetched config id=%d", cfg.ID)
	return models.FromDomainConfig(cfg), nil
}

// Update обновляет конфигурацию расписания компании (upsert).
// Доступно только менеджерам компании. Частичное обновление: не указанные
// поля сохраняют текущие (или дефолтные) значения
func (s *Service) Update(ctx context.Context, companyID int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: updating config for company=%d by user=%d", companyID, req.UserID)

	// 1. Проверяем компанию и права доступа
	company, err := s.companyClient.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, companyClient.ErrCompanyNotFound) {
			s.logger.Warn("Update: company id=%d not found", companyID)
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("Update: failed to get company id=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}
	if !company.IsManager(req.UserID) {
		s.logger.Warn("Update: user=%d is not a manager of company=%d", req.UserID, companyID)
		return nil, ErrAccessDenied
	}

	// 2. Получаем текущую конфигурацию (или дефолтную)
	cfg, err := s.configRepo.GetByCompany(ctx, companyID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("Update: repository error for company=%d: %v", companyID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		cfg = domain.DefaultScheduleConfig(companyID)
	}

	// 3. Применяем изменения и валидируем результат
	req.ApplyToConfig(cfg)
	if err := s.validateConfig(cfg); err != nil {
		s.logger.Warn("Update: validation failed for company=%d: %v", companyID, err)
		return nil, err
	}

	// 4. Сохраняем
	updated, err := s.configRepo.Upsert(ctx, cfg)
	if err != nil {
		s.logger.Error("Update: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated config id=%d for company=%d", updated.ID, companyID)
	return models.FromDomainConfig(updated), nil
}

// validateConfig проверяет границы значений конфигурации
func (s *Service) validateConfig(cfg *domain.ScheduleConfig) error {
	if cfg.BufferMinutes < domain.MinBufferMinutes || cfg.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	if cfg.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || cfg.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}
	if cfg.AdvanceBookingDays < domain.MinAdvanceBookingDays || cfg.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if cfg.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || cfg.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}
	return nil
}
