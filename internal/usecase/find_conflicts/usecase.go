package find_conflicts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleconfig"
)

// UseCase для поиска коллизий предложенного интервала с расписанием мастера
type UseCase struct {
	appointmentRepo AppointmentRepository
	timeOffRepo     TimeOffRepository
	configRepo      ConfigRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр UseCase
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timeOffRepo TimeOffRepository,
	configRepo ConfigRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timeOffRepo:     timeOffRepo,
		configRepo:      configRepo,
		logger:          logger,
	}
}

// Execute возвращает все пересечения интервала [StartUTC, EndUTC) с
// активными записями и time-off мастера. Проверка read-only: решение о
// блокировке принимает вызывающий по флагам Advisory / HasBlocking.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	proposed, err := domain.NewTimeInterval(req.StartUTC, req.EndUTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}

	// 2. Конфигурация расписания: буфер и политика pending time-off
	cfg, err := uc.configRepo.GetByCompany(ctx, req.CompanyID)
	if err != nil {
		if !errors.Is(err, scheduleconfig.ErrConfigNotFound) {
			uc.logger.Error("find_conflicts: failed to load schedule config for company %d: %v", req.CompanyID, err)
			return nil, fmt.Errorf("%w: load schedule config", ErrInternal)
		}
		cfg = domain.DefaultScheduleConfig(req.CompanyID)
	}

	buffer := time.Duration(cfg.BufferMinutes) * time.Minute

	// Диапазон выборки расширен буфером: занятый интервал конфликтует и
	// через свою буферную зону
	queryRange := proposed.Pad(buffer)

	// 3. Активные записи мастера в диапазоне
	appointments, err := uc.appointmentRepo.GetByStaffWithFilter(ctx, domain.StaffAppointmentsFilter{
		StaffID:      req.StaffID,
		Range:        &queryRange,
		OnlyBlocking: true,
	})
	if err != nil {
		uc.logger.Error("find_conflicts: failed to load appointments for staff %d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: load appointments", ErrInternal)
	}

	// 4. Time-off мастера в диапазоне. Pending выбираются всегда: при
	// неблокирующей политике они возвращаются как advisory-предупреждения
	timeOffs, err := uc.timeOffRepo.GetWithFilter(ctx, domain.TimeOffFilter{
		StaffID:  req.StaffID,
		Range:    &queryRange,
		Statuses: []domain.TimeOffStatus{domain.TimeOffApproved, domain.TimeOffPending},
	})
	if err != nil {
		uc.logger.Error("find_conflicts: failed to load time-off for staff %d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: load time-off", ErrInternal)
	}

	// 5. Собираем коллизии
	conflicts := make([]domain.Conflict, 0)

	for _, appt := range appointments {
		if req.ExcludeAppointmentID != nil && appt.ID == *req.ExcludeAppointmentID {
			continue
		}
		if !proposed.Overlaps(appt.Interval.Pad(buffer)) {
			continue
		}
		conflicts = append(conflicts, domain.Conflict{
			Kind:     domain.ConflictAppointment,
			ID:       appt.ID,
			Summary:  appt.ServiceName,
			Interval: appt.Interval,
			Advisory: false,
		})
	}

	for _, t := range timeOffs {
		if !proposed.Overlaps(t.Interval.Pad(buffer)) {
			continue
		}
		summary := "time off"
		if t.Reason != nil && *t.Reason != "" {
			summary = *t.Reason
		}
		conflicts = append(conflicts, domain.Conflict{
			Kind:     domain.ConflictTimeOff,
			ID:       t.ID,
			Summary:  summary,
			Interval: t.Interval,
			Advisory: t.IsAdvisory(cfg.PendingTimeOffBlocks),
		})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Interval.Start.Equal(conflicts[j].Interval.Start) {
			return conflicts[i].ID < conflicts[j].ID
		}
		return conflicts[i].Interval.Start.Before(conflicts[j].Interval.Start)
	})

	hasBlocking := false
	for _, c := range conflicts {
		if !c.Advisory {
			hasBlocking = true
			break
		}
	}

	return &Response{Conflicts: conflicts, HasBlocking: hasBlocking}, nil
}
