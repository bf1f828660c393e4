package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleconfig"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeconv"
)

// UseCase для получения доступных слотов записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	timeOffRepo      TimeOffRepository
	configRepo       ConfigRepository
	companyClient    CompanyServiceClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр UseCase
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	timeOffRepo TimeOffRepository,
	configRepo ConfigRepository,
	companyClient CompanyServiceClient,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		timeOffRepo:      timeOffRepo,
		configRepo:       configRepo,
		companyClient:    companyClient,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Execute выполняет расчет доступных слотов для мастера на указанную дату
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()
	date := req.Date.Format(domain.DateFormat)

	// 2. Получаем компанию, проверяем сотрудника
	company, err := uc.companyClient.GetCompany(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, companyservice.ErrCompanyNotFound) {
			return nil, fmt.Errorf("%w: company %d", ErrCompanyNotFound, req.CompanyID)
		}
		uc.logger.Error("get_available_slots: failed to fetch company %d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: fetch company", ErrInternal)
	}

	staff, ok := company.StaffByID(req.StaffID)
	if !ok {
		return nil, fmt.Errorf("%w: staff %d in company %d", ErrStaffNotFound, req.StaffID, req.CompanyID)
	}
	if !staff.IsActive {
		return nil, fmt.Errorf("%w: staff %d", ErrStaffInactive, req.StaffID)
	}

	// Таймзона запрашивается заново на каждый вызов - компания может
	// сменить ее в любой момент, кеширование дало бы неверные смещения
	tz := company.StaffTimezone(req.StaffID)
	if _, err := timeconv.Location(tz); err != nil {
		uc.logger.Error("get_available_slots: company %d has invalid timezone %q: %v", req.CompanyID, tz, err)
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}

	// 3. Получаем услугу, проверяем активность
	service, err := uc.companyClient.GetService(ctx, req.CompanyID, req.ServiceID)
	if err != nil {
		if errors.Is(err, companyservice.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: service %d", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("get_available_slots: failed to fetch service %d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: fetch service", ErrInternal)
	}
	if !service.IsActive {
		return nil, fmt.Errorf("%w: service %d", ErrServiceInactive, req.ServiceID)
	}

	// 4. Конфигурация расписания компании (дефолтная, если не настроена)
	cfg, err := uc.configRepo.GetByCompany(ctx, req.CompanyID)
	if err != nil {
		if !errors.Is(err, scheduleconfig.ErrConfigNotFound) {
			uc.logger.Error("get_available_slots: failed to load schedule config for company %d: %v", req.CompanyID, err)
			return nil, fmt.Errorf("%w: load schedule config", ErrInternal)
		}
		cfg = domain.DefaultScheduleConfig(req.CompanyID)
	}

	// 5. Проверяем дату относительно "сегодня" в локальной таймзоне
	today, _, err := timeconv.ToLocal(now, tz)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve current local date", ErrInternal)
	}
	if date < today {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidDate, date)
	}
	if cfg.HasAdvanceBookingLimit() {
		horizon, _, err := timeconv.ToLocal(now.AddDate(0, 0, cfg.AdvanceBookingDays), tz)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve booking horizon", ErrInternal)
		}
		if date > horizon {
			return nil, fmt.Errorf("%w: date %s exceeds %d days horizon", ErrDateTooFarInFuture, date, cfg.AdvanceBookingDays)
		}
	}

	// 6. Правила доступности на день недели запрошенной даты.
	// День недели определяется по локальному календарю.
	dayStart, dayEnd, err := timeconv.LocalDayRange(date, tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}

	loc, _ := timeconv.Location(tz)
	weekday := dayStart.In(loc).Weekday()

	rules, err := uc.availabilityRepo.GetByStaffAndWeekday(ctx, req.StaffID, weekday)
	if err != nil {
		uc.logger.Error("get_available_slots: failed to load availability rules for staff %d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: load availability rules", ErrInternal)
	}

	// Нет правил на этот день недели - мастер не работает, слотов нет
	if len(rules) == 0 {
		return uc.buildResponse(req, tz, nil), nil
	}

	windows, err := buildOpenWindows(rules, date, tz)
	if err != nil {
		uc.logger.Error("get_available_slots: failed to build open windows: %v", err)
		return nil, fmt.Errorf("%w: build open windows", ErrInternal)
	}
	if len(windows) == 0 {
		return uc.buildResponse(req, tz, nil), nil
	}

	// 7. Занятые интервалы: активные записи и блокирующие time-off.
	// Диапазон выборки расширен буфером - запись соседнего дня с буфером
	// может задевать края запрошенного дня.
	buffer := time.Duration(cfg.BufferMinutes) * time.Minute
	queryRange := domain.TimeInterval{
		Start: dayStart.Add(-buffer),
		End:   dayEnd.Add(buffer),
	}

	appointments, err := uc.appointmentRepo.GetByStaffWithFilter(ctx, domain.StaffAppointmentsFilter{
		StaffID:      req.StaffID,
		Range:        &queryRange,
		OnlyBlocking: true,
	})
	if err != nil {
		uc.logger.Error("get_available_slots: failed to load appointments for staff %d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: load appointments", ErrInternal)
	}

	timeOffStatuses := []domain.TimeOffStatus{domain.TimeOffApproved}
	if cfg.PendingTimeOffBlocks {
		timeOffStatuses = append(timeOffStatuses, domain.TimeOffPending)
	}
	timeOffs, err := uc.timeOffRepo.GetWithFilter(ctx, domain.TimeOffFilter{
		StaffID:  req.StaffID,
		Range:    &queryRange,
		Statuses: timeOffStatuses,
	})
	if err != nil {
		uc.logger.Error("get_available_slots: failed to load time-off for staff %d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: load time-off", ErrInternal)
	}

	busy := collectBusyIntervals(appointments, timeOffs, cfg.PendingTimeOffBlocks, buffer)

	// 8. Вычитаем занятое из каждого окна и генерируем слоты
	slots := make([]domain.AvailableSlot, 0)
	for _, window := range windows {
		free := domain.SubtractIntervals(window, busy)
		windowSlots, err := generateSlots(free, service.DurationMinutes, cfg.SlotGranularityMinutes, tz)
		if err != nil {
			uc.logger.Error("get_available_slots: failed to generate slots: %v", err)
			return nil, fmt.Errorf("%w: generate slots", ErrInternal)
		}
		slots = append(slots, windowSlots...)
	}

	// 9. Для сегодняшней даты отбрасываем прошедшие слоты и слоты внутри
	// минимального времени до записи
	if date == today {
		cutoff := now.Add(time.Duration(cfg.MinBookingNoticeMinutes) * time.Minute)
		slots = filterElapsedSlots(slots, cutoff)
	}

	uc.logger.Info("get_available_slots: company=%d staff=%d service=%d date=%s -> %d slots",
		req.CompanyID, req.StaffID, req.ServiceID, date, len(slots))

	return uc.buildResponse(req, tz, slots), nil
}

func (uc *UseCase) buildResponse(req Request, tz string, slots []domain.AvailableSlot) *Response {
	if slots == nil {
		slots = make([]domain.AvailableSlot, 0)
	}
	return &Response{
		Date:      req.Date,
		CompanyID: req.CompanyID,
		StaffID:   req.StaffID,
		ServiceID: req.ServiceID,
		Timezone:  tz,
		Slots:     slots,
	}
}
