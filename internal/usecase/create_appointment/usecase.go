package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleconfig"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ScheduleService/internal/recurrence"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeconv"
)

// UseCase оркестратор создания записи: проверяет участников через внешние
// сервисы, разворачивает повторения и бронирует каждый интервал в отдельной
// SERIALIZABLE транзакции
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	timeOffRepo      TimeOffRepository
	configRepo       ConfigRepository
	txManager        TransactionManager
	companyClient    CompanyServiceClient
	userClient       UserServiceClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр UseCase
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	timeOffRepo TimeOffRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	companyClient CompanyServiceClient,
	userClient UserServiceClient,
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
		txManager:        txManager,
		companyClient:    companyClient,
		userClient:       userClient,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// bookingContext собранные один раз данные, общие для всех повторений серии
type bookingContext struct {
	tz           string
	service      *companyservice.Service
	cfg          *domain.ScheduleConfig
	customerName *string
	now          time.Time
	today        string // Текущая локальная дата (YYYY-MM-DD)
}

// Execute создает запись (или серию записей при наличии recurrence)
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 2. Компания, сотрудник, таймзона
	company, err := uc.companyClient.GetCompany(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, companyservice.ErrCompanyNotFound) {
			return nil, fmt.Errorf("%w: company %d", ErrCompanyNotFound, req.CompanyID)
		}
		uc.logger.Error("create_appointment: failed to fetch company %d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: fetch company", ErrInternal)
	}

	staff, ok := company.StaffByID(req.StaffID)
	if !ok {
		return nil, fmt.Errorf("%w: staff %d in company %d", ErrStaffNotFound, req.StaffID, req.CompanyID)
	}
	if !staff.IsActive {
		return nil, fmt.Errorf("%w: staff %d", ErrStaffInactive, req.StaffID)
	}

	tz := company.StaffTimezone(req.StaffID)
	if _, err := timeconv.Location(tz); err != nil {
		uc.logger.Error("create_appointment: company %d has invalid timezone %q: %v", req.CompanyID, tz, err)
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}

	// 3. Услуга
	service, err := uc.companyClient.GetService(ctx, req.CompanyID, req.ServiceID)
	if err != nil {
		if errors.Is(err, companyservice.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: service %d", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("create_appointment: failed to fetch service %d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: fetch service", ErrInternal)
	}
	if !service.IsActive {
		return nil, fmt.Errorf("%w: service %d", ErrServiceInactive, req.ServiceID)
	}

	// 4. Клиент. При недоступности UserService запись создается без
	// денормализованного имени - бронирование важнее истории
	var customerName *string
	customerNameMissing := false
	customer, err := uc.userClient.GetCustomerWithGracefulDegradation(ctx, req.CustomerID)
	switch {
	case err == nil:
		customerName = &customer.Name
	case errors.Is(err, userservice.ErrCustomerNotFound):
		return nil, fmt.Errorf("%w: customer %d", ErrCustomerNotFound, req.CustomerID)
	case errors.Is(err, userservice.ErrServiceDegraded):
		customerNameMissing = true
	default:
		uc.logger.Error("create_appointment: failed to fetch customer %d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: fetch customer", ErrInternal)
	}

	// 5. Конфигурация расписания
	cfg, err := uc.configRepo.GetByCompany(ctx, req.CompanyID)
	if err != nil {
		if !errors.Is(err, scheduleconfig.ErrConfigNotFound) {
			uc.logger.Error("create_appointment: failed to load schedule config for company %d: %v", req.CompanyID, err)
			return nil, fmt.Errorf("%w: load schedule config", ErrInternal)
		}
		cfg = domain.DefaultScheduleConfig(req.CompanyID)
	}

	now := uc.timeProvider.Now()
	today, _, err := timeconv.ToLocal(now, tz)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve current local date", ErrInternal)
	}

	bctx := &bookingContext{
		tz:           tz,
		service:      service,
		cfg:          cfg,
		customerName: customerName,
		now:          now,
		today:        today,
	}

	// 6. Разворачиваем серию в список локальных дат
	dates, truncated, err := uc.expandDates(req)
	if err != nil {
		return nil, err
	}

	// 7. Бронируем каждую дату. Каждое повторение идет в собственной
	// транзакции: занятая дата серии не откатывает остальные
	resp := &Response{
		Created:             make([]*domain.Appointment, 0, len(dates)),
		Failed:              make([]OccurrenceFailure, 0),
		Truncated:           truncated,
		CustomerNameMissing: customerNameMissing,
	}

	for _, date := range dates {
		created, err := uc.bookOccurrence(ctx, req, bctx, date)
		if err != nil {
			// Одиночная запись: ошибка возвращается как есть
			if req.Recurrence == nil {
				return nil, err
			}
			resp.Failed = append(resp.Failed, OccurrenceFailure{
				Date:   date.Format(domain.DateFormat),
				Reason: failureReason(err),
			})
			continue
		}
		resp.Created = append(resp.Created, created)
	}

	if req.Recurrence != nil && len(resp.Created) == 0 {
		return nil, fmt.Errorf("%w: %d occurrences", ErrAllOccurrencesFailed, len(resp.Failed))
	}

	uc.logger.Info("create_appointment: company=%d staff=%d customer=%d created=%d failed=%d",
		req.CompanyID, req.StaffID, req.CustomerID, len(resp.Created), len(resp.Failed))

	return resp, nil
}

// expandDates разворачивает запрос в список локальных дат серии
func (uc *UseCase) expandDates(req Request) ([]time.Time, bool, error) {
	if req.Recurrence == nil {
		return []time.Time{req.Date}, false, nil
	}

	freq, err := recurrence.ParseFrequency(req.Recurrence.Frequency)
	if err != nil {
		return nil, false, fmt.Errorf("%w: frequency %q", ErrInvalidRecurrence, req.Recurrence.Frequency)
	}

	dates, truncated, err := recurrence.Expand(req.Date, freq, req.Recurrence.UntilDate)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}

	return dates, truncated, nil
}

// bookOccurrence бронирует один интервал серии в SERIALIZABLE транзакции
func (uc *UseCase) bookOccurrence(ctx context.Context, req Request, bctx *bookingContext, date time.Time) (*domain.Appointment, error) {
	dateStr := date.Format(domain.DateFormat)

	// Проверки дат в локальном календаре компании
	if dateStr < bctx.today {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidDate, dateStr)
	}
	if bctx.cfg.HasAdvanceBookingLimit() {
		horizon, _, err := timeconv.ToLocal(bctx.now.AddDate(0, 0, bctx.cfg.AdvanceBookingDays), bctx.tz)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve booking horizon", ErrInternal)
		}
		if dateStr > horizon {
			return nil, fmt.Errorf("%w: date %s exceeds %d days horizon", ErrDateTooFarInFuture, dateStr, bctx.cfg.AdvanceBookingDays)
		}
	}

	// Конвертация в UTC выполняется отдельно для каждой даты: смещение
	// таймзоны может отличаться между повторениями (переход на летнее время)
	startUTC, err := timeconv.ToUTC(dateStr, req.StartTime, bctx.tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	duration := time.Duration(bctx.service.DurationMinutes) * time.Minute
	interval, err := domain.NewTimeInterval(startUTC, startUTC.Add(duration))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	// Минимальное время до записи
	notice := time.Duration(bctx.cfg.MinBookingNoticeMinutes) * time.Minute
	if startUTC.Before(bctx.now.Add(notice)) {
		return nil, fmt.Errorf("%w: start is within %d minutes notice", ErrTooLateToBook, bctx.cfg.MinBookingNoticeMinutes)
	}

	// Интервал обязан целиком попадать в рабочее окно мастера
	if err := uc.checkWorkingHours(ctx, req.StaffID, dateStr, bctx.tz, interval); err != nil {
		return nil, err
	}

	price := 0.0
	if bctx.service.Price != nil {
		price = *bctx.service.Price
	}

	appt := &domain.Appointment{
		CompanyID:    req.CompanyID,
		StaffID:      req.StaffID,
		ServiceID:    req.ServiceID,
		CustomerID:   req.CustomerID,
		Interval:     interval,
		Status:       domain.StatusPending,
		ServiceName:  bctx.service.Name,
		ServicePrice: price,
		CustomerName: bctx.customerName,
		Notes:        req.Notes,
	}

	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Повторная проверка занятости под блокировкой строк. Exclusion
		// constraint в БД остается последней линией защиты от гонок
		if err := uc.checkSlotFree(txCtx, req.StaffID, bctx.cfg, interval); err != nil {
			return err
		}

		var err error
		created, err = uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointment.ErrSlotUnavailable) {
				return fmt.Errorf("%w: interval is already booked", ErrSlotUnavailable)
			}
			return fmt.Errorf("%w: create appointment: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if isUsecaseError(err) {
			return nil, err
		}
		uc.logger.Error("create_appointment: failed to book %s for staff %d: %v", dateStr, req.StaffID, err)
		return nil, fmt.Errorf("%w: book occurrence", ErrInternal)
	}

	return created, nil
}

// checkWorkingHours проверяет, что интервал целиком лежит в одном из
// рабочих окон мастера на эту дату
func (uc *UseCase) checkWorkingHours(ctx context.Context, staffID int64, dateStr, tz string, interval domain.TimeInterval) error {
	dayStart, _, err := timeconv.LocalDayRange(dateStr, tz)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, dateStr)
	}

	loc, _ := timeconv.Location(tz)
	weekday := dayStart.In(loc).Weekday()

	rules, err := uc.availabilityRepo.GetByStaffAndWeekday(ctx, staffID, weekday)
	if err != nil {
		uc.logger.Error("create_appointment: failed to load availability rules for staff %d: %v", staffID, err)
		return fmt.Errorf("%w: load availability rules", ErrInternal)
	}

	for _, rule := range rules {
		windowStart, err := timeconv.ToUTC(dateStr, rule.LocalStart, tz)
		if err != nil {
			continue
		}
		windowEnd, err := timeconv.ToUTC(dateStr, rule.LocalEnd, tz)
		if err != nil {
			continue
		}
		window := domain.TimeInterval{Start: windowStart, End: windowEnd}
		if window.Contains(interval) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s %s", ErrOutsideWorkingHours, dateStr, interval.Start.Format("15:04"))
}

// checkSlotFree проверяет занятость интервала внутри транзакции:
// пересечения с активными записями (под FOR UPDATE) и блокирующим time-off
func (uc *UseCase) checkSlotFree(ctx context.Context, staffID int64, cfg *domain.ScheduleConfig, interval domain.TimeInterval) error {
	buffer := time.Duration(cfg.BufferMinutes) * time.Minute
	queryRange := interval.Pad(buffer)

	appointments, err := uc.appointmentRepo.GetByStaffWithFilter(ctx, domain.StaffAppointmentsFilter{
		StaffID:      staffID,
		Range:        &queryRange,
		OnlyBlocking: true,
		ForUpdate:    true,
	})
	if err != nil {
		return fmt.Errorf("%w: load appointments: %v", ErrInternal, err)
	}
	for _, appt := range appointments {
		if interval.Overlaps(appt.Interval.Pad(buffer)) {
			return fmt.Errorf("%w: overlaps appointment %d", ErrSlotUnavailable, appt.ID)
		}
	}

	statuses := []domain.TimeOffStatus{domain.TimeOffApproved}
	if cfg.PendingTimeOffBlocks {
		statuses = append(statuses, domain.TimeOffPending)
	}
	timeOffs, err := uc.timeOffRepo.GetWithFilter(ctx, domain.TimeOffFilter{
		StaffID:  staffID,
		Range:    &queryRange,
		Statuses: statuses,
	})
	if err != nil {
		return fmt.Errorf("%w: load time-off: %v", ErrInternal, err)
	}
	for _, t := range timeOffs {
		if !t.Blocks(cfg.PendingTimeOffBlocks) {
			continue
		}
		if interval.Overlaps(t.Interval.Pad(buffer)) {
			return fmt.Errorf("%w: overlaps time-off %d", ErrSlotUnavailable, t.ID)
		}
	}

	return nil
}

// isUsecaseError проверяет, относится ли ошибка к публичным ошибкам usecase
func isUsecaseError(err error) bool {
	for _, target := range []error{
		ErrInvalidDate,
		ErrDateTooFarInFuture,
		ErrTooLateToBook,
		ErrOutsideWorkingHours,
		ErrSlotUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// failureReason возвращает причину для ответа о частично созданной серии
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		return "slot is unavailable"
	case errors.Is(err, ErrOutsideWorkingHours):
		return "outside working hours"
	case errors.Is(err, ErrTooLateToBook):
		return "booking notice is too short"
	case errors.Is(err, ErrInvalidDate):
		return "date is in the past"
	case errors.Is(err, ErrDateTooFarInFuture):
		return "date is too far in the future"
	default:
		return "internal error"
	}
}
