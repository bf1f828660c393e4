package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleconfig"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

const (
	testCompanyID = int64(1)
	testStaffID   = int64(10)
	testServiceID = int64(5)
	testTimezone  = "Europe/Moscow"
)

// 2026-03-10 - вторник
var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetByStaffWithFilter(_ context.Context, _ domain.StaffAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type fakeAvailabilityRepo struct {
	rules map[time.Weekday][]*domain.AvailabilityRule
	err   error
}

func (f *fakeAvailabilityRepo) GetByStaffAndWeekday(_ context.Context, _ int64, weekday time.Weekday) ([]*domain.AvailabilityRule, error) {
	return f.rules[weekday], f.err
}

type fakeTimeOffRepo struct {
	timeOffs []*domain.TimeOff
	err      error
}

func (f *fakeTimeOffRepo) GetWithFilter(_ context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error) {
	if f.err != nil {
		return nil, f.err
	}
	matched := make([]*domain.TimeOff, 0, len(f.timeOffs))
	for _, t := range f.timeOffs {
		for _, s := range filter.Statuses {
			if t.Status == s {
				matched = append(matched, t)
				break
			}
		}
	}
	return matched, nil
}

type fakeConfigRepo struct {
	cfg *domain.ScheduleConfig
	err error
}

func (f *fakeConfigRepo) GetByCompany(_ context.Context, _ int64) (*domain.ScheduleConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cfg == nil {
		return nil, scheduleconfig.ErrConfigNotFound
	}
	return f.cfg, nil
}

type fakeCompanyClient struct {
	company    *companyservice.Company
	companyErr error
	service    *companyservice.Service
	serviceErr error
}

func (f *fakeCompanyClient) GetCompany(_ context.Context, _ int64) (*companyservice.Company, error) {
	return f.company, f.companyErr
}

func (f *fakeCompanyClient) GetService(_ context.Context, _, _ int64) (*companyservice.Service, error) {
	return f.service, f.serviceErr
}

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// scenario собирает все зависимости usecase с рабочими дефолтами:
// активный мастер с окном вторника 09:00-17:00, услуга на 60 минут,
// шаг сетки 30 минут, без буфера.
type scenario struct {
	appointments *fakeAppointmentRepo
	availability *fakeAvailabilityRepo
	timeOffs     *fakeTimeOffRepo
	config       *fakeConfigRepo
	company      *fakeCompanyClient
	clock        *fixedClock
}

func newScenario() *scenario {
	return &scenario{
		appointments: &fakeAppointmentRepo{},
		availability: &fakeAvailabilityRepo{
			rules: map[time.Weekday][]*domain.AvailabilityRule{
				time.Tuesday: {
					{ID: 1, CompanyID: testCompanyID, StaffID: testStaffID, Weekday: time.Tuesday, LocalStart: "09:00", LocalEnd: "17:00"},
				},
			},
		},
		timeOffs: &fakeTimeOffRepo{},
		config: &fakeConfigRepo{
			cfg: &domain.ScheduleConfig{
				CompanyID:               testCompanyID,
				BufferMinutes:           0,
				SlotGranularityMinutes:  30,
				AdvanceBookingDays:      0,
				MinBookingNoticeMinutes: 60,
				PendingTimeOffBlocks:    false,
			},
		},
		company: &fakeCompanyClient{
			company: &companyservice.Company{
				ID:       testCompanyID,
				Name:     "Барбершоп",
				Timezone: testTimezone,
				Staff: []companyservice.Staff{
					{ID: testStaffID, Name: "Мастер", IsActive: true},
				},
			},
			service: &companyservice.Service{
				ID:              testServiceID,
				CompanyID:       testCompanyID,
				Name:            "Стрижка",
				DurationMinutes: 60,
				IsActive:        true,
			},
		},
		clock: &fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
}

func (s *scenario) useCase() *UseCase {
	return NewUseCase(s.appointments, s.availability, s.timeOffs, s.config, s.company, s.clock, nopLogger{})
}

// msk строит UTC-инстант из локального московского времени запрошенной даты.
func msk(t *testing.T, clock string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(testTimezone)
	require.NoError(t, err)
	parsed, err := time.ParseInLocation("2006-01-02 15:04", "2026-03-10 "+clock, loc)
	require.NoError(t, err)
	return parsed.UTC()
}

func localStarts(slots []domain.AvailableSlot) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime)
	}
	return out
}

func TestExecute_FreeDay(t *testing.T) {
	s := newScenario()

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, testTimezone, resp.Timezone)
	require.Len(t, resp.Slots, 15)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("16:00"), resp.Slots[14].StartTime)
	assert.Equal(t, msk(t, "09:00"), resp.Slots[0].StartUTC)
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
}

func TestExecute_IsIdempotent(t *testing.T) {
	s := newScenario()
	req := Request{CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate}

	first, err := s.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := s.useCase().Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second, "повторный вызов без изменений данных дает тот же результат")
}

func TestExecute_BlockingAppointmentSplitsDay(t *testing.T) {
	s := newScenario()
	s.appointments.appointments = []*domain.Appointment{
		{
			ID:       100,
			StaffID:  testStaffID,
			Interval: domain.TimeInterval{Start: msk(t, "12:00"), End: msk(t, "13:00")},
			Status:   domain.StatusConfirmed,
		},
	}

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)

	// Услуга 60 минут не помещается перед занятым интервалом позже 11:00
	starts := localStarts(resp.Slots)
	require.Len(t, starts, 12)
	assert.Equal(t, types.TimeString("11:00"), starts[4])
	assert.Equal(t, types.TimeString("13:00"), starts[5])
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	s := newScenario()
	s.appointments.appointments = []*domain.Appointment{
		{
			ID:       100,
			StaffID:  testStaffID,
			Interval: domain.TimeInterval{Start: msk(t, "12:00"), End: msk(t, "13:00")},
			Status:   domain.StatusCancelledByCustomer,
		},
	}

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 15)
}

func TestExecute_BufferAroundAppointments(t *testing.T) {
	s := newScenario()
	s.config.cfg.BufferMinutes = 15
	s.appointments.appointments = []*domain.Appointment{
		{
			ID:       100,
			StaffID:  testStaffID,
			Interval: domain.TimeInterval{Start: msk(t, "12:00"), End: msk(t, "13:00")},
			Status:   domain.StatusPending,
		},
	}

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)

	// Занято 11:45-13:15; до - последний старт 10:30, после - сетка
	// продолжается от края буфера
	starts := localStarts(resp.Slots)
	require.Len(t, starts, 10)
	assert.Equal(t, types.TimeString("10:30"), starts[3])
	assert.Equal(t, types.TimeString("13:15"), starts[4])
}

func TestExecute_ApprovedTimeOffBlocksWholeDay(t *testing.T) {
	s := newScenario()
	s.timeOffs.timeOffs = []*domain.TimeOff{
		{
			ID:       200,
			StaffID:  testStaffID,
			Interval: domain.TimeInterval{Start: msk(t, "00:00"), End: msk(t, "23:59")},
			Status:   domain.TimeOffApproved,
		},
	}

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots)
}

func TestExecute_PendingTimeOffPolicy(t *testing.T) {
	pending := &domain.TimeOff{
		ID:       201,
		StaffID:  testStaffID,
		Interval: domain.TimeInterval{Start: msk(t, "09:00"), End: msk(t, "13:00")},
		Status:   domain.TimeOffPending,
	}

	t.Run("ignored when policy is off", func(t *testing.T) {
		s := newScenario()
		s.timeOffs.timeOffs = []*domain.TimeOff{pending}

		resp, err := s.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Slots, 15)
	})

	t.Run("blocks when policy is on", func(t *testing.T) {
		s := newScenario()
		s.config.cfg.PendingTimeOffBlocks = true
		s.timeOffs.timeOffs = []*domain.TimeOff{pending}

		resp, err := s.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
		})
		require.NoError(t, err)

		starts := localStarts(resp.Slots)
		require.Len(t, starts, 7)
		assert.Equal(t, types.TimeString("13:00"), starts[0])
	})
}

func TestExecute_NoRulesMeansNoSlots(t *testing.T) {
	s := newScenario()
	s.availability.rules = nil

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_SplitShifts(t *testing.T) {
	s := newScenario()
	s.availability.rules[time.Tuesday] = []*domain.AvailabilityRule{
		{ID: 1, StaffID: testStaffID, Weekday: time.Tuesday, LocalStart: "09:00", LocalEnd: "12:00"},
		{ID: 2, StaffID: testStaffID, Weekday: time.Tuesday, LocalStart: "14:00", LocalEnd: "18:00"},
	}

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)

	// 09:00-12:00: старты 09:00-11:00, 14:00-18:00: старты 14:00-17:00
	starts := localStarts(resp.Slots)
	require.Len(t, starts, 12)
	assert.Equal(t, types.TimeString("11:00"), starts[4])
	assert.Equal(t, types.TimeString("14:00"), starts[5])
	assert.Equal(t, types.TimeString("17:00"), starts[11])
}

func TestExecute_TodayDropsSlotsInsideNotice(t *testing.T) {
	s := newScenario()
	// 09:30 по Москве в день запроса, минимальное уведомление 60 минут
	s.clock.now = msk(t, "09:30")

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)

	starts := localStarts(resp.Slots)
	require.Len(t, starts, 12)
	assert.Equal(t, types.TimeString("10:30"), starts[0], "первый слот не раньше now + notice")
}

func TestExecute_DateBounds(t *testing.T) {
	t.Run("past date", func(t *testing.T) {
		s := newScenario()
		s.clock.now = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

		_, err := s.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
		})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("beyond advance booking horizon", func(t *testing.T) {
		s := newScenario()
		s.config.cfg.AdvanceBookingDays = 7
		s.clock.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

		_, err := s.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
		})
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("exactly on the horizon is allowed", func(t *testing.T) {
		s := newScenario()
		s.config.cfg.AdvanceBookingDays = 9
		s.clock.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

		_, err := s.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
		})
		assert.NoError(t, err)
	})
}

func TestExecute_MissingConfigFallsBackToDefaults(t *testing.T) {
	s := newScenario()
	s.config.cfg = nil // репозиторий вернет ErrConfigNotFound

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)

	// Дефолтная сетка 15 минут: старты 09:00..16:00
	assert.Len(t, resp.Slots, 29)
}

func TestExecute_ValidationAndLookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *scenario)
		req     Request
		wantErr error
	}{
		{
			name:    "zero company id",
			mutate:  func(*scenario) {},
			req:     Request{CompanyID: 0, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero date",
			mutate:  func(*scenario) {},
			req:     Request{CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID},
			wantErr: ErrInvalidInput,
		},
		{
			name: "company not found",
			mutate: func(s *scenario) {
				s.company.company = nil
				s.company.companyErr = companyservice.ErrCompanyNotFound
			},
			req:     Request{CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate},
			wantErr: ErrCompanyNotFound,
		},
		{
			name:    "unknown staff",
			mutate:  func(*scenario) {},
			req:     Request{CompanyID: testCompanyID, StaffID: 999, ServiceID: testServiceID, Date: testDate},
			wantErr: ErrStaffNotFound,
		},
		{
			name: "inactive staff",
			mutate: func(s *scenario) {
				s.company.company.Staff[0].IsActive = false
			},
			req:     Request{CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate},
			wantErr: ErrStaffInactive,
		},
		{
			name: "invalid company timezone",
			mutate: func(s *scenario) {
				s.company.company.Timezone = "Invalid/Zone"
			},
			req:     Request{CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate},
			wantErr: ErrInvalidTimezone,
		},
		{
			name: "service not found",
			mutate: func(s *scenario) {
				s.company.service = nil
				s.company.serviceErr = companyservice.ErrServiceNotFound
			},
			req:     Request{CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate},
			wantErr: ErrServiceNotFound,
		},
		{
			name: "inactive service",
			mutate: func(s *scenario) {
				s.company.service.IsActive = false
			},
			req:     Request{CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate},
			wantErr: ErrServiceInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScenario()
			tt.mutate(s)

			_, err := s.useCase().Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_StaffTimezoneOverride(t *testing.T) {
	s := newScenario()
	override := "America/New_York"
	s.company.company.Staff[0].Timezone = &override

	resp, err := s.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID, StaffID: testStaffID, ServiceID: testServiceID, Date: testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, override, resp.Timezone)
	require.NotEmpty(t, resp.Slots)

	// Окно 09:00-17:00 вторника теперь в нью-йоркском времени (EDT, UTC-4)
	loc, err := time.LoadLocation(override)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, loc).UTC(), resp.Slots[0].StartUTC)
}
