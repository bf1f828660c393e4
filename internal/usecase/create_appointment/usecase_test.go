package create_appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleconfig"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/userservice"
)

const (
	testCompanyID  = int64(1)
	testStaffID    = int64(10)
	testServiceID  = int64(5)
	testCustomerID = int64(7)
	testTimezone   = "Europe/Moscow"
)

// 2026-03-10 - вторник
var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type fakeAppointmentRepo struct {
	existing  []*domain.Appointment
	createErr error
	nextID    int64
	created   []*domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	stored := *appt
	stored.ID = f.nextID
	f.created = append(f.created, &stored)
	f.existing = append(f.existing, &stored)
	return &stored, nil
}

func (f *fakeAppointmentRepo) GetByStaffWithFilter(_ context.Context, _ domain.StaffAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.existing, nil
}

type fakeAvailabilityRepo struct {
	rules map[time.Weekday][]*domain.AvailabilityRule
}

func (f *fakeAvailabilityRepo) GetByStaffAndWeekday(_ context.Context, _ int64, weekday time.Weekday) ([]*domain.AvailabilityRule, error) {
	return f.rules[weekday], nil
}

type fakeTimeOffRepo struct {
	timeOffs []*domain.TimeOff
}

func (f *fakeTimeOffRepo) GetWithFilter(_ context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error) {
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
}

func (f *fakeConfigRepo) GetByCompany(_ context.Context, _ int64) (*domain.ScheduleConfig, error) {
	if f.cfg == nil {
		return nil, scheduleconfig.ErrConfigNotFound
	}
	return f.cfg, nil
}

// fakeTxManager выполняет функцию без транзакции и считает вызовы
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
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

type fakeUserClient struct {
	customer *userservice.Customer
	err      error
}

func (f *fakeUserClient) GetCustomerWithGracefulDegradation(_ context.Context, _ int64) (*userservice.Customer, error) {
	return f.customer, f.err
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

// scenario собирает зависимости usecase: активный мастер с рабочими окнами
// 09:00-17:00 каждый день, услуга на 60 минут, без буфера
type scenario struct {
	appointments *fakeAppointmentRepo
	availability *fakeAvailabilityRepo
	timeOffs     *fakeTimeOffRepo
	config       *fakeConfigRepo
	tx           *fakeTxManager
	company      *fakeCompanyClient
	user         *fakeUserClient
	clock        *fixedClock
}

func newScenario() *scenario {
	rules := make(map[time.Weekday][]*domain.AvailabilityRule)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rules[wd] = []*domain.AvailabilityRule{
			{ID: int64(wd) + 1, CompanyID: testCompanyID, StaffID: testStaffID, Weekday: wd, LocalStart: "09:00", LocalEnd: "17:00"},
		}
	}

	price := 1500.0
	return &scenario{
		appointments: &fakeAppointmentRepo{},
		availability: &fakeAvailabilityRepo{rules: rules},
		timeOffs:     &fakeTimeOffRepo{},
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
		tx: &fakeTxManager{},
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
				Price:           &price,
				IsActive:        true,
			},
		},
		user: &fakeUserClient{
			customer: &userservice.Customer{ID: testCustomerID, Name: "Иван Петров"},
		},
		clock: &fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
}

func (s *scenario) useCase() *UseCase {
	return NewUseCase(
		s.appointments, s.availability, s.timeOffs, s.config, s.tx,
		s.company, s.user, s.clock, nopLogger{},
	)
}

func (s *scenario) request() Request {
	return Request{
		CompanyID:  testCompanyID,
		StaffID:    testStaffID,
		ServiceID:  testServiceID,
		CustomerID: testCustomerID,
		Date:       testDate,
		StartTime:  "12:00",
	}
}

func msk(t *testing.T, date, clock string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(testTimezone)
	require.NoError(t, err)
	parsed, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	require.NoError(t, err)
	return parsed.UTC()
}

func TestExecute_SingleBooking(t *testing.T) {
	s := newScenario()

	resp, err := s.useCase().Execute(context.Background(), s.request())
	require.NoError(t, err)

	require.Len(t, resp.Created, 1)
	assert.Empty(t, resp.Failed)
	assert.False(t, resp.Truncated)
	assert.False(t, resp.CustomerNameMissing)

	appt := resp.Created[0]
	assert.Equal(t, domain.StatusPending, appt.Status)
	assert.Equal(t, msk(t, "2026-03-10", "12:00"), appt.Interval.Start)
	assert.Equal(t, msk(t, "2026-03-10", "13:00"), appt.Interval.End)
	assert.Equal(t, "Стрижка", appt.ServiceName)
	assert.Equal(t, 1500.0, appt.ServicePrice)
	require.NotNil(t, appt.CustomerName)
	assert.Equal(t, "Иван Петров", *appt.CustomerName)

	assert.Equal(t, 1, s.tx.calls, "одна запись - одна транзакция")
}

func TestExecute_SlotAlreadyTaken(t *testing.T) {
	s := newScenario()
	s.appointments.existing = []*domain.Appointment{
		{
			ID:       100,
			StaffID:  testStaffID,
			Interval: domain.TimeInterval{Start: msk(t, "2026-03-10", "12:30"), End: msk(t, "2026-03-10", "13:30")},
			Status:   domain.StatusConfirmed,
		},
	}

	_, err := s.useCase().Execute(context.Background(), s.request())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, s.appointments.created)
}

func TestExecute_LostRaceSurfacesAsSlotUnavailable(t *testing.T) {
	// Предварительная проверка ничего не видит, но вставка упирается в
	// exclusion constraint - конкурент успел забронировать первым
	s := newScenario()
	s.appointments.createErr = appointment.ErrSlotUnavailable

	_, err := s.useCase().Execute(context.Background(), s.request())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_BufferMakesNeighborConflict(t *testing.T) {
	s := newScenario()
	s.config.cfg.BufferMinutes = 15
	// Стык без зазора: соседняя запись кончается ровно в 12:00
	s.appointments.existing = []*domain.Appointment{
		{
			ID:       100,
			StaffID:  testStaffID,
			Interval: domain.TimeInterval{Start: msk(t, "2026-03-10", "11:00"), End: msk(t, "2026-03-10", "12:00")},
			Status:   domain.StatusConfirmed,
		},
	}

	_, err := s.useCase().Execute(context.Background(), s.request())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_ApprovedTimeOffBlocks(t *testing.T) {
	s := newScenario()
	s.timeOffs.timeOffs = []*domain.TimeOff{
		{
			ID:       200,
			StaffID:  testStaffID,
			Interval: domain.TimeInterval{Start: msk(t, "2026-03-10", "12:00"), End: msk(t, "2026-03-10", "14:00")},
			Status:   domain.TimeOffApproved,
		},
	}

	_, err := s.useCase().Execute(context.Background(), s.request())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_PendingTimeOffBlocksOnlyByPolicy(t *testing.T) {
	pending := &domain.TimeOff{
		ID:       201,
		StaffID:  testStaffID,
		Interval: domain.TimeInterval{Start: msk(t, "2026-03-10", "12:00"), End: msk(t, "2026-03-10", "14:00")},
		Status:   domain.TimeOffPending,
	}

	t.Run("policy off - booking succeeds", func(t *testing.T) {
		s := newScenario()
		s.timeOffs.timeOffs = []*domain.TimeOff{pending}

		resp, err := s.useCase().Execute(context.Background(), s.request())
		require.NoError(t, err)
		assert.Len(t, resp.Created, 1)
	})

	t.Run("policy on - booking rejected", func(t *testing.T) {
		s := newScenario()
		s.config.cfg.PendingTimeOffBlocks = true
		s.timeOffs.timeOffs = []*domain.TimeOff{pending}

		_, err := s.useCase().Execute(context.Background(), s.request())
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	s := newScenario()
	req := s.request()
	// Конец 17:30 выходит за окно 09:00-17:00
	req.StartTime = "16:30"

	_, err := s.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_EndExactlyAtWindowEndIsAllowed(t *testing.T) {
	s := newScenario()
	req := s.request()
	req.StartTime = "16:00"

	resp, err := s.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Created, 1)
}

func TestExecute_TooLateToBook(t *testing.T) {
	s := newScenario()
	// 11:30 по Москве в день записи, уведомление 60 минут, старт 12:00
	s.clock.now = msk(t, "2026-03-10", "11:30")

	_, err := s.useCase().Execute(context.Background(), s.request())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_DateBounds(t *testing.T) {
	t.Run("past date", func(t *testing.T) {
		s := newScenario()
		s.clock.now = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

		_, err := s.useCase().Execute(context.Background(), s.request())
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("beyond booking horizon", func(t *testing.T) {
		s := newScenario()
		s.config.cfg.AdvanceBookingDays = 7

		_, err := s.useCase().Execute(context.Background(), s.request())
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})
}

func TestExecute_CustomerLookup(t *testing.T) {
	t.Run("customer not found", func(t *testing.T) {
		s := newScenario()
		s.user.customer = nil
		s.user.err = userservice.ErrCustomerNotFound

		_, err := s.useCase().Execute(context.Background(), s.request())
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("degraded user service books without name", func(t *testing.T) {
		s := newScenario()
		s.user.customer = nil
		s.user.err = userservice.ErrServiceDegraded

		resp, err := s.useCase().Execute(context.Background(), s.request())
		require.NoError(t, err)

		assert.True(t, resp.CustomerNameMissing)
		require.Len(t, resp.Created, 1)
		assert.Nil(t, resp.Created[0].CustomerName)
	})
}

func TestExecute_ValidationErrors(t *testing.T) {
	longNotes := strings.Repeat("а", domain.MaxNotesLength+1)

	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "zero customer id",
			mutate:  func(req *Request) { req.CustomerID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed start time",
			mutate:  func(req *Request) { req.StartTime = "noon" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "notes too long",
			mutate:  func(req *Request) { req.Notes = &longNotes },
			wantErr: ErrInvalidInput,
		},
		{
			name: "recurrence until before first date",
			mutate: func(req *Request) {
				req.Recurrence = &Recurrence{Frequency: "daily", UntilDate: testDate.AddDate(0, 0, -1)}
			},
			wantErr: ErrInvalidRecurrence,
		},
		{
			name: "unknown frequency",
			mutate: func(req *Request) {
				req.Recurrence = &Recurrence{Frequency: "hourly", UntilDate: testDate.AddDate(0, 0, 3)}
			},
			wantErr: ErrInvalidRecurrence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScenario()
			req := s.request()
			tt.mutate(&req)

			_, err := s.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_RecurringSeries(t *testing.T) {
	t.Run("daily series books every date", func(t *testing.T) {
		s := newScenario()
		req := s.request()
		req.Recurrence = &Recurrence{Frequency: "daily", UntilDate: testDate.AddDate(0, 0, 2)}

		resp, err := s.useCase().Execute(context.Background(), req)
		require.NoError(t, err)

		require.Len(t, resp.Created, 3)
		assert.Empty(t, resp.Failed)
		assert.Equal(t, 3, s.tx.calls, "каждое повторение в собственной транзакции")
		assert.Equal(t, msk(t, "2026-03-10", "12:00"), resp.Created[0].Interval.Start)
		assert.Equal(t, msk(t, "2026-03-12", "12:00"), resp.Created[2].Interval.Start)
	})

	t.Run("occupied date fails without rolling back the rest", func(t *testing.T) {
		s := newScenario()
		s.appointments.existing = []*domain.Appointment{
			{
				ID:       100,
				StaffID:  testStaffID,
				Interval: domain.TimeInterval{Start: msk(t, "2026-03-11", "12:00"), End: msk(t, "2026-03-11", "13:00")},
				Status:   domain.StatusConfirmed,
			},
		}
		req := s.request()
		req.Recurrence = &Recurrence{Frequency: "daily", UntilDate: testDate.AddDate(0, 0, 2)}

		resp, err := s.useCase().Execute(context.Background(), req)
		require.NoError(t, err)

		assert.Len(t, resp.Created, 2)
		require.Len(t, resp.Failed, 1)
		assert.Equal(t, "2026-03-11", resp.Failed[0].Date)
		assert.Equal(t, "slot is unavailable", resp.Failed[0].Reason)
	})

	t.Run("all dates occupied fails the whole series", func(t *testing.T) {
		s := newScenario()
		s.appointments.existing = []*domain.Appointment{
			{
				ID:       100,
				StaffID:  testStaffID,
				Interval: domain.TimeInterval{Start: msk(t, "2026-03-10", "12:00"), End: msk(t, "2026-03-10", "13:00")},
				Status:   domain.StatusConfirmed,
			},
			{
				ID:       101,
				StaffID:  testStaffID,
				Interval: domain.TimeInterval{Start: msk(t, "2026-03-11", "12:00"), End: msk(t, "2026-03-11", "13:00")},
				Status:   domain.StatusConfirmed,
			},
		}
		req := s.request()
		req.Recurrence = &Recurrence{Frequency: "daily", UntilDate: testDate.AddDate(0, 0, 1)}

		_, err := s.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrAllOccurrencesFailed)
	})

	t.Run("long series is truncated at the cap", func(t *testing.T) {
		s := newScenario()
		req := s.request()
		req.Recurrence = &Recurrence{Frequency: "daily", UntilDate: testDate.AddDate(0, 0, 100)}

		resp, err := s.useCase().Execute(context.Background(), req)
		require.NoError(t, err)

		assert.True(t, resp.Truncated)
		assert.Len(t, resp.Created, 50)
	})
}

func TestExecute_WeeklySeriesAcrossDSTKeepsWallClock(t *testing.T) {
	s := newScenario()
	s.company.company.Timezone = "America/New_York"
	// 2026-03-05 - четверг, переход на летнее время 2026-03-08
	req := s.request()
	req.Date = time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	req.StartTime = "10:00"
	req.Recurrence = &Recurrence{Frequency: "weekly", UntilDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)}

	resp, err := s.useCase().Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Created, 2)
	// 10:00 локального времени до перехода - EST (UTC-5), после - EDT (UTC-4)
	assert.Equal(t, time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC), resp.Created[0].Interval.Start)
	assert.Equal(t, time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC), resp.Created[1].Interval.Start)
}

func TestExecute_CompanyLookupErrors(t *testing.T) {
	t.Run("company not found", func(t *testing.T) {
		s := newScenario()
		s.company.company = nil
		s.company.companyErr = companyservice.ErrCompanyNotFound

		_, err := s.useCase().Execute(context.Background(), s.request())
		assert.ErrorIs(t, err, ErrCompanyNotFound)
	})

	t.Run("inactive staff", func(t *testing.T) {
		s := newScenario()
		s.company.company.Staff[0].IsActive = false

		_, err := s.useCase().Execute(context.Background(), s.request())
		assert.ErrorIs(t, err, ErrStaffInactive)
	})

	t.Run("inactive service", func(t *testing.T) {
		s := newScenario()
		s.company.service.IsActive = false

		_, err := s.useCase().Execute(context.Background(), s.request())
		assert.ErrorIs(t, err, ErrServiceInactive)
	})
}
