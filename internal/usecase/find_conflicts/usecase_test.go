package find_conflicts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleconfig"
)

const (
	testCompanyID = int64(1)
	testStaffID   = int64(10)
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetByStaffWithFilter(_ context.Context, _ domain.StaffAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type fakeTimeOffRepo struct {
	timeOffs   []*domain.TimeOff
	err        error
	lastFilter domain.TimeOffFilter
}

func (f *fakeTimeOffRepo) GetWithFilter(_ context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error) {
	f.lastFilter = filter
	return f.timeOffs, f.err
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, "2026-03-10T"+clock+":00Z")
	require.NoError(t, err)
	return parsed
}

func interval(t *testing.T, start, end string) domain.TimeInterval {
	t.Helper()
	return domain.TimeInterval{Start: at(t, start), End: at(t, end)}
}

type deps struct {
	appointments *fakeAppointmentRepo
	timeOffs     *fakeTimeOffRepo
	config       *fakeConfigRepo
}

func newDeps() *deps {
	return &deps{
		appointments: &fakeAppointmentRepo{},
		timeOffs:     &fakeTimeOffRepo{},
		config: &fakeConfigRepo{
			cfg: &domain.ScheduleConfig{
				CompanyID:            testCompanyID,
				BufferMinutes:        0,
				PendingTimeOffBlocks: false,
			},
		},
	}
}

func (d *deps) useCase() *UseCase {
	return NewUseCase(d.appointments, d.timeOffs, d.config, nopLogger{})
}

func TestExecute_NoConflicts(t *testing.T) {
	d := newDeps()

	resp, err := d.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		StartUTC:  at(t, "10:00"),
		EndUTC:    at(t, "11:00"),
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Conflicts)
	assert.NotNil(t, resp.Conflicts)
	assert.False(t, resp.HasBlocking)
}

func TestExecute_AppointmentConflict(t *testing.T) {
	d := newDeps()
	d.appointments.appointments = []*domain.Appointment{
		{ID: 100, StaffID: testStaffID, ServiceName: "Стрижка", Interval: interval(t, "10:30", "11:30"), Status: domain.StatusConfirmed},
		{ID: 101, StaffID: testStaffID, ServiceName: "Маникюр", Interval: interval(t, "12:00", "13:00"), Status: domain.StatusPending},
	}

	resp, err := d.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		StartUTC:  at(t, "10:00"),
		EndUTC:    at(t, "11:00"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, domain.ConflictAppointment, resp.Conflicts[0].Kind)
	assert.Equal(t, int64(100), resp.Conflicts[0].ID)
	assert.Equal(t, "Стрижка", resp.Conflicts[0].Summary)
	assert.False(t, resp.Conflicts[0].Advisory)
	assert.True(t, resp.HasBlocking)
}

func TestExecute_BackToBackIsNotAConflict(t *testing.T) {
	d := newDeps()
	d.appointments.appointments = []*domain.Appointment{
		{ID: 100, StaffID: testStaffID, Interval: interval(t, "11:00", "12:00"), Status: domain.StatusConfirmed},
	}

	resp, err := d.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		StartUTC:  at(t, "10:00"),
		EndUTC:    at(t, "11:00"),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Conflicts)
}

func TestExecute_BufferTurnsNeighborIntoConflict(t *testing.T) {
	d := newDeps()
	d.config.cfg.BufferMinutes = 15
	d.appointments.appointments = []*domain.Appointment{
		{ID: 100, StaffID: testStaffID, Interval: interval(t, "11:00", "12:00"), Status: domain.StatusConfirmed},
	}

	resp, err := d.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		StartUTC:  at(t, "10:00"),
		EndUTC:    at(t, "11:00"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Conflicts, 1)
	assert.True(t, resp.HasBlocking)
	// Интервал коллизии остается фактическим, без буфера
	assert.Equal(t, interval(t, "11:00", "12:00"), resp.Conflicts[0].Interval)
}

func TestExecute_ExcludeAppointment(t *testing.T) {
	d := newDeps()
	d.appointments.appointments = []*domain.Appointment{
		{ID: 100, StaffID: testStaffID, Interval: interval(t, "10:00", "11:00"), Status: domain.StatusConfirmed},
	}

	exclude := int64(100)
	resp, err := d.useCase().Execute(context.Background(), Request{
		CompanyID:            testCompanyID,
		StaffID:              testStaffID,
		StartUTC:             at(t, "10:00"),
		EndUTC:               at(t, "11:00"),
		ExcludeAppointmentID: &exclude,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Conflicts, "запись не конфликтует сама с собой")
	assert.False(t, resp.HasBlocking)
}

func TestExecute_PendingTimeOffIsAdvisory(t *testing.T) {
	reason := "отпуск"
	pending := &domain.TimeOff{
		ID:       200,
		StaffID:  testStaffID,
		Interval: interval(t, "10:00", "12:00"),
		Reason:   &reason,
		Status:   domain.TimeOffPending,
	}

	t.Run("advisory under non-blocking policy", func(t *testing.T) {
		d := newDeps()
		d.timeOffs.timeOffs = []*domain.TimeOff{pending}

		resp, err := d.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID,
			StaffID:   testStaffID,
			StartUTC:  at(t, "10:00"),
			EndUTC:    at(t, "11:00"),
		})
		require.NoError(t, err)

		require.Len(t, resp.Conflicts, 1)
		assert.Equal(t, domain.ConflictTimeOff, resp.Conflicts[0].Kind)
		assert.Equal(t, "отпуск", resp.Conflicts[0].Summary)
		assert.True(t, resp.Conflicts[0].Advisory)
		assert.False(t, resp.HasBlocking)
	})

	t.Run("blocking under blocking policy", func(t *testing.T) {
		d := newDeps()
		d.config.cfg.PendingTimeOffBlocks = true
		d.timeOffs.timeOffs = []*domain.TimeOff{pending}

		resp, err := d.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID,
			StaffID:   testStaffID,
			StartUTC:  at(t, "10:00"),
			EndUTC:    at(t, "11:00"),
		})
		require.NoError(t, err)

		require.Len(t, resp.Conflicts, 1)
		assert.False(t, resp.Conflicts[0].Advisory)
		assert.True(t, resp.HasBlocking)
	})

	t.Run("pending entries are always queried", func(t *testing.T) {
		d := newDeps()

		_, err := d.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID,
			StaffID:   testStaffID,
			StartUTC:  at(t, "10:00"),
			EndUTC:    at(t, "11:00"),
		})
		require.NoError(t, err)

		assert.ElementsMatch(t,
			[]domain.TimeOffStatus{domain.TimeOffApproved, domain.TimeOffPending},
			d.timeOffs.lastFilter.Statuses)
	})
}

func TestExecute_ConflictsSortedByStart(t *testing.T) {
	d := newDeps()
	d.appointments.appointments = []*domain.Appointment{
		{ID: 102, StaffID: testStaffID, Interval: interval(t, "12:00", "13:00"), Status: domain.StatusConfirmed},
		{ID: 101, StaffID: testStaffID, Interval: interval(t, "10:00", "11:00"), Status: domain.StatusConfirmed},
	}
	d.timeOffs.timeOffs = []*domain.TimeOff{
		{ID: 200, StaffID: testStaffID, Interval: interval(t, "11:00", "12:30"), Status: domain.TimeOffApproved},
	}

	resp, err := d.useCase().Execute(context.Background(), Request{
		CompanyID: testCompanyID,
		StaffID:   testStaffID,
		StartUTC:  at(t, "10:00"),
		EndUTC:    at(t, "14:00"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Conflicts, 3)
	assert.Equal(t, int64(101), resp.Conflicts[0].ID)
	assert.Equal(t, int64(200), resp.Conflicts[1].ID)
	assert.Equal(t, int64(102), resp.Conflicts[2].ID)
}

func TestExecute_InvalidInput(t *testing.T) {
	d := newDeps()

	t.Run("missing ids", func(t *testing.T) {
		_, err := d.useCase().Execute(context.Background(), Request{
			StartUTC: at(t, "10:00"),
			EndUTC:   at(t, "11:00"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := d.useCase().Execute(context.Background(), Request{
			CompanyID: testCompanyID,
			StaffID:   testStaffID,
			StartUTC:  at(t, "11:00"),
			EndUTC:    at(t, "10:00"),
		})
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}
