package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/service/availability/models"
)

const (
	testCompanyID = int64(1)
	testStaffID   = int64(10)
	testManagerID = int64(42)
)

type fakeRepo struct {
	rules  []*domain.AvailabilityRule
	nextID int64
}

func (f *fakeRepo) Create(_ context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	f.nextID++
	stored := *rule
	stored.ID = f.nextID
	f.rules = append(f.rules, &stored)
	return &stored, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.AvailabilityRule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, availabilityRepo.ErrRuleNotFound
}

func (f *fakeRepo) GetByStaff(_ context.Context, staffID int64) ([]*domain.AvailabilityRule, error) {
	out := make([]*domain.AvailabilityRule, 0)
	for _, r := range f.rules {
		if r.StaffID == staffID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByStaffAndWeekday(_ context.Context, staffID int64, weekday time.Weekday) ([]*domain.AvailabilityRule, error) {
	out := make([]*domain.AvailabilityRule, 0)
	for _, r := range f.rules {
		if r.StaffID == staffID && r.Weekday == weekday {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	for i, r := range f.rules {
		if r.ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return availabilityRepo.ErrRuleNotFound
}

func (f *fakeRepo) DeleteByStaff(_ context.Context, staffID int64) error {
	kept := f.rules[:0]
	for _, r := range f.rules {
		if r.StaffID != staffID {
			kept = append(kept, r)
		}
	}
	f.rules = kept
	return nil
}

type fakeCompanyClient struct {
	company *companyservice.Company
	err     error
}

func (f *fakeCompanyClient) GetCompany(_ context.Context, _ int64) (*companyservice.Company, error) {
	return f.company, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService() (*Service, *fakeRepo, *fakeCompanyClient) {
	repo := &fakeRepo{}
	client := &fakeCompanyClient{
		company: &companyservice.Company{
			ID:         testCompanyID,
			Timezone:   "Europe/Moscow",
			ManagerIDs: []int64{testManagerID},
			Staff: []companyservice.Staff{
				{ID: testStaffID, Name: "Мастер", IsActive: true},
			},
		},
	}
	return NewService(repo, client, nopLogger{}), repo, client
}

func createReq(weekday int, start, end string) *models.CreateRuleRequest {
	return &models.CreateRuleRequest{
		UserID:     testManagerID,
		StaffID:    testStaffID,
		Weekday:    weekday,
		LocalStart: start,
		LocalEnd:   end,
	}
}

func TestCreate(t *testing.T) {
	t.Run("manager creates a rule", func(t *testing.T) {
		svc, repo, _ := newService()

		resp, err := svc.Create(context.Background(), testCompanyID, createReq(2, "09:00", "17:00"))
		require.NoError(t, err)

		assert.Equal(t, 2, resp.Weekday)
		assert.Equal(t, "09:00", resp.LocalStart)
		assert.Equal(t, "17:00", resp.LocalEnd)
		assert.Len(t, repo.rules, 1)
	})

	t.Run("split shifts on the same weekday are allowed", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.Create(context.Background(), testCompanyID, createReq(2, "09:00", "12:00"))
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), testCompanyID, createReq(2, "14:00", "18:00"))
		assert.NoError(t, err)
	})

	t.Run("touching windows are allowed", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.Create(context.Background(), testCompanyID, createReq(2, "09:00", "12:00"))
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), testCompanyID, createReq(2, "12:00", "15:00"))
		assert.NoError(t, err)
	})

	t.Run("overlapping windows on the same weekday are rejected", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.Create(context.Background(), testCompanyID, createReq(2, "09:00", "13:00"))
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), testCompanyID, createReq(2, "12:00", "18:00"))
		assert.ErrorIs(t, err, ErrRulesOverlap)
	})

	t.Run("same window on another weekday is allowed", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.Create(context.Background(), testCompanyID, createReq(2, "09:00", "17:00"))
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), testCompanyID, createReq(3, "09:00", "17:00"))
		assert.NoError(t, err)
	})

	t.Run("non-manager is rejected", func(t *testing.T) {
		svc, _, _ := newService()

		req := createReq(2, "09:00", "17:00")
		req.UserID = 999

		_, err := svc.Create(context.Background(), testCompanyID, req)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown staff is rejected", func(t *testing.T) {
		svc, _, _ := newService()

		req := createReq(2, "09:00", "17:00")
		req.StaffID = 999

		_, err := svc.Create(context.Background(), testCompanyID, req)
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("invalid payloads", func(t *testing.T) {
		tests := []struct {
			name string
			req  *models.CreateRuleRequest
		}{
			{name: "weekday out of range", req: createReq(7, "09:00", "17:00")},
			{name: "start equals end", req: createReq(2, "09:00", "09:00")},
			{name: "start after end", req: createReq(2, "17:00", "09:00")},
			{name: "malformed time", req: createReq(2, "9am", "17:00")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _, _ := newService()
				_, err := svc.Create(context.Background(), testCompanyID, tt.req)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("manager deletes a rule", func(t *testing.T) {
		svc, repo, _ := newService()
		resp, err := svc.Create(context.Background(), testCompanyID, createReq(2, "09:00", "17:00"))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), resp.ID, testManagerID))
		assert.Empty(t, repo.rules)
	})

	t.Run("non-manager is rejected", func(t *testing.T) {
		svc, _, _ := newService()
		resp, err := svc.Create(context.Background(), testCompanyID, createReq(2, "09:00", "17:00"))
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(context.Background(), resp.ID, 999), ErrAccessDenied)
	})

	t.Run("missing rule", func(t *testing.T) {
		svc, _, _ := newService()
		assert.ErrorIs(t, svc.Delete(context.Background(), 12345, testManagerID), ErrRuleNotFound)
	})
}

func TestGetByStaff(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.Create(context.Background(), testCompanyID, createReq(1, "09:00", "13:00"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), testCompanyID, createReq(2, "09:00", "17:00"))
	require.NoError(t, err)

	resp, err := svc.GetByStaff(context.Background(), testStaffID)
	require.NoError(t, err)
	assert.Len(t, resp.Rules, 2)
}
