package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/find_conflicts"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeconv"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid time off status")
)

// Request модели

// CreateTimeOffRequest запрос на создание time-off.
// Для полнодневного отсутствия указываются startDate/endDate, для
// частичного - date, startTime и endTime
type CreateTimeOffRequest struct {
	UserID    int64   `json:"userId"`
	StaffID   int64   `json:"staffId"`
	IsFullDay bool    `json:"isFullDay"`
	Reason    *string `json:"reason,omitempty"`

	// Полнодневное отсутствие (локальные даты, включительно)
	StartDate string `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"endDate,omitempty"`   // YYYY-MM-DD

	// Частичное отсутствие (локальные дата и времена)
	Date      string `json:"date,omitempty"`      // YYYY-MM-DD
	StartTime string `json:"startTime,omitempty"` // HH:MM
	EndTime   string `json:"endTime,omitempty"`   // HH:MM
}

// ToDomainTimeOff конвертирует request в domain модель, разворачивая
// локальные даты/времена в UTC интервал в таймзоне tz
func (r *CreateTimeOffRequest) ToDomainTimeOff(companyID int64, tz string) (*domain.TimeOff, error) {
	t := &domain.TimeOff{
		CompanyID: companyID,
		StaffID:   r.StaffID,
		IsFullDay: r.IsFullDay,
		Reason:    r.Reason,
		Status:    domain.TimeOffPending,
	}

	if r.Reason != nil && len(*r.Reason) > domain.MaxTimeOffReasonLength {
		return nil, fmt.Errorf("reason exceeds %d characters", domain.MaxTimeOffReasonLength)
	}

	if r.IsFullDay {
		if r.StartDate == "" || r.EndDate == "" {
			return nil, fmt.Errorf("startDate and endDate are required for full-day time off")
		}
		if r.EndDate < r.StartDate {
			return nil, fmt.Errorf("endDate %s is before startDate %s", r.EndDate, r.StartDate)
		}

		// Полный день разворачивается от локальной полуночи первой даты
		// до локальной полуночи дня после последней даты
		start, _, err := timeconv.LocalDayRange(r.StartDate, tz)
		if err != nil {
			return nil, fmt.Errorf("startDate: %v", err)
		}
		_, end, err := timeconv.LocalDayRange(r.EndDate, tz)
		if err != nil {
			return nil, fmt.Errorf("endDate: %v", err)
		}

		interval, err := domain.NewTimeInterval(start, end)
		if err != nil {
			return nil, err
		}
		t.Interval = interval
		return t, nil
	}

	if r.Date == "" || r.StartTime == "" || r.EndTime == "" {
		return nil, fmt.Errorf("date, startTime and endTime are required for partial time off")
	}

	startClock, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %v", err)
	}
	endClock, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %v", err)
	}
	if !startClock.IsBefore(endClock) {
		return nil, fmt.Errorf("startTime %s must be before endTime %s", startClock, endClock)
	}

	start, err := timeconv.ToUTC(r.Date, startClock, tz)
	if err != nil {
		return nil, fmt.Errorf("date: %v", err)
	}
	end, err := timeconv.ToUTC(r.Date, endClock, tz)
	if err != nil {
		return nil, fmt.Errorf("date: %v", err)
	}

	interval, err := domain.NewTimeInterval(start, end)
	if err != nil {
		return nil, err
	}
	t.Interval = interval
	return t, nil
}

// UpdateTimeOffStatusRequest запрос на смену статуса time-off
type UpdateTimeOffStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"` // approved / rejected
}

// GetTimeOffRequest запрос на получение time-off мастера
type GetTimeOffRequest struct {
	StaffID   int64      `json:"staffId"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTimeOffRequest) ToDomainFilter() (domain.TimeOffFilter, error) {
	filter := domain.TimeOffFilter{StaffID: r.StaffID}

	if r.StartDate != nil && r.EndDate != nil {
		interval, err := domain.NewTimeInterval(*r.StartDate, *r.EndDate)
		if err != nil {
			return filter, err
		}
		filter.Range = &interval
	}

	if r.Status != nil {
		status, err := ToDomainTimeOffStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.TimeOffStatus{status}
	}

	return filter, nil
}

// Response модели

// TimeOffResponse ответ с данными time-off
type TimeOffResponse struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyId"`
	StaffID   int64     `json:"staffId"`
	StartUTC  time.Time `json:"startUtc"`
	EndUTC    time.Time `json:"endUtc"`
	IsFullDay bool      `json:"isFullDay"`
	Reason    *string   `json:"reason,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TimeOffListResponse ответ со списком time-off
type TimeOffListResponse struct {
	TimeOffs []TimeOffResponse `json:"timeOffs"`
}

// AffectedAppointmentResponse запись, попадающая под создаваемый time-off
type AffectedAppointmentResponse struct {
	AppointmentID int64     `json:"appointmentId"`
	Summary       string    `json:"summary"`
	StartUTC      time.Time `json:"startUtc"`
	EndUTC        time.Time `json:"endUtc"`
}

// CreateTimeOffResponse ответ на создание time-off с предупреждениями о
// существующих записях в этом интервале
type CreateTimeOffResponse struct {
	TimeOff              TimeOffResponse               `json:"timeOff"`
	AffectedAppointments []AffectedAppointmentResponse `json:"affectedAppointments,omitempty"`
}

// Методы конвертации

// ToDomainTimeOffStatus конвертирует строку в domain статус
func ToDomainTimeOffStatus(s string) (domain.TimeOffStatus, error) {
	switch domain.TimeOffStatus(s) {
	case domain.TimeOffPending, domain.TimeOffApproved, domain.TimeOffRejected:
		return domain.TimeOffStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// FromDomainTimeOff конвертирует domain модель в DTO
func FromDomainTimeOff(t *domain.TimeOff) *TimeOffResponse {
	if t == nil {
		return nil
	}
	return &TimeOffResponse{
		ID:        t.ID,
		CompanyID: t.CompanyID,
		StaffID:   t.StaffID,
		StartUTC:  t.Interval.Start,
		EndUTC:    t.Interval.End,
		IsFullDay: t.IsFullDay,
		Reason:    t.Reason,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// FromDomainTimeOffList конвертирует список domain моделей в DTO
func FromDomainTimeOffList(timeOffs []*domain.TimeOff) *TimeOffListResponse {
	result := make([]TimeOffResponse, 0, len(timeOffs))
	for _, t := range timeOffs {
		result = append(result, *FromDomainTimeOff(t))
	}
	return &TimeOffListResponse{TimeOffs: result}
}

// AffectedFromConflicts отбирает записи из ответа детектора коллизий
func AffectedFromConflicts(resp *find_conflicts.Response) []AffectedAppointmentResponse {
	affected := make([]AffectedAppointmentResponse, 0)
	for _, c := range resp.Conflicts {
		if c.Kind != domain.ConflictAppointment {
			continue
		}
		affected = append(affected, AffectedAppointmentResponse{
			AppointmentID: c.ID,
			Summary:       c.Summary,
			StartUTC:      c.Interval.Start,
			EndUTC:        c.Interval.End,
		})
	}
	return affected
}
