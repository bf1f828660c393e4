package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/find_conflicts"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeconv"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("invalid time format, expected HH:MM")
)

// Request модели

// RecurrenceRequest параметры повторяющейся записи
type RecurrenceRequest struct {
	Frequency string `json:"frequency"` // daily / weekly / monthly
	UntilDate string `json:"untilDate"` // YYYY-MM-DD, включительно
}

// CreateAppointmentRequest запрос на создание записи
type CreateAppointmentRequest struct {
	StaffID    int64              `json:"staffId"`
	ServiceID  int64              `json:"serviceId"`
	Date       string             `json:"date"`      // YYYY-MM-DD в таймзоне компании
	StartTime  string             `json:"startTime"` // HH:MM в таймзоне компании
	Notes      *string            `json:"notes,omitempty"`
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в запрос оркестратора
func (r *CreateAppointmentRequest) ToUseCaseRequest(companyID, customerID int64) (create_appointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return create_appointment.Request{}, fmt.Errorf("%w: %q", ErrInvalidDate, r.Date)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return create_appointment.Request{}, fmt.Errorf("%w: %q", ErrInvalidTime, r.StartTime)
	}

	req := create_appointment.Request{
		CompanyID:  companyID,
		StaffID:    r.StaffID,
		ServiceID:  r.ServiceID,
		CustomerID: customerID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}

	if r.Recurrence != nil {
		until, err := time.Parse(domain.DateFormat, r.Recurrence.UntilDate)
		if err != nil {
			return create_appointment.Request{}, fmt.Errorf("%w: %q", ErrInvalidDate, r.Recurrence.UntilDate)
		}
		req.Recurrence = &create_appointment.Recurrence{
			Frequency: r.Recurrence.Frequency,
			UntilDate: until,
		}
	}

	return req, nil
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetStaffAppointmentsRequest запрос на получение записей мастера
type GetStaffAppointmentsRequest struct {
	UserID          int64      `json:"userId"`
	CompanyID       int64      `json:"companyId"`
	StaffID         int64      `json:"staffId"`
	StartDate       *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetStaffAppointmentsRequest) ToDomainFilter() (domain.StaffAppointmentsFilter, error) {
	filter := domain.StaffAppointmentsFilter{
		StaffID:         r.StaffID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil {
		interval, err := domain.NewTimeInterval(*r.StartDate, *r.EndDate)
		if err != nil {
			return filter, err
		}
		filter.Range = &interval
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID         int64 `json:"id"`
	CompanyID  int64 `json:"companyId"`
	StaffID    int64 `json:"staffId"`
	ServiceID  int64 `json:"serviceId"`
	CustomerID int64 `json:"customerId"`

	Date            string    `json:"date"`      // YYYY-MM-DD в таймзоне компании
	StartTime       string    `json:"startTime"` // HH:MM в таймзоне компании
	DurationMinutes int       `json:"durationMinutes"`
	StartUTC        time.Time `json:"startUtc"`
	EndUTC          time.Time `json:"endUtc"`
	Status          string    `json:"status"`

	// Денормализованные данные
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	CustomerName *string `json:"customerName,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// OccurrenceFailureResponse несозданная запись повторяющейся серии
type OccurrenceFailureResponse struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// CreateAppointmentResponse ответ на создание записи
type CreateAppointmentResponse struct {
	Appointments []AppointmentResponse       `json:"appointments"`
	Failed       []OccurrenceFailureResponse `json:"failed,omitempty"`
	Truncated    bool                        `json:"truncated,omitempty"`
}

// SlotResponse один доступный слот
type SlotResponse struct {
	StartTime       string    `json:"startTime"` // HH:MM в таймзоне компании
	StartUTC        time.Time `json:"startUtc"`
	DurationMinutes int       `json:"durationMinutes"`
}

// AvailableSlotsResponse ответ со списком доступных слотов
type AvailableSlotsResponse struct {
	Date      string         `json:"date"`
	CompanyID int64          `json:"companyId"`
	StaffID   int64          `json:"staffId"`
	ServiceID int64          `json:"serviceId"`
	Timezone  string         `json:"timezone"`
	Slots     []SlotResponse `json:"slots"`
}

// ConflictResponse одна коллизия интервала
type ConflictResponse struct {
	Kind     string    `json:"kind"` // appointment / time_off
	ID       int64     `json:"id"`
	Summary  string    `json:"summary"`
	StartUTC time.Time `json:"startUtc"`
	EndUTC   time.Time `json:"endUtc"`
	Advisory bool      `json:"advisory"`
}

// ConflictsResponse ответ детектора коллизий
type ConflictsResponse struct {
	Conflicts   []ConflictResponse `json:"conflicts"`
	HasBlocking bool               `json:"hasBlocking"`
}

// Методы конвертации

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted,
		domain.StatusCancelledByCustomer, domain.StatusCancelledByCompany, domain.StatusNoShow:
		return domain.AppointmentStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// FromDomainAppointment конвертирует domain модель в DTO.
// Локальные дата и время вычисляются в tz; при некорректной таймзоне
// остаются в UTC.
func FromDomainAppointment(a *domain.Appointment, tz string) *AppointmentResponse {
	if a == nil {
		return nil
	}

	date, clock, err := timeconv.ToLocal(a.Interval.Start, tz)
	if err != nil {
		date = a.Interval.Start.UTC().Format(domain.DateFormat)
		clock = types.NewTimeString(a.Interval.Start.UTC())
	}

	resp := &AppointmentResponse{
		ID:              a.ID,
		CompanyID:       a.CompanyID,
		StaffID:         a.StaffID,
		ServiceID:       a.ServiceID,
		CustomerID:      a.CustomerID,
		Date:            date,
		StartTime:       clock.String(),
		DurationMinutes: int(a.Interval.Duration().Minutes()),
		StartUTC:        a.Interval.Start,
		EndUTC:          a.Interval.End,
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		CustomerName:    a.CustomerName,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.CancellationReason != nil {
		resp.CancellationReason = a.CancellationReason
	}
	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, tz string) *AppointmentListResponse {
	result := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, *FromDomainAppointment(a, tz))
	}
	return &AppointmentListResponse{Appointments: result}
}

// FromCreateResponse конвертирует ответ оркестратора в DTO
func FromCreateResponse(resp *create_appointment.Response, tz string) *CreateAppointmentResponse {
	out := &CreateAppointmentResponse{
		Appointments: make([]AppointmentResponse, 0, len(resp.Created)),
		Truncated:    resp.Truncated,
	}
	for _, a := range resp.Created {
		out.Appointments = append(out.Appointments, *FromDomainAppointment(a, tz))
	}
	for _, f := range resp.Failed {
		out.Failed = append(out.Failed, OccurrenceFailureResponse{Date: f.Date, Reason: f.Reason})
	}
	return out
}

// FromSlotsResponse конвертирует ответ калькулятора слотов в DTO
func FromSlotsResponse(resp *get_available_slots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		CompanyID: resp.CompanyID,
		StaffID:   resp.StaffID,
		ServiceID: resp.ServiceID,
		Timezone:  resp.Timezone,
		Slots:     make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StartTime:       s.StartTime.String(),
			StartUTC:        s.StartUTC,
			DurationMinutes: s.DurationMinutes,
		})
	}
	return out
}

// FromConflictsResponse конвертирует ответ детектора коллизий в DTO
func FromConflictsResponse(resp *find_conflicts.Response) *ConflictsResponse {
	out := &ConflictsResponse{
		Conflicts:   make([]ConflictResponse, 0, len(resp.Conflicts)),
		HasBlocking: resp.HasBlocking,
	}
	for _, c := range resp.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictResponse{
			Kind:     string(c.Kind),
			ID:       c.ID,
			Summary:  c.Summary,
			StartUTC: c.Interval.Start,
			EndUTC:   c.Interval.End,
			Advisory: c.Advisory,
		})
	}
	return out
}
