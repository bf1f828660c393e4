package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending             AppointmentStatus = "pending"
	StatusConfirmed           AppointmentStatus = "confirmed"
	StatusCompleted           AppointmentStatus = "completed"
	StatusCancelledByCustomer AppointmentStatus = "cancelled_by_customer"
	StatusCancelledByCompany  AppointmentStatus = "cancelled_by_company"
	StatusNoShow              AppointmentStatus = "no_show"
)

// Appointment represents a booked interval of a staff member's schedule.
// The interval is always stored in UTC; local wall-clock representations
// are derived from the company timezone at read time.
type Appointment struct {
	ID         int64
	CompanyID  int64
	StaffID    int64
	ServiceID  int64
	CustomerID int64
	Interval   TimeInterval
	Status     AppointmentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	CustomerName *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking reports whether the appointment occupies the schedule.
// Only pending and confirmed appointments remove availability; cancelled
// and completed ones never do.
func (a *Appointment) IsBlocking() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByCustomer || a.Status == StatusCancelledByCompany
}

// StaffAppointmentsFilter фильтр для выборки записей мастера
type StaffAppointmentsFilter struct {
	StaffID         int64              // Обязательный параметр
	Range           *TimeInterval      // UTC период (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отмененные и no-show
	OnlyBlocking    bool               // Только занимающие расписание (pending/confirmed)
	ForUpdate       bool               // Блокировать строки (внутри транзакции)
}

// CustomerAppointmentsFilter фильтр для истории записей клиента
type CustomerAppointmentsFilter struct {
	CustomerID int64
	Status     *AppointmentStatus
}
