package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// AvailabilityRule represents a recurring weekly open-hours window for a
// staff member. LocalStart/LocalEnd are wall-clock times interpreted in the
// company's current timezone; the timezone itself is never stored here.
// A staff member may have several rules on the same weekday (split shifts).
type AvailabilityRule struct {
	ID         int64
	CompanyID  int64
	StaffID    int64
	Weekday    time.Weekday
	LocalStart types.TimeString
	LocalEnd   types.TimeString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TimeOffStatus represents the approval state of a time-off entry
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffRejected TimeOffStatus = "rejected"
)

// TimeOff represents an exception interval during which a staff member is
// unavailable. A full-day entry spans local midnight to midnight on its date
// range, stored as the UTC-translated equivalent.
type TimeOff struct {
	ID        int64
	CompanyID int64
	StaffID   int64
	Interval  TimeInterval
	IsFullDay bool
	Reason    *string
	Status    TimeOffStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blocks reports whether this time-off removes availability.
// Approved entries always block; pending entries block only when the
// company policy says so, otherwise they are advisory.
func (t *TimeOff) Blocks(pendingBlocks bool) bool {
	switch t.Status {
	case TimeOffApproved:
		return true
	case TimeOffPending:
		return pendingBlocks
	default:
		return false
	}
}

// IsAdvisory reports whether the entry should be surfaced as a warning
// without blocking bookings.
func (t *TimeOff) IsAdvisory(pendingBlocks bool) bool {
	return t.Status == TimeOffPending && !pendingBlocks
}

// TimeOffFilter фильтр для выборки time-off мастера
type TimeOffFilter struct {
	StaffID  int64          // Обязательный параметр
	Range    *TimeInterval  // UTC период (опционально)
	Statuses []TimeOffStatus // Фильтр по статусам (опционально, nil - все)
}
