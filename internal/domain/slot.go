package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// AvailableSlot represents a candidate bookable interval of exactly the
// service's duration. StartTime is local to the company timezone the slot
// was computed for; StartUTC is the same instant as an absolute time.
type AvailableSlot struct {
	StartTime       types.TimeString
	StartUTC        time.Time
	DurationMinutes int
}

// ConflictKind identifies what a proposed interval collides with
type ConflictKind string

const (
	ConflictAppointment ConflictKind = "appointment"
	ConflictTimeOff     ConflictKind = "time_off"
)

// Conflict describes a single collision between a proposed interval and an
// existing schedule entry. Advisory conflicts (e.g. pending time-off under
// a non-blocking policy) warn but do not prevent booking.
type Conflict struct {
	Kind     ConflictKind
	ID       int64
	Summary  string
	Interval TimeInterval
	Advisory bool
}
