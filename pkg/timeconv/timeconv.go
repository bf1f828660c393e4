// Package timeconv converts between a business's local wall-clock time and
// absolute UTC instants using the IANA timezone database.
//
// All conversions go through time.LoadLocation on every call: offsets are
// never computed once and reused, so DST transitions and timezone changes
// are always resolved with the current rule set.
package timeconv

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

const dateLayout = "2006-01-02"

// ErrInvalidTimezone is returned for zone ids unknown to the IANA database.
var ErrInvalidTimezone = errors.New("timeconv: invalid timezone")

// ErrInvalidDate is returned for dates that are not "YYYY-MM-DD".
var ErrInvalidDate = errors.New("timeconv: invalid date, expected YYYY-MM-DD")

// Location resolves an IANA zone id. This is the single entry point for
// timezone lookups; callers must not cache the result across requests.
func Location(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// ToUTC interprets date+clock as wall-clock time in tz and returns the
// corresponding UTC instant. DST is resolved by the zone's rules: during a
// spring-forward gap the instant is normalized forward, during a fall-back
// overlap the earlier offset is chosen (time.Date semantics).
func ToUTC(date string, clock types.TimeString, tz string) (time.Time, error) {
	loc, err := Location(tz)
	if err != nil {
		return time.Time{}, err
	}

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	minutes, err := clock.Minutes()
	if err != nil {
		return time.Time{}, err
	}

	local := time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, loc)
	return local.UTC(), nil
}

// ToLocal converts a UTC instant into the local calendar date and clock time
// of tz. The date answers "which local calendar day does this instant belong
// to" - bucketing must always use the viewer's timezone, never the server's.
func ToLocal(instant time.Time, tz string) (string, types.TimeString, error) {
	loc, err := Location(tz)
	if err != nil {
		return "", "", err
	}

	local := instant.In(loc)
	return local.Format(dateLayout), types.NewTimeString(local), nil
}

// LocalDayRange returns the UTC interval covering the full local calendar
// day (midnight to next midnight in tz). Used for full-day time-off and for
// day-level busy-interval queries.
func LocalDayRange(date string, tz string) (time.Time, time.Time, error) {
	loc, err := Location(tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC(), nil
}
