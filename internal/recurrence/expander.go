// Package recurrence expands a recurrence specification into a bounded,
// ordered sequence of occurrence dates.
//
// The expansion works on civil dates only; resolving each date+time to a
// UTC instant is the caller's job and must happen per occurrence, so that a
// DST change in the middle of a series is picked up for every date
// independently.
package recurrence

import (
	"errors"
	"time"
)

// Frequency represents supported recurrence intervals.
type Frequency int

const (
	// FrequencyNone indicates a single, non-recurring occurrence.
	FrequencyNone Frequency = iota
	// FrequencyDaily advances one day per step.
	FrequencyDaily
	// FrequencyWeekly advances seven days per step.
	FrequencyWeekly
	// FrequencyMonthly advances to the same day-of-month of the next month.
	// When the target month is shorter, the day is clamped to the month's
	// last day (Jan 31 -> Feb 28/29), never overflowing into the next month.
	FrequencyMonthly
)

// MaxOccurrences caps every expansion regardless of the date range.
// The cap bounds resource use from malformed input (e.g. a monthly series
// until ten years out) and is part of the contract, not a safeguard callers
// can disable.
const MaxOccurrences = 50

// ErrInvalidFrequency indicates an unsupported frequency value.
var ErrInvalidFrequency = errors.New("recurrence: invalid frequency")

// ErrInvalidRange indicates the until date precedes the start date.
var ErrInvalidRange = errors.New("recurrence: until date is before start date")

// ParseFrequency maps the wire representation to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "", "none":
		return FrequencyNone, nil
	case "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	default:
		return FrequencyNone, ErrInvalidFrequency
	}
}

// String returns the wire representation.
func (f Frequency) String() string {
	switch f {
	case FrequencyDaily:
		return "daily"
	case FrequencyWeekly:
		return "weekly"
	case FrequencyMonthly:
		return "monthly"
	default:
		return "none"
	}
}

// Expander generates occurrence dates one at a time. The zero value is not
// usable; construct with NewExpander.
type Expander struct {
	freq     Frequency
	until    time.Time
	startDay int // day-of-month of the series start, for monthly clamping
	next     time.Time
	emitted  int
	done     bool
}

// NewExpander builds a bounded generator starting at start (a civil date;
// the time-of-day part is ignored) and ending at until inclusive.
// For FrequencyNone the until date is ignored and exactly one occurrence is
// produced.
func NewExpander(start time.Time, freq Frequency, until time.Time) (*Expander, error) {
	switch freq {
	case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return nil, ErrInvalidFrequency
	}

	startDate := truncateToDay(start)
	untilDate := truncateToDay(until)

	if freq != FrequencyNone && untilDate.Before(startDate) {
		return nil, ErrInvalidRange
	}

	return &Expander{
		freq:     freq,
		until:    untilDate,
		startDay: startDate.Day(),
		next:     startDate,
	}, nil
}

// Next returns the next occurrence date. The second result is false when
// the sequence is exhausted, either because the next candidate would pass
// the until date or because the occurrence cap was reached.
func (e *Expander) Next() (time.Time, bool) {
	if e.done || e.emitted >= MaxOccurrences {
		return time.Time{}, false
	}

	current := e.next
	e.emitted++

	if e.freq == FrequencyNone {
		e.done = true
		return current, true
	}

	candidate := e.advance(current)
	if candidate.After(e.until) {
		e.done = true
	} else {
		e.next = candidate
	}

	return current, true
}

// Truncated reports whether the expansion stopped at the occurrence cap
// while the date range still had candidates left. Callers surface this to
// the user ("N of M requested occurrences were scheduled"); it is advisory,
// not an error.
func (e *Expander) Truncated() bool {
	return !e.done && e.emitted >= MaxOccurrences
}

// Expand collects the whole sequence. The boolean result mirrors Truncated.
func Expand(start time.Time, freq Frequency, until time.Time) ([]time.Time, bool, error) {
	exp, err := NewExpander(start, freq, until)
	if err != nil {
		return nil, false, err
	}

	dates := make([]time.Time, 0, 8)
	for {
		d, ok := exp.Next()
		if !ok {
			break
		}
		dates = append(dates, d)
	}

	return dates, exp.Truncated(), nil
}

func (e *Expander) advance(current time.Time) time.Time {
	switch e.freq {
	case FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case FrequencyMonthly:
		// AddDate would overflow short months (Jan 31 + 1 month = Mar 3),
		// so the target month is computed explicitly and the original
		// day-of-month clamped to its length.
		year, month := current.Year(), current.Month()+1
		if month > time.December {
			year++
			month = time.January
		}
		day := e.startDay
		if last := daysInMonth(year, month); day > last {
			day = last
		}
		return time.Date(year, month, day, 0, 0, 0, 0, current.Location())
	default:
		return current
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
