package domain

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidInterval is returned when an interval's end is not after its start.
var ErrInvalidInterval = errors.New("domain: invalid interval, end must be after start")

// TimeInterval is a half-open interval [Start, End) of absolute UTC instants.
// It is never persisted standalone, always as an attribute of another entity.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval validates and builds an interval. Both bounds are
// normalized to UTC.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !end.After(start) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start.UTC(), End: end.UTC()}, nil
}

// IsZero reports whether the interval is unset.
func (i TimeInterval) IsZero() bool {
	return i.Start.IsZero() && i.End.IsZero()
}

// Duration returns the interval length.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two half-open intervals intersect.
// Touching boundaries (a ends exactly when b starts) do NOT overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully within i.
func (i TimeInterval) Contains(other TimeInterval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Pad expands the interval symmetrically by the buffer on both sides.
// A zero or negative buffer returns the interval unchanged.
func (i TimeInterval) Pad(buffer time.Duration) TimeInterval {
	if buffer <= 0 {
		return i
	}
	return TimeInterval{Start: i.Start.Add(-buffer), End: i.End.Add(buffer)}
}

// MergeIntervals returns the union of the given intervals as a sorted set of
// disjoint intervals. Touching intervals are merged.
func MergeIntervals(intervals []TimeInterval) []TimeInterval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]TimeInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := []TimeInterval{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !cur.Start.After(last.End) {
			if cur.End.After(last.End) {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}

	return merged
}

// SubtractIntervals removes the busy set from the window and returns the
// remaining free regions as sorted disjoint intervals.
func SubtractIntervals(window TimeInterval, busy []TimeInterval) []TimeInterval {
	free := []TimeInterval{window}

	for _, b := range MergeIntervals(busy) {
		var next []TimeInterval
		for _, f := range free {
			if !f.Overlaps(b) {
				next = append(next, f)
				continue
			}
			if b.Start.After(f.Start) {
				next = append(next, TimeInterval{Start: f.Start, End: b.Start})
			}
			if b.End.Before(f.End) {
				next = append(next, TimeInterval{Start: b.End, End: f.End})
			}
		}
		free = next
	}

	return free
}
