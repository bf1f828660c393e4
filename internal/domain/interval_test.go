package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end string) TimeInterval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	iv, err := NewTimeInterval(s, e)
	require.NoError(t, err)
	return iv
}

func TestNewTimeInterval(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		iv, err := NewTimeInterval(start, start.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, iv.Duration())
	})

	t.Run("end equals start", func(t *testing.T) {
		_, err := NewTimeInterval(start, start)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewTimeInterval(start, start.Add(-time.Minute))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("bounds normalized to UTC", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Moscow")
		require.NoError(t, err)

		local := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
		iv, err := NewTimeInterval(local, local.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, iv.Start.Location())
		assert.Equal(t, time.UTC, iv.End.Location())
	})
}

func TestTimeInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeInterval
		b    TimeInterval
		want bool
	}{
		{
			name: "partial overlap",
			a:    mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T11:00:00Z"),
			b:    mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T12:00:00Z"),
			want: true,
		},
		{
			name: "contained",
			a:    mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T17:00:00Z"),
			b:    mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T11:00:00Z"),
			want: true,
		},
		{
			name: "back to back does not overlap",
			a:    mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T10:00:00Z"),
			b:    mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T11:00:00Z"),
			want: false,
		},
		{
			name: "disjoint",
			a:    mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T10:00:00Z"),
			b:    mustInterval(t, "2026-03-10T12:00:00Z", "2026-03-10T13:00:00Z"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestTimeInterval_Contains(t *testing.T) {
	window := mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T17:00:00Z")

	assert.True(t, window.Contains(mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T17:00:00Z")))
	assert.True(t, window.Contains(mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T11:00:00Z")))
	assert.False(t, window.Contains(mustInterval(t, "2026-03-10T08:30:00Z", "2026-03-10T09:30:00Z")))
	assert.False(t, window.Contains(mustInterval(t, "2026-03-10T16:30:00Z", "2026-03-10T17:30:00Z")))
}

func TestTimeInterval_Pad(t *testing.T) {
	iv := mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T11:00:00Z")

	t.Run("positive buffer expands both sides", func(t *testing.T) {
		padded := iv.Pad(15 * time.Minute)
		assert.Equal(t, mustInterval(t, "2026-03-10T09:45:00Z", "2026-03-10T11:15:00Z"), padded)
	})

	t.Run("zero buffer is a no-op", func(t *testing.T) {
		assert.Equal(t, iv, iv.Pad(0))
	})

	t.Run("negative buffer is a no-op", func(t *testing.T) {
		assert.Equal(t, iv, iv.Pad(-time.Minute))
	})
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []TimeInterval
		want []TimeInterval
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "overlapping pair merges",
			in: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T11:00:00Z"),
				mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T12:00:00Z"),
			},
			want: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T12:00:00Z"),
			},
		},
		{
			name: "touching intervals merge",
			in: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T10:00:00Z"),
				mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T11:00:00Z"),
			},
			want: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T11:00:00Z"),
			},
		},
		{
			name: "unsorted disjoint input comes back sorted",
			in: []TimeInterval{
				mustInterval(t, "2026-03-10T14:00:00Z", "2026-03-10T15:00:00Z"),
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T10:00:00Z"),
			},
			want: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T10:00:00Z"),
				mustInterval(t, "2026-03-10T14:00:00Z", "2026-03-10T15:00:00Z"),
			},
		},
		{
			name: "contained interval disappears",
			in: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T17:00:00Z"),
				mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T11:00:00Z"),
			},
			want: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T17:00:00Z"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeIntervals(tt.in))
		})
	}
}

func TestSubtractIntervals(t *testing.T) {
	window := mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T17:00:00Z")

	tests := []struct {
		name string
		busy []TimeInterval
		want []TimeInterval
	}{
		{
			name: "no busy returns whole window",
			busy: nil,
			want: []TimeInterval{window},
		},
		{
			name: "busy in the middle splits the window",
			busy: []TimeInterval{
				mustInterval(t, "2026-03-10T12:00:00Z", "2026-03-10T13:00:00Z"),
			},
			want: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T12:00:00Z"),
				mustInterval(t, "2026-03-10T13:00:00Z", "2026-03-10T17:00:00Z"),
			},
		},
		{
			name: "busy straddling the start trims the left edge",
			busy: []TimeInterval{
				mustInterval(t, "2026-03-10T08:00:00Z", "2026-03-10T10:00:00Z"),
			},
			want: []TimeInterval{
				mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T17:00:00Z"),
			},
		},
		{
			name: "busy covering everything leaves nothing",
			busy: []TimeInterval{
				mustInterval(t, "2026-03-10T08:00:00Z", "2026-03-10T18:00:00Z"),
			},
			want: nil,
		},
		{
			name: "overlapping busy intervals are merged before subtraction",
			busy: []TimeInterval{
				mustInterval(t, "2026-03-10T10:00:00Z", "2026-03-10T12:00:00Z"),
				mustInterval(t, "2026-03-10T11:00:00Z", "2026-03-10T13:00:00Z"),
			},
			want: []TimeInterval{
				mustInterval(t, "2026-03-10T09:00:00Z", "2026-03-10T10:00:00Z"),
				mustInterval(t, "2026-03-10T13:00:00Z", "2026-03-10T17:00:00Z"),
			},
		},
		{
			name: "busy touching the window edge does not trim it",
			busy: []TimeInterval{
				mustInterval(t, "2026-03-10T08:00:00Z", "2026-03-10T09:00:00Z"),
			},
			want: []TimeInterval{window},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubtractIntervals(window, tt.busy))
		})
	}
}
