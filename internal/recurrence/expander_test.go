package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return d
}

func dates(t *testing.T, ds []time.Time) []string {
	t.Helper()
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    Frequency
		wantErr bool
	}{
		{in: "", want: FrequencyNone},
		{in: "none", want: FrequencyNone},
		{in: "daily", want: FrequencyDaily},
		{in: "weekly", want: FrequencyWeekly},
		{in: "monthly", want: FrequencyMonthly},
		{in: "yearly", wantErr: true},
		{in: "Daily", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFrequency(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFrequency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand(t *testing.T) {
	t.Run("none yields a single occurrence", func(t *testing.T) {
		got, truncated, err := Expand(day(t, "2026-03-10"), FrequencyNone, time.Time{})
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, []string{"2026-03-10"}, dates(t, got))
	})

	t.Run("daily includes the until date", func(t *testing.T) {
		got, truncated, err := Expand(day(t, "2026-03-10"), FrequencyDaily, day(t, "2026-03-13"))
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, []string{"2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13"}, dates(t, got))
	})

	t.Run("weekly steps seven days", func(t *testing.T) {
		got, truncated, err := Expand(day(t, "2026-03-10"), FrequencyWeekly, day(t, "2026-03-31"))
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, []string{"2026-03-10", "2026-03-17", "2026-03-24", "2026-03-31"}, dates(t, got))
	})

	t.Run("until equal to start yields one occurrence", func(t *testing.T) {
		got, truncated, err := Expand(day(t, "2026-03-10"), FrequencyDaily, day(t, "2026-03-10"))
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, []string{"2026-03-10"}, dates(t, got))
	})

	t.Run("until before start is rejected", func(t *testing.T) {
		_, _, err := Expand(day(t, "2026-03-10"), FrequencyDaily, day(t, "2026-03-09"))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestExpand_MonthlyClamping(t *testing.T) {
	t.Run("short months clamp to their last day", func(t *testing.T) {
		got, truncated, err := Expand(day(t, "2026-01-31"), FrequencyMonthly, day(t, "2026-05-31"))
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t,
			[]string{"2026-01-31", "2026-02-28", "2026-03-31", "2026-04-30", "2026-05-31"},
			dates(t, got),
			"the original day-of-month must come back after a short month")
	})

	t.Run("leap february keeps the 29th", func(t *testing.T) {
		got, _, err := Expand(day(t, "2028-01-30"), FrequencyMonthly, day(t, "2028-03-30"))
		require.NoError(t, err)
		assert.Equal(t, []string{"2028-01-30", "2028-02-29", "2028-03-30"}, dates(t, got))
	})

	t.Run("december wraps to january", func(t *testing.T) {
		got, _, err := Expand(day(t, "2026-12-15"), FrequencyMonthly, day(t, "2027-01-15"))
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-12-15", "2027-01-15"}, dates(t, got))
	})
}

func TestExpand_OccurrenceCap(t *testing.T) {
	t.Run("long daily range is truncated", func(t *testing.T) {
		got, truncated, err := Expand(day(t, "2026-03-01"), FrequencyDaily, day(t, "2027-03-01"))
		require.NoError(t, err)
		assert.True(t, truncated)
		require.Len(t, got, MaxOccurrences)
		assert.Equal(t, "2026-03-01", got[0].Format("2006-01-02"))
		assert.Equal(t, "2026-04-19", got[MaxOccurrences-1].Format("2006-01-02"))
	})

	t.Run("range exhausted exactly at the cap is not truncated", func(t *testing.T) {
		got, truncated, err := Expand(day(t, "2026-03-01"), FrequencyDaily, day(t, "2026-04-19"))
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Len(t, got, MaxOccurrences)
	})
}

func TestNewExpander_InvalidFrequency(t *testing.T) {
	_, err := NewExpander(day(t, "2026-03-10"), Frequency(99), day(t, "2026-03-11"))
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}
