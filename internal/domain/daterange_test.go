package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	assert.Equal(t, start, r.Start)
	assert.Equal(t, end, r.End)

	// End before start fails.
	_, err = NewDateRange(end, start)
	assert.Error(t, err)

	// A single-instant range is valid.
	_, err = NewDateRange(start, start)
	assert.NoError(t, err)
}

func TestDateRange_Contains(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	r, err := NewDateRange(start, end)
	require.NoError(t, err)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start boundary is inclusive", start, true},
		{"end boundary is inclusive", end, true},
		{"middle of the range", time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), true},
		{"before start", start.Add(-time.Second), false},
		{"after end", end.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.t))
		})
	}
}

func TestDateRange_TotalDays(t *testing.T) {
	r, err := NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 31, r.TotalDays())

	single, err := NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, single.TotalDays())
}

func TestCurrentMonth(t *testing.T) {
	r := CurrentMonth()
	now := time.Now().UTC()

	assert.True(t, r.Contains(now))
	assert.Equal(t, 1, r.Start.Day())
	assert.Equal(t, now.Month(), r.Start.Month())

	// End is one tick before the first instant of the next month.
	nextMonth := r.Start.AddDate(0, 1, 0)
	assert.True(t, r.End.Before(nextMonth))
	assert.Equal(t, time.Nanosecond, nextMonth.Sub(r.End))
}
