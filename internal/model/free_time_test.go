package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(8*60+30), tod)
	assert.Equal(t, 8, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "08:30", tod.String())

	midnight, err := ParseTimeOfDay("24:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(MinutesPerDay), midnight)
	assert.Equal(t, "24:00", midnight.String())
	assert.False(t, midnight.Valid())
	assert.True(t, midnight.ValidEnd())
	assert.False(t, TimeOfDay(0).ValidEnd())

	for _, bad := range []string{"", "8", "24:01", "25:00", "12:60", "ab:cd"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 1, ISOWeekday(time.Monday))
	assert.Equal(t, 6, ISOWeekday(time.Saturday))
	assert.Equal(t, 7, ISOWeekday(time.Sunday))
}

func TestFreeTimeContains(t *testing.T) {
	ft := &FreeTime{DayOfWeek: 1, StartTime: NewTimeOfDay(8, 0), EndTime: NewTimeOfDay(10, 0)}

	assert.Equal(t, 120, ft.DurationMinutes())
	assert.True(t, ft.Contains(NewTimeOfDay(8, 0), NewTimeOfDay(10, 0)))
	assert.True(t, ft.Contains(NewTimeOfDay(9, 0), NewTimeOfDay(9, 30)))
	assert.False(t, ft.Contains(NewTimeOfDay(7, 59), NewTimeOfDay(9, 0)))
	assert.False(t, ft.Contains(NewTimeOfDay(9, 30), NewTimeOfDay(10, 1)))
}

func TestNewStudySessionDuration(t *testing.T) {
	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s := NewStudySession(1, 2, start, start.Add(90*time.Minute))

	assert.Equal(t, 90, s.DurationMinutes)
	assert.False(t, s.IsExpired(start.Add(90*time.Minute)))
	assert.True(t, s.IsExpired(start.Add(91*time.Minute)))
}
