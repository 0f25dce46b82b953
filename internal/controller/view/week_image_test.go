package view

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWeekImage(t *testing.T) {
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	now := monday.Add(2*24*time.Hour + 10*time.Hour)

	done := model.NewStudySession(1, 1, monday.Add(9*time.Hour), monday.Add(10*time.Hour))
	done.SubjectName = "Математический анализ"
	done.Completed = true
	actual := 55
	done.ActualMinutes = &actual

	upcoming := model.NewStudySession(1, 2, now.Add(2*time.Hour), now.Add(3*time.Hour))
	upcoming.SubjectName = "Physics"

	img, err := GenerateWeekImage(WeekImage{
		WeekStart: monday,
		Now:       now,
		Sessions:  []*model.StudySession{done, upcoming},
		FreeTimes: []*model.FreeTime{
			{DayOfWeek: 1, StartTime: model.NewTimeOfDay(8, 0), EndTime: model.NewTimeOfDay(12, 0)},
		},
	})
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, cfg.Width)
	assert.Equal(t, imageHeight, cfg.Height)
}

func TestGenerateWeekImage_Empty(t *testing.T) {
	img, err := GenerateWeekImage(WeekImage{
		WeekStart: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}

func TestCalculateHourRange(t *testing.T) {
	r := calculateHourRange(nil, nil)
	assert.Equal(t, hourRange{start: defaultMinHour - 1, end: defaultMaxHour + 1, total: 14}, r)

	r = calculateHourRange(nil, []*model.FreeTime{
		{DayOfWeek: 1, StartTime: model.NewTimeOfDay(6, 0), EndTime: model.NewTimeOfDay(23, 30)},
	})
	assert.Equal(t, 5, r.start)
	assert.Equal(t, 24, r.end)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Физика", truncate("Физика", 10))
	assert.Equal(t, "Мате…", truncate("Математика", 5))
}
