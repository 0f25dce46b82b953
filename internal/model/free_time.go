package model

import (
	"fmt"
	"time"
)

// TimeOfDay время суток в минутах от полуночи
type TimeOfDay int

const MinutesPerDay = 24 * 60

// NewTimeOfDay собирает время из часов и минут
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay разбирает строку формата HH:MM; "24:00" - конец суток
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if s == "24:00" {
		return MinutesPerDay, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

// TimeOfDayOf возвращает время суток момента t
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// Hour возвращает часы
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute возвращает минуты
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Valid проверяет что время лежит внутри суток
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// ValidEnd проверяет конец интервала: полночь (24:00) допустима
func (t TimeOfDay) ValidEnd() bool {
	return t > 0 && t <= MinutesPerDay
}

// FreeTime свободный интервал пользователя, повторяющийся каждую неделю
type FreeTime struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	DayOfWeek int       `json:"day_of_week"` // 1 = Monday, 7 = Sunday
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidDayOfWeek проверяет номер дня недели (ISO, 1..7)
func ValidDayOfWeek(day int) bool {
	return day >= 1 && day <= 7
}

// ISOWeekday переводит time.Weekday в ISO номер (Monday = 1, Sunday = 7)
func ISOWeekday(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}

// DurationMinutes длительность интервала в минутах
func (f *FreeTime) DurationMinutes() int {
	return int(f.EndTime - f.StartTime)
}

// Contains проверяет что [start, end] целиком внутри интервала
func (f *FreeTime) Contains(start, end TimeOfDay) bool {
	return start >= f.StartTime && end <= f.EndTime
}
