package planner

import (
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
)

// NextOccurrence возвращает ближайший (не раньше now) момент с днём недели dayOfWeek
// (1 = понедельник) и временем tod. Берётся день той же недели Пн-Вс, что и now;
// если он уже прошёл, добавляется ровно неделя.
func NextOccurrence(now time.Time, dayOfWeek int, tod model.TimeOfDay) time.Time {
	shift := dayOfWeek - model.ISOWeekday(now.Weekday())
	day := now.AddDate(0, 0, shift)
	target := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, now.Location())

	if target.Before(now) {
		target = target.AddDate(0, 0, 7)
	}
	return target
}
