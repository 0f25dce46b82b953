// Package interval нормализует недельные интервалы свободного времени.
//
// Внутри одного дня недели интервалы хранятся минимальным набором: никакие
// два интервала не пересекаются и не касаются друг друга. Касание (a.End ==
// b.Start) считается пересечением, потому что время подряд - это один
// непрерывный отрезок.
package interval

import (
	"fmt"
	"sort"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
)

// Result результат слияния кандидата с существующим набором дня
type Result struct {
	// Merged итоговый интервал. При Update сохраняет ID редактируемого интервала,
	// при Insert ID равен нулю.
	Merged model.FreeTime
	// Absorbed существующие интервалы, поглощённые Merged. Их нужно удалить.
	Absorbed []*model.FreeTime
}

// Touches проверяет пересечение или касание (включительно с обеих сторон)
func Touches(aStart, aEnd, bStart, bEnd model.TimeOfDay) bool {
	return aStart <= bEnd && aEnd >= bStart
}

// Insert сливает candidate с интервалами того же дня
func Insert(existing []*model.FreeTime, candidate model.FreeTime) Result {
	return merge(existing, nil, candidate)
}

// Update сливает новые границы редактируемого интервала с остальными интервалами дня.
// Сам edited в слиянии не участвует, его идентичность переходит к Merged.
func Update(existing []*model.FreeTime, edited *model.FreeTime, candidate model.FreeTime) Result {
	res := merge(existing, edited, candidate)
	if edited != nil {
		res.Merged.ID = edited.ID
		res.Merged.CreatedAt = edited.CreatedAt
	}
	return res
}

func merge(existing []*model.FreeTime, edited *model.FreeTime, candidate model.FreeTime) Result {
	merged := candidate
	merged.ID = 0

	taken := make(map[*model.FreeTime]bool)
	var absorbed []*model.FreeTime

	// Повторяем проход, пока границы растут: на ненормализованном входе
	// расширенный интервал может задеть соседа, не задетого кандидатом.
	for changed := true; changed; {
		changed = false
		for _, e := range existing {
			if e == nil || taken[e] || isSame(e, edited) {
				continue
			}
			if e.DayOfWeek != candidate.DayOfWeek || e.UserID != candidate.UserID {
				continue
			}
			if !Touches(merged.StartTime, merged.EndTime, e.StartTime, e.EndTime) {
				continue
			}

			if e.StartTime < merged.StartTime {
				merged.StartTime = e.StartTime
			}
			if e.EndTime > merged.EndTime {
				merged.EndTime = e.EndTime
			}
			taken[e] = true
			absorbed = append(absorbed, e)
			changed = true
		}
	}

	return Result{Merged: merged, Absorbed: absorbed}
}

func isSame(e, edited *model.FreeTime) bool {
	if edited == nil {
		return false
	}
	if e == edited {
		return true
	}
	return edited.ID != 0 && e.ID == edited.ID
}

// Apply возвращает новый набор: existing без поглощённых (и без edited) плюс Merged.
// Результат отсортирован по дню и времени начала.
func Apply(existing []*model.FreeTime, edited *model.FreeTime, res Result) []*model.FreeTime {
	drop := make(map[*model.FreeTime]bool, len(res.Absorbed))
	for _, a := range res.Absorbed {
		drop[a] = true
	}

	out := make([]*model.FreeTime, 0, len(existing)+1)
	for _, e := range existing {
		if drop[e] || isSame(e, edited) {
			continue
		}
		out = append(out, e)
	}
	merged := res.Merged
	out = append(out, &merged)

	Sort(out)
	return out
}

// Sort упорядочивает интервалы по дню недели и времени начала
func Sort(intervals []*model.FreeTime) {
	sort.SliceStable(intervals, func(i, j int) bool {
		if intervals[i].DayOfWeek != intervals[j].DayOfWeek {
			return intervals[i].DayOfWeek < intervals[j].DayOfWeek
		}
		return intervals[i].StartTime < intervals[j].StartTime
	})
}

// Validate проверяет инвариант набора: в пределах одного пользователя и дня
// нет пересекающихся или касающихся интервалов и у каждого start < end.
func Validate(intervals []*model.FreeTime) error {
	for i, a := range intervals {
		if a.StartTime >= a.EndTime {
			return fmt.Errorf("interval %s-%s on day %d is empty", a.StartTime, a.EndTime, a.DayOfWeek)
		}
		for _, b := range intervals[i+1:] {
			if a.UserID != b.UserID || a.DayOfWeek != b.DayOfWeek {
				continue
			}
			if Touches(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
				return fmt.Errorf("intervals %s-%s and %s-%s on day %d overlap or touch",
					a.StartTime, a.EndTime, b.StartTime, b.EndTime, a.DayOfWeek)
			}
		}
	}
	return nil
}
