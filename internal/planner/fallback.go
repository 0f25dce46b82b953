package planner

import (
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
)

const (
	DefaultSessionsPerSubject = 2
	DefaultSessionMinutes     = 60
)

// FallbackAllocator детерминированный жадный распределитель, работающий без советника
type FallbackAllocator struct {
	SessionsPerSubject int
	SessionMinutes     int
}

// NewFallbackAllocator создаёт распределитель с настройками по умолчанию
func NewFallbackAllocator() FallbackAllocator {
	return FallbackAllocator{
		SessionsPerSubject: DefaultSessionsPerSubject,
		SessionMinutes:     DefaultSessionMinutes,
	}
}

// Allocate раскладывает предметы по свободным интервалам.
//
// i-я сессия каждого предмета попадает в интервал i mod len(freeTimes) в порядке
// объявления, в ближайшее вхождение его дня недели. Внутри одного вхождения
// сессии идут подряд от начала интервала, поэтому не пересекаются. Сессия, не
// помещающаяся в интервал целиком, отбрасывается: ни сдвига, ни обрезки.
func (a FallbackAllocator) Allocate(now time.Time, subjects []*model.Subject, freeTimes []*model.FreeTime) []*model.StudySession {
	sessions := make([]*model.StudySession, 0)
	if len(subjects) == 0 || len(freeTimes) == 0 || a.SessionsPerSubject <= 0 || a.SessionMinutes <= 0 {
		return sessions
	}

	// сколько минут каждого интервала уже занято в этом запуске
	used := make([]int, len(freeTimes))

	for _, subject := range subjects {
		for i := 0; i < a.SessionsPerSubject; i++ {
			idx := i % len(freeTimes)
			ft := freeTimes[idx]

			startTOD := ft.StartTime + model.TimeOfDay(used[idx])
			endTOD := startTOD + model.TimeOfDay(a.SessionMinutes)
			if endTOD > ft.EndTime {
				continue
			}

			start := NextOccurrence(now, ft.DayOfWeek, ft.StartTime).Add(time.Duration(used[idx]) * time.Minute)
			end := start.Add(time.Duration(a.SessionMinutes) * time.Minute)

			session := model.NewStudySession(subject.UserID, subject.ID, start, end)
			session.SubjectName = subject.Name
			sessions = append(sessions, session)

			used[idx] += a.SessionMinutes
		}
	}

	return sessions
}
