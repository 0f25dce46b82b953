package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"go.uber.org/zap"
)

// ErrAdvisorOutputInvalid ответ советника не является JSON объектом ожидаемой формы
var ErrAdvisorOutputInvalid = errors.New("advisor output invalid")

type advice struct {
	Sessions []json.RawMessage `json:"sessions"`
}

type adviceEntry struct {
	SubjectName string `json:"subjectName"`
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

// StripCodeFence убирает обёртку ```json ... ```, которую любят добавлять модели
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseAdvice превращает ответ советника в черновики сессий пользователя userID.
// Невалидные записи пропускаются по одной; ошибка только если весь ответ не разбирается.
func ParseAdvice(raw string, now time.Time, userID int64, subjects []*model.Subject, freeTimes []*model.FreeTime, logger *zap.Logger) ([]*model.StudySession, error) {
	var payload advice
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdvisorOutputInvalid, err)
	}

	byName := make(map[string]*model.Subject, len(subjects))
	for _, s := range subjects {
		byName[strings.ToLower(s.Name)] = s
	}

	sessions := make([]*model.StudySession, 0, len(payload.Sessions))
	for i, item := range payload.Sessions {
		var entry adviceEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			logger.Warn("Skipping advisor entry: malformed", zap.Int("index", i), zap.Error(err))
			continue
		}

		session, reason := entryToSession(entry, now, userID, byName, freeTimes)
		if session == nil {
			logger.Warn("Skipping advisor entry",
				zap.Int("index", i),
				zap.String("subject", entry.SubjectName),
				zap.String("reason", reason))
			continue
		}

		if overlapsAny(session, sessions) {
			logger.Warn("Skipping advisor entry: overlaps accepted session",
				zap.Int("index", i),
				zap.String("subject", entry.SubjectName))
			continue
		}

		if entry.Duration != 0 && entry.Duration != session.DurationMinutes {
			logger.Debug("Advisor duration differs from bounds",
				zap.Int("index", i),
				zap.Int("advisor_duration", entry.Duration),
				zap.Int("duration", session.DurationMinutes))
		}

		sessions = append(sessions, session)
	}

	return sessions, nil
}

func entryToSession(entry adviceEntry, now time.Time, userID int64, byName map[string]*model.Subject, freeTimes []*model.FreeTime) (*model.StudySession, string) {
	subject, ok := byName[strings.ToLower(strings.TrimSpace(entry.SubjectName))]
	if !ok {
		return nil, "unknown subject"
	}
	if !model.ValidDayOfWeek(entry.DayOfWeek) {
		return nil, "invalid day of week"
	}

	startTOD, err := model.ParseTimeOfDay(entry.StartTime)
	if err != nil {
		return nil, "invalid start time"
	}
	endTOD, err := model.ParseTimeOfDay(entry.EndTime)
	if err != nil {
		return nil, "invalid end time"
	}
	if endTOD <= startTOD {
		return nil, "end before start"
	}

	if !fitsFreeTime(entry.DayOfWeek, startTOD, endTOD, freeTimes) {
		return nil, "outside free time"
	}

	start := NextOccurrence(now, entry.DayOfWeek, startTOD)
	end := start.Add(time.Duration(endTOD-startTOD) * time.Minute)

	session := model.NewStudySession(userID, subject.ID, start, end)
	session.SubjectName = subject.Name
	session.Description = strings.TrimSpace(entry.Description)
	return session, ""
}

func fitsFreeTime(day int, start, end model.TimeOfDay, freeTimes []*model.FreeTime) bool {
	for _, ft := range freeTimes {
		if ft.DayOfWeek == day && ft.Contains(start, end) {
			return true
		}
	}
	return false
}

func overlapsAny(session *model.StudySession, accepted []*model.StudySession) bool {
	for _, other := range accepted {
		if session.Overlaps(other) {
			return true
		}
	}
	return false
}
