package model

import (
	"time"

	"github.com/google/uuid"
)

type StudySession struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	SubjectID          int64      `json:"subject_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	DurationMinutes    int        `json:"duration_minutes"`
	Completed          bool       `json:"completed"`
	ActualMinutes      *int       `json:"actual_minutes"`      // nil пока сессия не завершена
	CompletedPomodoros *int       `json:"completed_pomodoros"` // nil пока сессия не завершена
	BatchID            *uuid.UUID `json:"batch_id"`            // запуск генерации, создавший сессию
	Description        string     `json:"description"`
	CreatedAt          time.Time  `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	SubjectName string `json:"subject_name,omitempty"`
}

// NewStudySession создаёт черновик сессии с согласованной длительностью
func NewStudySession(userID, subjectID int64, start, end time.Time) *StudySession {
	return &StudySession{
		UserID:          userID,
		SubjectID:       subjectID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: int(end.Sub(start) / time.Minute),
	}
}

// Overlaps проверяет пересечение двух сессий по времени
func (s *StudySession) Overlaps(other *StudySession) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// IsExpired проверяет что сессия уже закончилась к моменту now
func (s *StudySession) IsExpired(now time.Time) bool {
	return now.After(s.EndTime)
}
