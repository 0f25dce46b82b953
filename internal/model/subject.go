package model

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority разбирает приоритет без учёта регистра
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Valid проверяет что приоритет один из известных
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Subject struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	WeeklyHours int        `json:"weekly_hours"` // целевое количество часов в неделю, >= 1
	FinishBy    *time.Time `json:"finish_by"`    // nil - без дедлайна
	CreatedAt   time.Time  `json:"created_at"`
}
