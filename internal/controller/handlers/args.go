package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/service"
)

var errBadArgs = errors.New("bad command arguments")

var dayAliases = map[string]int{
	"пн": 1, "понедельник": 1,
	"вт": 2, "вторник": 2,
	"ср": 3, "среда": 3,
	"чт": 4, "четверг": 4,
	"пт": 5, "пятница": 5,
	"сб": 6, "суббота": 6,
	"вс": 7, "воскресенье": 7,
}

// parseDay принимает 1..7 или русское название дня
func parseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if day, ok := dayAliases[s]; ok {
		return day, nil
	}
	day, err := strconv.Atoi(s)
	if err != nil || !model.ValidDayOfWeek(day) {
		return 0, fmt.Errorf("%w: day %q", errBadArgs, s)
	}
	return day, nil
}

// parseTimeRange разбирает "ЧЧ:ММ-ЧЧ:ММ"
func parseTimeRange(s string) (start, end model.TimeOfDay, err error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: time range %q", errBadArgs, s)
	}
	if start, err = model.ParseTimeOfDay(strings.TrimSpace(from)); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", errBadArgs, err)
	}
	if end, err = model.ParseTimeOfDay(strings.TrimSpace(to)); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", errBadArgs, err)
	}
	return start, end, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", errBadArgs, s)
	}
	return id, nil
}

type freeTimeArgs struct {
	day   int
	start model.TimeOfDay
	end   model.TimeOfDay
}

// parseFreeTimeArgs разбирает "ДЕНЬ ЧЧ:ММ-ЧЧ:ММ"
func parseFreeTimeArgs(fields []string) (freeTimeArgs, error) {
	if len(fields) != 2 {
		return freeTimeArgs{}, fmt.Errorf("%w: want day and time range", errBadArgs)
	}
	day, err := parseDay(fields[0])
	if err != nil {
		return freeTimeArgs{}, err
	}
	start, end, err := parseTimeRange(fields[1])
	if err != nil {
		return freeTimeArgs{}, err
	}
	return freeTimeArgs{day: day, start: start, end: end}, nil
}

// parseSubjectArgs разбирает "Название;PRIORITY;часы[;ГГГГ-ММ-ДД]".
// Описание, если нужно, идёт пятым полем.
func parseSubjectArgs(s string) (service.SubjectInput, error) {
	parts := strings.Split(s, ";")
	if len(parts) < 3 || len(parts) > 5 {
		return service.SubjectInput{}, fmt.Errorf("%w: want 3 to 5 fields", errBadArgs)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	priority, ok := model.ParsePriority(parts[1])
	if !ok {
		return service.SubjectInput{}, fmt.Errorf("%w: priority %q", errBadArgs, parts[1])
	}
	hours, err := strconv.Atoi(parts[2])
	if err != nil {
		return service.SubjectInput{}, fmt.Errorf("%w: weekly hours %q", errBadArgs, parts[2])
	}

	in := service.SubjectInput{
		Name:        parts[0],
		Priority:    priority,
		WeeklyHours: hours,
	}

	if len(parts) >= 4 && parts[3] != "" {
		finishBy, err := time.Parse("2006-01-02", parts[3])
		if err != nil {
			return service.SubjectInput{}, fmt.Errorf("%w: finish date %q", errBadArgs, parts[3])
		}
		in.FinishBy = &finishBy
	}
	if len(parts) == 5 {
		in.Description = parts[4]
	}
	return in, nil
}

// parseCompleteArgs разбирает "ID минут помидоров"
func parseCompleteArgs(fields []string) (int64, service.CompletionReport, error) {
	if len(fields) != 3 {
		return 0, service.CompletionReport{}, fmt.Errorf("%w: want id, minutes and pomodoros", errBadArgs)
	}
	id, err := parseID(fields[0])
	if err != nil {
		return 0, service.CompletionReport{}, err
	}
	report, err := parseReport(fields[1:])
	if err != nil {
		return 0, service.CompletionReport{}, err
	}
	return id, report, nil
}

// parseReport разбирает "минут помидоров"
func parseReport(fields []string) (service.CompletionReport, error) {
	if len(fields) != 2 {
		return service.CompletionReport{}, fmt.Errorf("%w: want minutes and pomodoros", errBadArgs)
	}
	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return service.CompletionReport{}, fmt.Errorf("%w: minutes %q", errBadArgs, fields[0])
	}
	pomodoros, err := strconv.Atoi(fields[1])
	if err != nil {
		return service.CompletionReport{}, fmt.Errorf("%w: pomodoros %q", errBadArgs, fields[1])
	}
	return service.CompletionReport{ActualMinutes: minutes, CompletedPomodoros: pomodoros}, nil
}

// parseDaysAhead необязательный горизонт для /generate; 0 значит по умолчанию
func parseDaysAhead(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil || days < 1 || days > 31 {
		return 0, fmt.Errorf("%w: days %q", errBadArgs, s)
	}
	return days, nil
}
