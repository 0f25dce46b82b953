package planner

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
)

const (
	MinSessionMinutes = 30
	MaxSessionMinutes = 120
)

var weekdayNames = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
	6: "Saturday",
	7: "Sunday",
}

// WeekdayName английское название ISO дня недели для промпта
func WeekdayName(day int) string {
	if name, ok := weekdayNames[day]; ok {
		return name
	}
	return fmt.Sprintf("Day %d", day)
}

// BuildPrompt собирает запрос к советнику: предметы, свободное время и формат ответа
func BuildPrompt(subjects []*model.Subject, freeTimes []*model.FreeTime, daysAhead int) string {
	var b strings.Builder

	b.WriteString("You are an AI specialized in study planning. ")
	b.WriteString("Generate an optimized study schedule based on the following:\n\n")

	b.WriteString("SUBJECTS:\n")
	for _, s := range subjects {
		description := s.Description
		if description == "" {
			description = "No description"
		}
		fmt.Fprintf(&b, "- %s: %s, Priority: %s, WeeklyHours: %d", s.Name, description, s.Priority, s.WeeklyHours)
		if s.FinishBy != nil {
			fmt.Fprintf(&b, ", FinishBy: %s", s.FinishBy.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nFREE TIME:\n")
	for _, ft := range freeTimes {
		fmt.Fprintf(&b, "- %s (dayOfWeek %d): %s - %s\n", WeekdayName(ft.DayOfWeek), ft.DayOfWeek, ft.StartTime, ft.EndTime)
	}

	b.WriteString("\nREQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Schedule for the next %d days\n", daysAhead)
	b.WriteString("- Prioritize HIGH priority subjects\n")
	b.WriteString("- Distribute study time evenly across days\n")
	b.WriteString("- Match total weekly hours per subject\n")
	b.WriteString("- Only use available free time slots, sessions must not overlap\n")
	fmt.Fprintf(&b, "- Each session should be %d-%d minutes\n", MinSessionMinutes, MaxSessionMinutes)
	b.WriteString("- Avoid very long study days\n\n")

	b.WriteString("OUTPUT FORMAT (JSON only):\n")
	b.WriteString(`{
  "sessions": [
    {
      "subjectName": "Subject name",
      "dayOfWeek": 1,
      "startTime": "HH:mm",
      "endTime": "HH:mm",
      "duration": 60,
      "description": "Short note"
    }
  ]
}`)
	b.WriteString("\n\nReturn JSON only. No explanation or comments.")

	return b.String()
}
