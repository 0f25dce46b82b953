package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

var weekdayNames = [...]string{"", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}

var weekdayShort = [...]string{"", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// WeekdayName название дня недели по ISO номеру (1 = понедельник)
func WeekdayName(day int) string {
	if day >= 1 && day <= 7 {
		return weekdayNames[day]
	}
	return "Неизвестно"
}

// WeekdayShort краткое название дня недели по ISO номеру
func WeekdayShort(day int) string {
	if day >= 1 && day <= 7 {
		return weekdayShort[day]
	}
	return "?"
}

// MonthName возвращает название месяца на русском
func MonthName(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "Январь",
		time.February:  "Февраль",
		time.March:     "Март",
		time.April:     "Апрель",
		time.May:       "Май",
		time.June:      "Июнь",
		time.July:      "Июль",
		time.August:    "Август",
		time.September: "Сентябрь",
		time.October:   "Октябрь",
		time.November:  "Ноябрь",
		time.December:  "Декабрь",
	}
	return names[month]
}

func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeSessions склонение слова "сессия"
func PluralizeSessions(count int) string {
	return pluralize(count, "сессия", "сессии", "сессий")
}

// PluralizePomodoros склонение слова "помидор"
func PluralizePomodoros(count int) string {
	return pluralize(count, "помидор", "помидора", "помидоров")
}

// PluralizeHours склонение слова "час"
func PluralizeHours(count int) string {
	return pluralize(count, "час", "часа", "часов")
}

var priorityLabels = map[model.Priority]string{
	model.PriorityHigh:   "🔴 высокий",
	model.PriorityMedium: "🟡 средний",
	model.PriorityLow:    "🟢 низкий",
}

// PriorityLabel человекочитаемый приоритет
func PriorityLabel(p model.Priority) string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// FormatSubject строка предмета для списка
func FormatSubject(s *model.Subject) string {
	line := fmt.Sprintf("#%d <b>%s</b> · %s · %d %s/нед", s.ID, Escape(s.Name), PriorityLabel(s.Priority), s.WeeklyHours, PluralizeHours(s.WeeklyHours))
	if s.FinishBy != nil {
		line += " · до " + FormatDate(*s.FinishBy)
	}
	return line
}

// FormatFreeTime строка свободного интервала
func FormatFreeTime(ft *model.FreeTime) string {
	return fmt.Sprintf("#%d %s %s-%s (%s)", ft.ID, WeekdayShort(ft.DayOfWeek), ft.StartTime, ft.EndTime, FormatDuration(ft.DurationMinutes()))
}

// FormatSession строка учебной сессии
func FormatSession(s *model.StudySession) string {
	status := "⏳"
	if s.Completed {
		status = "✅"
	}

	line := fmt.Sprintf("%s #%d %s %s %s · <b>%s</b> (%s)",
		status,
		s.ID,
		WeekdayShort(model.ISOWeekday(s.StartTime.Weekday())),
		s.StartTime.Format("02.01"),
		FormatTimeRange(s.StartTime, s.EndTime),
		Escape(s.SubjectName),
		FormatDuration(s.DurationMinutes))

	if s.ActualMinutes != nil {
		line += fmt.Sprintf(" · факт %s", FormatDuration(*s.ActualMinutes))
	}
	if s.Description != "" {
		line += "\n    " + Escape(s.Description)
	}
	return line
}

// FormatSessionList список сессий с заголовком; пустой список даёт emptyText
func FormatSessionList(title string, sessions []*model.StudySession, emptyText string) string {
	if len(sessions) == 0 {
		return title + "\n\n" + emptyText
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, s := range sessions {
		b.WriteString(FormatSession(s))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nВсего: %d %s", len(sessions), PluralizeSessions(len(sessions)))
	return b.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape экранирует текст для ParseModeHTML
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}
