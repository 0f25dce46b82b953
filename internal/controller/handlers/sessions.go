package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/controller/view"
	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/pomodoro"
	"github.com/Freeeeeet/study_planner_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	generateUsage     = "Формат: /generate [дней], от 1 до 31"
	startSessionUsage = "Формат: /startsession ID"
	completeUsage     = "Формат: /complete ID минут помидоров\nНапример: /complete 12 50 2"
	reportUsage       = "Пришлите отчёт двумя числами: минут помидоров, например 50 2.\nИли /complete ID минут помидоров"
	weekUsage         = "Формат: /week [смещение], например /week 1 для следующей недели"

	// не больше кнопок старта под списком сессий
	maxStartButtons = 8
)

var sourceLabels = map[service.PlanSource]string{
	service.SourceAdvisor:  "🤖 план составлен ассистентом",
	service.SourceFallback: "🧮 план составлен автоматически по свободному времени",
}

func (h *Handlers) handleGenerate(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	days, err := parseDaysAhead(args)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, generateUsage)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, "⏳ Составляю расписание...")

	result, err := h.scheduleService.Generate(ctx, user.ID, days)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "generate schedule", err)
		return
	}

	if result.Source == service.SourceNone {
		h.sendMessage(ctx, b, msg.Chat.ID,
			"🤷 Планировать нечего: нужны хотя бы один предмет (/addsubject) и свободное время (/addfree).")
		return
	}

	title := fmt.Sprintf("🗓 <b>План на %s - %s</b>\n%s",
		view.FormatDate(result.From), view.FormatDate(result.To), sourceLabels[result.Source])
	text := view.FormatSessionList(title, result.Sessions,
		"Не нашлось свободного времени в ближайшие дни. Добавьте интервалы через /addfree.")

	h.sendWithKeyboard(ctx, b, msg.Chat.ID, text, h.startButtons(result.Sessions))
}

func (h *Handlers) handleSessions(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, _ string) {
	sessions, monday, err := h.sessionService.ListWeek(ctx, user.ID, 0)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "list week sessions", err)
		return
	}

	title := fmt.Sprintf("📅 <b>Неделя %s - %s</b>", view.FormatDate(monday), view.FormatDate(monday.AddDate(0, 0, 6)))
	text := view.FormatSessionList(title, sessions, "На этой неделе сессий нет. Составить план: /generate")
	h.sendWithKeyboard(ctx, b, msg.Chat.ID, text, h.startButtons(sessions))
}

func (h *Handlers) handleToday(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, _ string) {
	sessions, err := h.sessionService.ListToday(ctx, user.ID)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "list today sessions", err)
		return
	}

	title := fmt.Sprintf("📌 <b>Сегодня, %s</b>", view.FormatDate(h.now()))
	text := view.FormatSessionList(title, sessions, "Сегодня занятий нет.")
	h.sendWithKeyboard(ctx, b, msg.Chat.ID, text, h.startButtons(sessions))
}

func (h *Handlers) handleWeek(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	offset := 0
	if s := strings.TrimSpace(args); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < -52 || n > 52 {
			h.sendError(ctx, b, msg.Chat.ID, weekUsage)
			return
		}
		offset = n
	}

	sessions, monday, err := h.sessionService.ListWeek(ctx, user.ID, offset)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "list week sessions", err)
		return
	}
	freeTimes, err := h.availabilityService.ListFreeTime(ctx, user.ID)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "list free time", err)
		return
	}

	img, err := view.GenerateWeekImage(view.WeekImage{
		WeekStart: monday,
		Now:       h.now(),
		Sessions:  sessions,
		FreeTimes: freeTimes,
	})
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, msg.Chat.ID, "❌ Не удалось нарисовать неделю. Список сессий: /sessions")
		return
	}

	caption := fmt.Sprintf("🗓 <b>%s - %s</b>\n%d %s",
		view.FormatDate(monday), view.FormatDate(monday.AddDate(0, 0, 6)),
		len(sessions), view.PluralizeSessions(len(sessions)))

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    msg.Chat.ID,
		Photo:     &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(img)},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func (h *Handlers) handleStartSession(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	id, err := parseID(args)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, startSessionUsage)
		return
	}
	h.startSession(ctx, b, msg.Chat.ID, user, id)
}

func (h *Handlers) startSession(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, sessionID int64) {
	start, err := h.sessionService.StartSession(ctx, user.ID, sessionID)
	if err != nil {
		h.replyError(ctx, b, chatID, "start session", err)
		return
	}
	h.stateManager.AwaitReport(user.TelegramID, sessionID)
	h.sendMessage(ctx, b, chatID, formatSessionStart(start)+
		"\nили просто пришлите два числа, например: 50 2")
}

// formatSessionStart расписывает сессию по помидорам от её начала
func formatSessionStart(start *service.SessionStart) string {
	s := start.Session

	var sb strings.Builder
	fmt.Fprintf(&sb, "▶️ <b>%s</b>, сессия #%d\n", view.Escape(start.SubjectName), s.ID)
	fmt.Fprintf(&sb, "%s, %s\n\n", view.FormatTimeRange(s.StartTime, s.EndTime), view.FormatDuration(s.DurationMinutes))

	if start.Plan.Pomodoros == 0 {
		fmt.Fprintf(&sb, "Сессия короче одного помидора (%d мин), занимайтесь без таймера.\n", start.FocusMinutes)
	} else {
		fmt.Fprintf(&sb, "🍅 %d %s по %d мин, перерывы %d мин\n\n",
			start.Plan.Pomodoros, view.PluralizePomodoros(start.Plan.Pomodoros), start.FocusMinutes, start.ShortBreakMinutes)
		for _, block := range start.Blocks {
			from := s.StartTime.Add(time.Duration(block.Offset) * time.Minute)
			to := from.Add(time.Duration(block.Minutes) * time.Minute)
			label := "🍅 фокус"
			if block.Kind == pomodoro.BlockShortBreak {
				label = "☕ перерыв"
			}
			fmt.Fprintf(&sb, "%s %s\n", view.FormatTimeRange(from, to), label)
		}
		if start.Plan.RemainingMinutes > 0 {
			fmt.Fprintf(&sb, "\nОстаток %s - на повторение.\n", view.FormatDuration(start.Plan.RemainingMinutes))
		}
	}

	fmt.Fprintf(&sb, "\nПосле занятия: /complete %d минут помидоров", s.ID)
	return sb.String()
}

func (h *Handlers) handleComplete(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	id, report, err := parseCompleteArgs(strings.Fields(args))
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, completeUsage)
		return
	}

	h.completeSession(ctx, b, msg.Chat.ID, user, id, report)
}

func (h *Handlers) completeSession(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, id int64, report service.CompletionReport) {
	result, err := h.sessionService.CompleteSession(ctx, user.ID, id, report)
	if err != nil {
		h.replyError(ctx, b, chatID, "complete session", err)
		return
	}
	h.stateManager.ClearIf(user.TelegramID, id)

	text := fmt.Sprintf("✅ Сессия #%d завершена\n\nПлан: %s\nФакт: %s, %d %s\nЭффективность: <b>%.0f%%</b>",
		id,
		view.FormatDuration(result.Session.DurationMinutes),
		view.FormatDuration(report.ActualMinutes),
		report.CompletedPomodoros, view.PluralizePomodoros(report.CompletedPomodoros),
		result.Efficiency)
	h.sendMessage(ctx, b, chatID, text)
}

// startButtons кнопки старта для ещё не прошедших сессий
func (h *Handlers) startButtons(sessions []*model.StudySession) *models.InlineKeyboardMarkup {
	now := h.now()
	kb := view.NewBuilder()
	for _, s := range sessions {
		if kb.Len() >= maxStartButtons {
			break
		}
		if s.Completed || s.IsExpired(now) || s.ID == 0 {
			continue
		}
		kb.Row(view.Button(
			fmt.Sprintf("▶️ #%d %s %s", s.ID, s.StartTime.Format("02.01 15:04"), s.SubjectName),
			startSessionPrefix+strconv.FormatInt(s.ID, 10)))
	}
	if kb.Len() == 0 {
		return nil
	}
	return kb.Build()
}
