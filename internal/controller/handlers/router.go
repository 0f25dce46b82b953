package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/study_planner_bot/internal/controller/state"
	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// commandFunc обработчик команды; user nil для публичных команд
type commandFunc func(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string)

type route struct {
	handler commandFunc
	public  bool
}

func (h *Handlers) buildRoutes() map[string]route {
	return map[string]route{
		"start": {handler: h.handleStart, public: true},
		"help":  {handler: h.handleHelp, public: true},

		"subjects":   {handler: h.handleSubjects},
		"addsubject": {handler: h.handleAddSubject},
		"delsubject": {handler: h.handleDeleteSubject},

		"freetime": {handler: h.handleFreeTime},
		"addfree":  {handler: h.handleAddFreeTime},
		"editfree": {handler: h.handleEditFreeTime},
		"delfree":  {handler: h.handleDeleteFreeTime},

		"generate":     {handler: h.handleGenerate},
		"sessions":     {handler: h.handleSessions},
		"today":        {handler: h.handleToday},
		"week":         {handler: h.handleWeek},
		"startsession": {handler: h.handleStartSession},
		"complete":     {handler: h.handleComplete},
	}
}

// splitCommand разбирает "/cmd@bot args" на имя команды и аргументы
func splitCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest, _ := strings.Cut(text[1:], " ")
	if at := strings.Index(head, "@"); at >= 0 {
		head = head[:at]
	}
	return strings.ToLower(head), strings.TrimSpace(rest), head != ""
}

// HandleText единая точка входа для текстовых сообщений.
// Все команды разбираются здесь: у библиотеки порядок выбора среди
// нескольких подходящих обработчиков не фиксирован, а /start - префикс /startsession.
func (h *Handlers) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	name, args, ok := splitCommand(msg.Text)
	if !ok {
		h.handlePlainText(ctx, b, msg)
		return
	}

	r, found := h.routes[name]
	if !found {
		h.sendError(ctx, b, msg.Chat.ID, "❓ Неизвестная команда. Список команд: /help")
		return
	}

	h.logger.Debug("Command received",
		zap.String("command", name),
		zap.Int64("telegram_id", msg.From.ID))

	if r.public {
		r.handler(ctx, b, msg, nil, args)
		return
	}

	user, ok := h.requireUser(ctx, b, msg.From.ID, msg.Chat.ID)
	if !ok {
		return
	}
	r.handler(ctx, b, msg, user, args)
}

// handlePlainText обычный текст имеет смысл только как отчёт по запущенной сессии
func (h *Handlers) handlePlainText(ctx context.Context, b *bot.Bot, msg *models.Message) {
	pending := h.stateManager.Get(msg.From.ID)
	if pending.State != state.StateAwaitingReport {
		h.sendMessage(ctx, b, msg.Chat.ID, "Я понимаю только команды. Список: /help")
		return
	}

	report, err := parseReport(strings.Fields(msg.Text))
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, reportUsage)
		return
	}

	user, ok := h.requireUser(ctx, b, msg.From.ID, msg.Chat.ID)
	if !ok {
		return
	}
	// ожидание одноразовое: при ошибке остаётся /complete
	h.stateManager.Clear(msg.From.ID)
	h.completeSession(ctx, b, msg.Chat.ID, user, pending.SessionID, report)
}
