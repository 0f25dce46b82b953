package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	deleteFreePrefix   = "delete_free:"
	startSessionPrefix = "start_session:"
)

// HandleCallback обрабатывает нажатия на inline кнопки
func (h *Handlers) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	h.logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID))

	if callback.Message.Message == nil {
		h.answerCallback(ctx, b, callback.ID, "Сообщение устарело")
		return
	}
	chatID := callback.Message.Message.Chat.ID

	prefix, rawID, found := splitCallback(callback.Data)
	if !found {
		h.logger.Warn("Unknown callback", zap.String("data", callback.Data))
		h.answerCallback(ctx, b, callback.ID, "Неизвестное действие")
		return
	}

	id, err := parseID(rawID)
	if err != nil {
		h.answerCallback(ctx, b, callback.ID, "Некорректные данные")
		return
	}

	user, ok := h.requireUser(ctx, b, callback.From.ID, chatID)
	h.answerCallback(ctx, b, callback.ID, "")
	if !ok {
		return
	}

	switch prefix {
	case deleteFreePrefix:
		h.deleteFreeTime(ctx, b, chatID, user, id)
	case startSessionPrefix:
		h.startSession(ctx, b, chatID, user, id)
	}
}

// splitCallback отделяет известный префикс действия от аргумента
func splitCallback(data string) (prefix, arg string, ok bool) {
	for _, p := range []string{deleteFreePrefix, startSessionPrefix} {
		if rest, found := strings.CutPrefix(data, p); found {
			return p, rest, true
		}
	}
	return "", "", false
}

// answerCallback отвечает на callback query (без alert)
func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}
