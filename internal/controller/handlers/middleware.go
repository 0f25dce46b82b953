package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser проверяет что пользователь зарегистрирован
// Возвращает user и true если OK, nil и false если нет
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, telegramID, chatID int64) (*model.User, bool) {
	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, service.ErrNotFound) {
		h.sendError(ctx, b, chatID, "❌ Пользователь не найден. Используйте /start для регистрации.")
		return nil, false
	}
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}
	return user, true
}

// userMessage переводит ошибку сервиса в текст для пользователя
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "❌ Не найдено."
	case errors.Is(err, service.ErrAccessDenied):
		return "❌ Нет доступа."
	case errors.Is(err, service.ErrAlreadyExists):
		return "❌ Предмет с таким названием уже есть."
	case errors.Is(err, service.ErrAlreadyCompleted):
		return "❌ Сессия уже завершена."
	case errors.Is(err, service.ErrExpired):
		return "⌛ Время сессии уже прошло, она отмечена как завершённая. Отчёт можно отправить через /complete."
	case errors.Is(err, service.ErrInvalidArgument):
		return "❌ Некорректные данные: проверьте значения."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// replyError логирует неожиданные ошибки и отвечает пользователю
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	if errors.Is(err, service.ErrInfrastructure) || !isExpected(err) {
		h.logger.Error("Command failed", zap.String("op", op), zap.Int64("chat_id", chatID), zap.Error(err))
	}
	h.sendError(ctx, b, chatID, userMessage(err))
}

func isExpected(err error) bool {
	for _, target := range []error{
		service.ErrNotFound,
		service.ErrAccessDenied,
		service.ErrAlreadyExists,
		service.ErrAlreadyCompleted,
		service.ErrExpired,
		service.ErrInvalidArgument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет HTML сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithKeyboard(ctx, b, chatID, text, nil)
}

func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
