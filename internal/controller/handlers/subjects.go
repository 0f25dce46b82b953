package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/study_planner_bot/internal/controller/view"
	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	addSubjectUsage = "Формат: /addsubject Название;PRIORITY;часы[;ГГГГ-ММ-ДД]\n" +
		"Например: /addsubject Физика;MEDIUM;3;2026-12-20"
	delSubjectUsage = "Формат: /delsubject ID"
)

func (h *Handlers) handleSubjects(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, _ string) {
	subjects, err := h.subjectService.ListSubjects(ctx, user.ID)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "list subjects", err)
		return
	}

	if len(subjects) == 0 {
		h.sendMessage(ctx, b, msg.Chat.ID, "📚 Предметов пока нет.\n\n"+addSubjectUsage)
		return
	}

	var sb strings.Builder
	sb.WriteString("📚 <b>Ваши предметы</b>\n\n")
	for _, s := range subjects {
		sb.WriteString(view.FormatSubject(s))
		sb.WriteString("\n")
	}
	h.sendMessage(ctx, b, msg.Chat.ID, sb.String())
}

func (h *Handlers) handleAddSubject(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	in, err := parseSubjectArgs(args)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Не удалось разобрать предмет.\n\n"+addSubjectUsage)
		return
	}

	subject, err := h.subjectService.CreateSubject(ctx, user.ID, in)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "create subject", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, "✅ Предмет добавлен:\n"+view.FormatSubject(subject))
}

func (h *Handlers) handleDeleteSubject(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	id, err := parseID(args)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, delSubjectUsage)
		return
	}

	if err := h.subjectService.DeleteSubject(ctx, user.ID, id); err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "delete subject", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, fmt.Sprintf("🗑 Предмет #%d удалён вместе с его сессиями.", id))
}
