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
	addFreeUsage  = "Формат: /addfree ДЕНЬ ЧЧ:ММ-ЧЧ:ММ (до полуночи - 24:00)\nНапример: /addfree ср 18:00-20:30"
	editFreeUsage = "Формат: /editfree ID ДЕНЬ ЧЧ:ММ-ЧЧ:ММ"
	delFreeUsage  = "Формат: /delfree ID"
)

func (h *Handlers) handleFreeTime(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, _ string) {
	freeTimes, err := h.availabilityService.ListFreeTime(ctx, user.ID)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "list free time", err)
		return
	}

	if len(freeTimes) == 0 {
		h.sendMessage(ctx, b, msg.Chat.ID, "🕒 Свободное время не задано.\n\n"+addFreeUsage)
		return
	}

	var sb strings.Builder
	sb.WriteString("🕒 <b>Свободное время</b>\n\n")
	kb := view.NewBuilder()
	for _, ft := range freeTimes {
		sb.WriteString(view.FormatFreeTime(ft))
		sb.WriteString("\n")
		kb.Row(view.Button(fmt.Sprintf("🗑 #%d %s %s", ft.ID, view.WeekdayShort(ft.DayOfWeek), ft.StartTime), deleteFreePrefix+fmt.Sprint(ft.ID)))
	}

	h.sendWithKeyboard(ctx, b, msg.Chat.ID, sb.String(), kb.Build())
}

func (h *Handlers) handleAddFreeTime(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	parsed, err := parseFreeTimeArgs(strings.Fields(args))
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Не удалось разобрать интервал.\n\n"+addFreeUsage)
		return
	}

	ft, err := h.availabilityService.AddFreeTime(ctx, user.ID, parsed.day, parsed.start, parsed.end)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "add free time", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, "✅ Сохранено (соседние интервалы объединяются):\n"+view.FormatFreeTime(ft))
}

func (h *Handlers) handleEditFreeTime(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		h.sendError(ctx, b, msg.Chat.ID, editFreeUsage)
		return
	}
	id, err := parseID(fields[0])
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, editFreeUsage)
		return
	}
	parsed, err := parseFreeTimeArgs(fields[1:])
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, editFreeUsage)
		return
	}

	ft, err := h.availabilityService.UpdateFreeTime(ctx, user.ID, id, parsed.day, parsed.start, parsed.end)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, "update free time", err)
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, "✏️ Обновлено:\n"+view.FormatFreeTime(ft))
}

func (h *Handlers) handleDeleteFreeTime(ctx context.Context, b *bot.Bot, msg *models.Message, user *model.User, args string) {
	id, err := parseID(args)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, delFreeUsage)
		return
	}
	h.deleteFreeTime(ctx, b, msg.Chat.ID, user, id)
}

func (h *Handlers) deleteFreeTime(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, id int64) {
	if err := h.availabilityService.DeleteFreeTime(ctx, user.ID, id); err != nil {
		h.replyError(ctx, b, chatID, "delete free time", err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🗑 Интервал #%d удалён.", id))
}
