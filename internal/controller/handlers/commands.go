package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/study_planner_bot/internal/controller/view"
	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"<b>Предметы</b>\n" +
	"/subjects - список предметов\n" +
	"/addsubject Название;PRIORITY;часы[;ГГГГ-ММ-ДД] - добавить предмет\n" +
	"   PRIORITY: HIGH, MEDIUM или LOW, часы - в неделю\n" +
	"/delsubject ID - удалить предмет\n\n" +
	"<b>Свободное время</b>\n" +
	"/freetime - мои свободные интервалы\n" +
	"/addfree ДЕНЬ ЧЧ:ММ-ЧЧ:ММ - добавить (день: 1-7 или пн..вс)\n" +
	"/editfree ID ДЕНЬ ЧЧ:ММ-ЧЧ:ММ - изменить\n" +
	"/delfree ID - удалить\n\n" +
	"<b>Расписание</b>\n" +
	"/generate [дней] - составить план занятий\n" +
	"/sessions - сессии этой недели\n" +
	"/today - сессии на сегодня\n" +
	"/week [смещение] - картинка недели\n" +
	"/startsession ID - начать сессию\n" +
	"/complete ID минут помидоров - отчёт о сессии"

// handleStart обрабатывает команду /start
func (h *Handlers) handleStart(ctx context.Context, b *bot.Bot, msg *models.Message, _ *model.User, _ string) {
	from := msg.From

	user, err := h.userService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, msg.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я помогу распланировать учёбу: добавьте предметы и свободное время, "+
			"а я разложу занятия по неделе и проведу по каждому сессию помидоров.\n\n"+
			"С чего начать:\n"+
			"1. /addsubject Математика;HIGH;5\n"+
			"2. /addfree пн 18:00-21:00\n"+
			"3. /generate\n\n"+
			"Все команды: /help",
		view.Escape(user.FirstName),
	)
	h.sendMessage(ctx, b, msg.Chat.ID, text)
}

// handleHelp обрабатывает команду /help
func (h *Handlers) handleHelp(ctx context.Context, b *bot.Bot, msg *models.Message, _ *model.User, _ string) {
	h.sendMessage(ctx, b, msg.Chat.ID, helpText)
}
