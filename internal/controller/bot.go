package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/controller/handlers"
	"github.com/Freeeeeet/study_planner_bot/internal/controller/state"
	"github.com/Freeeeeet/study_planner_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	subjectService *service.SubjectService,
	availabilityService *service.AvailabilityService,
	sessionService *service.StudySessionService,
	scheduleService *service.ScheduleService,
	now func() time.Time,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		userService,
		subjectService,
		availabilityService,
		sessionService,
		scheduleService,
		stateManager,
		now,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Все текстовые сообщения, включая команды, разбирает один роутер
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleText)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallback)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "subjects", Description: "📚 Мои предметы"},
		{Command: "freetime", Description: "🕒 Моё свободное время"},
		{Command: "generate", Description: "🗓 Составить план занятий"},
		{Command: "sessions", Description: "📅 Сессии этой недели"},
		{Command: "today", Description: "📌 Занятия на сегодня"},
		{Command: "week", Description: "🖼 Неделя картинкой"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
