package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/advisor"
	"github.com/Freeeeeet/study_planner_bot/internal/app"
	"github.com/Freeeeeet/study_planner_bot/internal/config"
	"github.com/Freeeeeet/study_planner_bot/internal/controller"
	"github.com/Freeeeeet/study_planner_bot/internal/repository"
	"github.com/Freeeeeet/study_planner_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Sugar().Infow("Starting study planner bot",
		"environment", cfg.Environment,
		"timezone", cfg.Location.String(),
		"advisor_enabled", cfg.AdvisorAPIKey != "")

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Все "сейчас" считаются в часовом поясе пользователя бота
	now := func() time.Time { return time.Now().In(cfg.Location) }

	userRepo := repository.NewUserRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool, logger)
	freeTimeRepo := repository.NewFreeTimeRepository(pool, logger)
	sessionRepo := repository.NewStudySessionRepository(pool, logger)

	adv := advisor.New(advisor.Config{
		APIKey:  cfg.AdvisorAPIKey,
		BaseURL: cfg.AdvisorBaseURL,
		Model:   cfg.AdvisorModel,
	}, logger)

	userService := service.NewUserService(userRepo, logger)
	subjectService := service.NewSubjectService(subjectRepo, logger)
	availabilityService := service.NewAvailabilityService(freeTimeRepo, logger)
	sessionService := service.NewStudySessionService(sessionRepo, subjectRepo, now, logger)
	scheduleService := service.NewScheduleService(
		subjectRepo,
		freeTimeRepo,
		sessionRepo,
		adv,
		service.ScheduleConfig{
			AdvisorTimeout: cfg.AdvisorTimeout,
			DaysAhead:      cfg.PlanDaysAhead,
		},
		now,
		logger,
	)

	telegramBot, err := bot.New(cfg.TelegramToken, bot.WithErrorsHandler(func(err error) {
		logger.Warn("Telegram client error", zap.Error(err))
	}))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		telegramBot,
		userService,
		subjectService,
		availabilityService,
		sessionService,
		scheduleService,
		now,
		logger,
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// без меню команд бот всё равно работает
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(userService, scheduleService, cfg.RegenerateSchedule, cfg.PlanDaysAhead, cfg.Location, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}
