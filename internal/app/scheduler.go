package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelRegenerations сколько пользователей перегенерируются одновременно
const maxParallelRegenerations = 4

type PlannableUsers interface {
	ListPlannableUserIDs(ctx context.Context) ([]int64, error)
}

type PlanGenerator interface {
	Generate(ctx context.Context, userID int64, daysAhead int) (*service.GenerationResult, error)
}

// Scheduler периодически перестраивает планы всех пользователей со свободным временем
type Scheduler struct {
	cron      *cron.Cron
	users     PlannableUsers
	plans     PlanGenerator
	spec      string
	daysAhead int
	logger    *zap.Logger
}

// NewScheduler создаёт новый планировщик; spec - стандартное cron выражение из пяти полей
func NewScheduler(users PlannableUsers, plans PlanGenerator, spec string, daysAhead int, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		users:     users,
		plans:     plans,
		spec:      spec,
		daysAhead: daysAhead,
		logger:    logger,
	}
}

// Start регистрирует задачу и запускает cron. Пустой spec выключает фоновую перегенерацию.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Info("Background regeneration disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.RegenerateAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule regeneration %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("Starting background scheduler", zap.String("spec", s.spec))
	return nil
}

// Stop останавливает cron и ждёт завершения текущего запуска
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

// RegenerateAll перестраивает планы всех пользователей. Ошибка одного пользователя
// логируется и не прерывает остальных. Возвращает число успешных и неудачных запусков.
func (s *Scheduler) RegenerateAll(ctx context.Context) (succeeded, failed int) {
	s.logger.Info("Starting automatic plan regeneration")

	ids, err := s.users.ListPlannableUserIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list users for regeneration", zap.Error(err))
		return 0, 0
	}

	var ok, bad atomic.Int64
	var g errgroup.Group
	g.SetLimit(maxParallelRegenerations)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if ctx.Err() != nil {
				bad.Add(1)
				return nil
			}

			res, err := s.plans.Generate(ctx, id, s.daysAhead)
			if err != nil {
				bad.Add(1)
				s.logger.Error("Failed to regenerate plan", zap.Int64("user_id", id), zap.Error(err))
				return nil
			}

			ok.Add(1)
			s.logger.Debug("Plan regenerated",
				zap.Int64("user_id", id),
				zap.String("source", string(res.Source)),
				zap.Int("sessions", len(res.Sessions)))
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Automatic plan regeneration completed",
		zap.Int("users", len(ids)),
		zap.Int64("succeeded", ok.Load()),
		zap.Int64("failed", bad.Load()))

	return int(ok.Load()), int(bad.Load())
}
