package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/advisor"
	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/planner"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultDaysAhead      = 7
	DefaultAdvisorTimeout = 20 * time.Second
)

// PlanSource откуда взялся план
type PlanSource string

const (
	SourceNone     PlanSource = "none"
	SourceAdvisor  PlanSource = "advisor"
	SourceFallback PlanSource = "fallback"
)

type ScheduleConfig struct {
	AdvisorTimeout time.Duration
	DaysAhead      int
}

// GenerationResult результат одной генерации плана
type GenerationResult struct {
	Sessions []*model.StudySession
	BatchID  uuid.UUID
	Source   PlanSource
	From     time.Time
	To       time.Time
}

// ScheduleService строит учебный план на ближайшие дни и заменяет им старый
type ScheduleService struct {
	subjectRepo  SubjectStore
	freeTimeRepo FreeTimeStore
	sessionRepo  StudySessionStore
	advisor      advisor.Advisor
	fallback     planner.FallbackAllocator
	cfg          ScheduleConfig
	locks        *keyedMutex
	now          func() time.Time
	logger       *zap.Logger
}

func NewScheduleService(
	subjectRepo SubjectStore,
	freeTimeRepo FreeTimeStore,
	sessionRepo StudySessionStore,
	adv advisor.Advisor,
	cfg ScheduleConfig,
	now func() time.Time,
	logger *zap.Logger,
) *ScheduleService {
	if cfg.AdvisorTimeout <= 0 {
		cfg.AdvisorTimeout = DefaultAdvisorTimeout
	}
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = DefaultDaysAhead
	}
	if now == nil {
		now = time.Now
	}
	if adv == nil {
		adv = advisor.Disabled{}
	}

	return &ScheduleService{
		subjectRepo:  subjectRepo,
		freeTimeRepo: freeTimeRepo,
		sessionRepo:  sessionRepo,
		advisor:      adv,
		fallback:     planner.NewFallbackAllocator(),
		cfg:          cfg,
		locks:        newKeyedMutex(),
		now:          now,
		logger:       logger,
	}
}

// Generate строит план на daysAhead дней (<= 0 - значение из конфигурации).
//
// Сессии советника за пределами горизонта отбрасываются. Запасной план берётся
// целиком, и окно замены [From, To] расширяется до начала его последней сессии.
//
// Без предметов или свободного времени ничего не меняется. Ошибки советника не
// возвращаются: вместо его плана используется запасной. Наружу выходят только
// ошибки хранилища, и тогда старый план остаётся нетронутым.
func (s *ScheduleService) Generate(ctx context.Context, userID int64, daysAhead int) (*GenerationResult, error) {
	if daysAhead <= 0 {
		daysAhead = s.cfg.DaysAhead
	}

	unlock := s.locks.Lock(userKey(userID))
	defer unlock()

	now := s.now()
	result := &GenerationResult{
		Sessions: []*model.StudySession{},
		Source:   SourceNone,
		From:     now,
		To:       now.AddDate(0, 0, daysAhead),
	}

	subjects, err := s.subjectRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, infra("load subjects", err)
	}
	freeTimes, err := s.freeTimeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, infra("load free times", err)
	}

	if len(subjects) == 0 || len(freeTimes) == 0 {
		s.logger.Info("Nothing to plan",
			zap.Int64("user_id", userID),
			zap.Int("subjects", len(subjects)),
			zap.Int("free_times", len(freeTimes)))
		return result, nil
	}

	drafts := s.advise(ctx, userID, now, daysAhead, subjects, freeTimes)
	drafts = s.withinHorizon(userID, drafts, result.From, result.To)
	result.Source = SourceAdvisor

	if len(drafts) == 0 {
		s.logger.Info("Using fallback allocation", zap.Int64("user_id", userID))
		drafts = s.fallback.Allocate(now, subjects, freeTimes)
		result.Source = SourceFallback
	}

	// запасной план не режется горизонтом: окно замены растягивается до последней сессии
	for _, d := range drafts {
		if d.StartTime.After(result.To) {
			result.To = d.StartTime
		}
	}

	result.BatchID = uuid.New()
	for _, d := range drafts {
		d.UserID = userID
		d.BatchID = &result.BatchID
	}

	if err := s.sessionRepo.ReplaceInRange(ctx, userID, result.From, result.To, drafts); err != nil {
		return nil, infra("persist schedule", err)
	}

	result.Sessions = drafts

	s.logger.Info("Schedule generated",
		zap.Int64("user_id", userID),
		zap.String("batch_id", result.BatchID.String()),
		zap.String("source", string(result.Source)),
		zap.Int("days_ahead", daysAhead),
		zap.Int("sessions", len(drafts)))

	return result, nil
}

// advise спрашивает советника и разбирает ответ; любая проблема даёт пустой результат
func (s *ScheduleService) advise(ctx context.Context, userID int64, now time.Time, daysAhead int, subjects []*model.Subject, freeTimes []*model.FreeTime) []*model.StudySession {
	prompt := planner.BuildPrompt(subjects, freeTimes, daysAhead)

	actx, cancel := context.WithTimeout(ctx, s.cfg.AdvisorTimeout)
	defer cancel()

	raw, err := s.advisor.Advise(actx, prompt)
	if err != nil {
		s.logger.Warn("Advisor failed",
			zap.Int64("user_id", userID),
			zap.Bool("timeout", errors.Is(err, advisor.ErrTimeout)),
			zap.Error(err))
		return nil
	}

	sessions, err := planner.ParseAdvice(raw, now, userID, subjects, freeTimes, s.logger)
	if err != nil {
		s.logger.Warn("Advisor output rejected", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}

	return sessions
}

func (s *ScheduleService) withinHorizon(userID int64, drafts []*model.StudySession, from, to time.Time) []*model.StudySession {
	kept := drafts[:0]
	for _, d := range drafts {
		if d.StartTime.Before(from) || d.StartTime.After(to) {
			s.logger.Debug("Dropping session outside horizon",
				zap.Int64("user_id", userID),
				zap.Time("start", d.StartTime))
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func userKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}
