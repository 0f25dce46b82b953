package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/pomodoro"
	"go.uber.org/zap"
)

// SessionStart то, что получает пользователь при старте сессии
type SessionStart struct {
	Session           *model.StudySession
	SubjectName       string
	Plan              pomodoro.Plan
	Blocks            []pomodoro.Block
	FocusMinutes      int
	ShortBreakMinutes int
	LongBreakMinutes  int
}

// CompletionReport отчёт пользователя о проведённой сессии
type CompletionReport struct {
	ActualMinutes      int
	CompletedPomodoros int
}

// CompletionResult итог завершения; Efficiency в процентах от плана, не ограничена сверху
type CompletionResult struct {
	Session    *model.StudySession
	Efficiency float64
}

type StudySessionService struct {
	sessionRepo StudySessionStore
	subjectRepo SubjectStore
	pomodoro    pomodoro.Config
	now         func() time.Time
	logger      *zap.Logger
}

func NewStudySessionService(sessionRepo StudySessionStore, subjectRepo SubjectStore, now func() time.Time, logger *zap.Logger) *StudySessionService {
	if now == nil {
		now = time.Now
	}
	return &StudySessionService{
		sessionRepo: sessionRepo,
		subjectRepo: subjectRepo,
		pomodoro:    pomodoro.DefaultConfig(),
		now:         now,
		logger:      logger,
	}
}

// GetSession получает сессию с проверкой владельца
func (s *StudySessionService) GetSession(ctx context.Context, userID, sessionID int64) (*model.StudySession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, infra("get study session", err)
	}
	if session == nil {
		return nil, fmt.Errorf("study session %d: %w", sessionID, ErrNotFound)
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("study session %d: %w", sessionID, ErrAccessDenied)
	}
	return session, nil
}

// StartSession начинает сессию и возвращает раскладку на помидоры.
// Уже закончившаяся по времени сессия помечается завершённой и не стартует.
func (s *StudySessionService) StartSession(ctx context.Context, userID, sessionID int64) (*SessionStart, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Completed {
		return nil, fmt.Errorf("study session %d: %w", sessionID, ErrAlreadyCompleted)
	}

	if session.IsExpired(s.now()) {
		session.Completed = true
		if err := s.sessionRepo.UpdateCompletion(ctx, session); err != nil {
			return nil, storeErr("mark expired session", err)
		}
		s.logger.Info("Expired study session auto-completed",
			zap.Int64("user_id", userID),
			zap.Int64("session_id", sessionID))
		return nil, fmt.Errorf("study session %d: %w", sessionID, ErrExpired)
	}

	plan := s.pomodoro.Plan(session.DurationMinutes)

	s.logger.Info("Study session started",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sessionID),
		zap.Int("duration", session.DurationMinutes),
		zap.Int("pomodoros", plan.Pomodoros))

	return &SessionStart{
		Session:           session,
		SubjectName:       session.SubjectName,
		Plan:              plan,
		Blocks:            s.pomodoro.Blocks(session.DurationMinutes),
		FocusMinutes:      s.pomodoro.FocusMinutes,
		ShortBreakMinutes: s.pomodoro.ShortBreakMinutes,
		LongBreakMinutes:  s.pomodoro.LongBreakMinutes,
	}, nil
}

// CompleteSession отмечает сессию завершённой, сохраняет отчёт и считает
// эффективность actual/planned*100. Повторный отчёт заменяет предыдущий.
func (s *StudySessionService) CompleteSession(ctx context.Context, userID, sessionID int64, report CompletionReport) (*CompletionResult, error) {
	if report.ActualMinutes < 0 || report.CompletedPomodoros < 0 {
		return nil, invalid("report values must not be negative")
	}

	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.ActualMinutes != nil {
		s.logger.Info("Replacing study session report",
			zap.Int64("session_id", sessionID),
			zap.Int("previous_minutes", *session.ActualMinutes))
	}

	actual := report.ActualMinutes
	pomodoros := report.CompletedPomodoros
	session.Completed = true
	session.ActualMinutes = &actual
	session.CompletedPomodoros = &pomodoros

	if err := s.sessionRepo.UpdateCompletion(ctx, session); err != nil {
		return nil, storeErr("complete study session", err)
	}

	efficiency := Efficiency(actual, session.DurationMinutes)

	s.logger.Info("Study session completed",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sessionID),
		zap.Int("actual_minutes", actual),
		zap.Int("completed_pomodoros", pomodoros),
		zap.Float64("efficiency", efficiency))

	return &CompletionResult{Session: session, Efficiency: efficiency}, nil
}

// Efficiency процент фактического времени от запланированного
func Efficiency(actualMinutes, plannedMinutes int) float64 {
	if plannedMinutes <= 0 {
		return 0
	}
	return float64(actualMinutes) * 100 / float64(plannedMinutes)
}

// SessionInput поля сессии, задаваемые вручную
type SessionInput struct {
	SubjectID   int64
	StartTime   time.Time
	EndTime     time.Time
	Description string
}

func (s *StudySessionService) checkInput(ctx context.Context, userID int64, in SessionInput) (*model.Subject, error) {
	if !in.EndTime.After(in.StartTime) {
		return nil, invalid("session end must be after start")
	}

	subject, err := s.subjectRepo.GetByID(ctx, in.SubjectID)
	if err != nil {
		return nil, infra("get subject", err)
	}
	if subject == nil {
		return nil, fmt.Errorf("subject %d: %w", in.SubjectID, ErrNotFound)
	}
	if subject.UserID != userID {
		return nil, fmt.Errorf("subject %d: %w", in.SubjectID, ErrAccessDenied)
	}
	return subject, nil
}

// CreateSession добавляет одну сессию вручную
func (s *StudySessionService) CreateSession(ctx context.Context, userID int64, in SessionInput) (*model.StudySession, error) {
	subject, err := s.checkInput(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	session := model.NewStudySession(userID, subject.ID, in.StartTime, in.EndTime)
	session.Description = strings.TrimSpace(in.Description)
	session.SubjectName = subject.Name

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, infra("create study session", err)
	}

	return session, nil
}

// UpdateSession меняет предмет, время и описание незавершённой сессии
func (s *StudySessionService) UpdateSession(ctx context.Context, userID, sessionID int64, in SessionInput) (*model.StudySession, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, fmt.Errorf("study session %d: %w", sessionID, ErrAlreadyCompleted)
	}

	subject, err := s.checkInput(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	updated := model.NewStudySession(userID, subject.ID, in.StartTime, in.EndTime)
	session.SubjectID = updated.SubjectID
	session.StartTime = updated.StartTime
	session.EndTime = updated.EndTime
	session.DurationMinutes = updated.DurationMinutes
	session.Description = strings.TrimSpace(in.Description)
	session.SubjectName = subject.Name

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, storeErr("update study session", err)
	}

	return session, nil
}

// DeleteSession удаляет сессию
func (s *StudySessionService) DeleteSession(ctx context.Context, userID, sessionID int64) error {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return storeErr("delete study session", err)
	}
	return nil
}

// ListSessions все сессии пользователя по времени начала
func (s *StudySessionService) ListSessions(ctx context.Context, userID int64) ([]*model.StudySession, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, infra("list study sessions", err)
	}
	return sessions, nil
}

// WeekStart понедельник 00:00 недели, в которую попадает t
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, 1-model.ISOWeekday(t.Weekday()))
}

// ListWeek сессии недели: offset 0 текущая, 1 следующая, -1 прошлая.
// Возвращает также понедельник этой недели.
func (s *StudySessionService) ListWeek(ctx context.Context, userID int64, offset int) ([]*model.StudySession, time.Time, error) {
	monday := WeekStart(s.now()).AddDate(0, 0, 7*offset)
	from, to := monday, monday.AddDate(0, 0, 7).Add(-time.Nanosecond)

	sessions, err := s.sessionRepo.ListByUserInRange(ctx, userID, from, to)
	if err != nil {
		return nil, monday, infra("list week sessions", err)
	}
	return sessions, monday, nil
}

// ListToday сессии на текущие сутки
func (s *StudySessionService) ListToday(ctx context.Context, userID int64) ([]*model.StudySession, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)

	sessions, err := s.sessionRepo.ListByUserInRange(ctx, userID, from, to)
	if err != nil {
		return nil, infra("list today sessions", err)
	}
	return sessions, nil
}

// ListCompleted завершённые сессии, новые первыми
func (s *StudySessionService) ListCompleted(ctx context.Context, userID int64) ([]*model.StudySession, error) {
	sessions, err := s.sessionRepo.ListCompleted(ctx, userID)
	if err != nil {
		return nil, infra("list completed sessions", err)
	}
	return sessions, nil
}
