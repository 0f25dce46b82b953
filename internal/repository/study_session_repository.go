package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type StudySessionRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewStudySessionRepository(pool *pgxpool.Pool, logger *zap.Logger) *StudySessionRepository {
	return &StudySessionRepository{
		pool:   pool,
		logger: logger,
	}
}

const sessionSelect = `
	SELECT s.id, s.user_id, s.subject_id, s.start_time, s.end_time, s.duration_minutes,
	       s.completed, s.actual_minutes, s.completed_pomodoros, s.batch_id, s.description,
	       s.created_at, sub.name
	FROM study_sessions s
	JOIN subjects sub ON sub.id = s.subject_id
`

const insertSession = `
	INSERT INTO study_sessions (user_id, subject_id, start_time, end_time, duration_minutes, batch_id, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at
`

func scanSession(row pgx.Row) (*model.StudySession, error) {
	var s model.StudySession
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.SubjectID,
		&s.StartTime,
		&s.EndTime,
		&s.DurationMinutes,
		&s.Completed,
		&s.ActualMinutes,
		&s.CompletedPomodoros,
		&s.BatchID,
		&s.Description,
		&s.CreatedAt,
		&s.SubjectName,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudySessionRepository) list(ctx context.Context, q base.Querier, query string, args ...any) ([]*model.StudySession, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*model.StudySession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan study session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Create сохраняет одну сессию
func (r *StudySessionRepository) Create(ctx context.Context, session *model.StudySession) error {
	err := r.pool.QueryRow(
		ctx, insertSession,
		session.UserID,
		session.SubjectID,
		session.StartTime,
		session.EndTime,
		session.DurationMinutes,
		session.BatchID,
		session.Description,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return fmt.Errorf("create study session: %w", err)
	}

	return nil
}

// GetByID получает сессию с названием предмета
func (r *StudySessionRepository) GetByID(ctx context.Context, id int64) (*model.StudySession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx, sessionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get study session by id: %w", err)
	}

	return s, nil
}

// ListByUser получает все сессии пользователя
func (r *StudySessionRepository) ListByUser(ctx context.Context, userID int64) ([]*model.StudySession, error) {
	sessions, err := r.list(ctx, r.pool, sessionSelect+` WHERE s.user_id = $1 ORDER BY s.start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("list study sessions by user: %w", err)
	}
	return sessions, nil
}

// ListByUserInRange получает сессии пользователя с началом в [from, to]
func (r *StudySessionRepository) ListByUserInRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.StudySession, error) {
	query := sessionSelect + `
		WHERE s.user_id = $1 AND s.start_time >= $2 AND s.start_time <= $3
		ORDER BY s.start_time
	`

	sessions, err := r.list(ctx, r.pool, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list study sessions in range: %w", err)
	}
	return sessions, nil
}

// ListCompleted получает завершённые сессии, новые первыми
func (r *StudySessionRepository) ListCompleted(ctx context.Context, userID int64) ([]*model.StudySession, error) {
	query := sessionSelect + `
		WHERE s.user_id = $1 AND s.completed = true
		ORDER BY s.start_time DESC
	`

	sessions, err := r.list(ctx, r.pool, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list completed study sessions: %w", err)
	}
	return sessions, nil
}

// Update меняет время, предмет и описание сессии
func (r *StudySessionRepository) Update(ctx context.Context, session *model.StudySession) error {
	query := `
		UPDATE study_sessions
		SET subject_id = $1, start_time = $2, end_time = $3, duration_minutes = $4, description = $5
		WHERE id = $6
	`

	result, err := r.pool.Exec(
		ctx, query,
		session.SubjectID,
		session.StartTime,
		session.EndTime,
		session.DurationMinutes,
		session.Description,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update study session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("study session: %w", ErrNotFound)
	}

	return nil
}

// UpdateCompletion сохраняет отметку о завершении и отчёт (nil поля остаются NULL)
func (r *StudySessionRepository) UpdateCompletion(ctx context.Context, session *model.StudySession) error {
	query := `
		UPDATE study_sessions
		SET completed = $1, actual_minutes = $2, completed_pomodoros = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, session.Completed, session.ActualMinutes, session.CompletedPomodoros, session.ID)
	if err != nil {
		return fmt.Errorf("update study session completion: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("study session: %w", ErrNotFound)
	}

	return nil
}

// Delete удаляет сессию
func (r *StudySessionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM study_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete study session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("study session: %w", ErrNotFound)
	}

	return nil
}

// deleteInRange удаляет сессии пользователя с началом в [from, to]
func deleteInRange(ctx context.Context, q base.Querier, userID int64, from, to time.Time) (int64, error) {
	result, err := q.Exec(ctx, `
		DELETE FROM study_sessions
		WHERE user_id = $1 AND start_time >= $2 AND start_time <= $3
	`, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("delete study sessions in range: %w", err)
	}
	return result.RowsAffected(), nil
}

// ReplaceInRange в одной транзакции удаляет сессии пользователя с началом в [from, to]
// и вставляет новые. При ошибке ничего не меняется.
func (r *StudySessionRepository) ReplaceInRange(ctx context.Context, userID int64, from, to time.Time, sessions []*model.StudySession) error {
	var deleted int64

	err := base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		deleted, err = deleteInRange(ctx, tx, userID, from, to)
		if err != nil {
			return err
		}

		if len(sessions) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, s := range sessions {
			s := s
			batch.Queue(insertSession,
				s.UserID,
				s.SubjectID,
				s.StartTime,
				s.EndTime,
				s.DurationMinutes,
				s.BatchID,
				s.Description,
			).QueryRow(func(row pgx.Row) error {
				return row.Scan(&s.ID, &s.CreatedAt)
			})
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert study sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace study sessions: %w", err)
	}

	r.logger.Info("Study sessions replaced",
		zap.Int64("user_id", userID),
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int64("deleted", deleted),
		zap.Int("inserted", len(sessions)))

	return nil
}
