package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SubjectRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewSubjectRepository(pool *pgxpool.Pool, logger *zap.Logger) *SubjectRepository {
	return &SubjectRepository{
		pool:   pool,
		logger: logger,
	}
}

const subjectColumns = `id, user_id, name, description, priority, weekly_hours, finish_by, created_at`

func scanSubject(row pgx.Row) (*model.Subject, error) {
	var subject model.Subject
	var priority string
	err := row.Scan(
		&subject.ID,
		&subject.UserID,
		&subject.Name,
		&subject.Description,
		&priority,
		&subject.WeeklyHours,
		&subject.FinishBy,
		&subject.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	subject.Priority = model.Priority(priority)
	return &subject, nil
}

// Create создаёт новый предмет
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	query := `
		INSERT INTO subjects (user_id, name, description, priority, weekly_hours, finish_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		subject.UserID,
		subject.Name,
		subject.Description,
		string(subject.Priority),
		subject.WeeklyHours,
		subject.FinishBy,
	).Scan(&subject.ID, &subject.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert subject into DB",
			zap.Int64("user_id", subject.UserID),
			zap.String("name", subject.Name),
			zap.Error(err))
		return fmt.Errorf("create subject: %w", err)
	}

	r.logger.Info("Subject inserted",
		zap.Int64("subject_id", subject.ID),
		zap.Int64("user_id", subject.UserID),
		zap.String("name", subject.Name))

	return nil
}

// GetByID получает предмет по ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`

	subject, err := scanSubject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return subject, nil
}

// ListByUser получает все предметы пользователя в порядке создания
func (r *SubjectRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list subjects by user: %w", err)
	}
	defer rows.Close()

	subjects := make([]*model.Subject, 0)
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}

	return subjects, nil
}

// ExistsByName проверяет есть ли у пользователя предмет с таким названием (без учёта регистра)
func (r *SubjectRepository) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM subjects WHERE user_id = $1 AND LOWER(name) = LOWER($2))`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check subject name: %w", err)
	}

	return exists, nil
}

// Update обновляет предмет
func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	query := `
		UPDATE subjects
		SET name = $1, description = $2, priority = $3, weekly_hours = $4, finish_by = $5
		WHERE id = $6 AND user_id = $7
	`

	result, err := r.pool.Exec(
		ctx, query,
		subject.Name,
		subject.Description,
		string(subject.Priority),
		subject.WeeklyHours,
		subject.FinishBy,
		subject.ID,
		subject.UserID,
	)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subject: %w", ErrNotFound)
	}

	return nil
}

// Delete удаляет предмет вместе с его сессиями
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subject: %w", ErrNotFound)
	}

	r.logger.Info("Subject deleted", zap.Int64("subject_id", id))
	return nil
}
