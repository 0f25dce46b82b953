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

type FreeTimeRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewFreeTimeRepository(pool *pgxpool.Pool, logger *zap.Logger) *FreeTimeRepository {
	return &FreeTimeRepository{
		pool:   pool,
		logger: logger,
	}
}

const freeTimeColumns = `id, user_id, day_of_week, start_minutes, end_minutes, created_at`

func scanFreeTime(row pgx.Row) (*model.FreeTime, error) {
	var ft model.FreeTime
	var start, end int
	if err := row.Scan(&ft.ID, &ft.UserID, &ft.DayOfWeek, &start, &end, &ft.CreatedAt); err != nil {
		return nil, err
	}
	ft.StartTime = model.TimeOfDay(start)
	ft.EndTime = model.TimeOfDay(end)
	return &ft, nil
}

func (r *FreeTimeRepository) list(ctx context.Context, query string, args ...any) ([]*model.FreeTime, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	freeTimes := make([]*model.FreeTime, 0)
	for rows.Next() {
		ft, err := scanFreeTime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan free time: %w", err)
		}
		freeTimes = append(freeTimes, ft)
	}

	return freeTimes, rows.Err()
}

// GetByID получает интервал по ID
func (r *FreeTimeRepository) GetByID(ctx context.Context, id int64) (*model.FreeTime, error) {
	query := `SELECT ` + freeTimeColumns + ` FROM free_times WHERE id = $1`

	ft, err := scanFreeTime(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get free time by id: %w", err)
	}

	return ft, nil
}

// ListByUser получает интервалы пользователя, упорядоченные по дню и началу
func (r *FreeTimeRepository) ListByUser(ctx context.Context, userID int64) ([]*model.FreeTime, error) {
	query := `
		SELECT ` + freeTimeColumns + `
		FROM free_times
		WHERE user_id = $1
		ORDER BY day_of_week, start_minutes
	`

	freeTimes, err := r.list(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list free times by user: %w", err)
	}
	return freeTimes, nil
}

// ListByUserAndDay получает интервалы пользователя на конкретный день недели
func (r *FreeTimeRepository) ListByUserAndDay(ctx context.Context, userID int64, dayOfWeek int) ([]*model.FreeTime, error) {
	query := `
		SELECT ` + freeTimeColumns + `
		FROM free_times
		WHERE user_id = $1 AND day_of_week = $2
		ORDER BY start_minutes
	`

	freeTimes, err := r.list(ctx, query, userID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("list free times by day: %w", err)
	}
	return freeTimes, nil
}

// SaveMerged атомарно удаляет поглощённые интервалы и сохраняет результат слияния.
// merged с ненулевым ID обновляет существующую строку (редактирование), иначе вставляется новая.
func (r *FreeTimeRepository) SaveMerged(ctx context.Context, merged *model.FreeTime, absorbed []*model.FreeTime) error {
	err := base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if len(absorbed) > 0 {
			ids := make([]int64, 0, len(absorbed))
			for _, ft := range absorbed {
				ids = append(ids, ft.ID)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM free_times WHERE user_id = $1 AND id = ANY($2)`, merged.UserID, ids); err != nil {
				return fmt.Errorf("delete absorbed free times: %w", err)
			}
		}

		if merged.ID != 0 {
			result, err := tx.Exec(ctx, `
				UPDATE free_times
				SET day_of_week = $1, start_minutes = $2, end_minutes = $3
				WHERE id = $4 AND user_id = $5
			`, merged.DayOfWeek, int(merged.StartTime), int(merged.EndTime), merged.ID, merged.UserID)
			if err != nil {
				return fmt.Errorf("update free time: %w", err)
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("free time: %w", ErrNotFound)
			}
			return nil
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO free_times (user_id, day_of_week, start_minutes, end_minutes)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, merged.UserID, merged.DayOfWeek, int(merged.StartTime), int(merged.EndTime)).Scan(&merged.ID, &merged.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert free time: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save merged free time: %w", err)
	}

	r.logger.Debug("Free time saved",
		zap.Int64("free_time_id", merged.ID),
		zap.Int64("user_id", merged.UserID),
		zap.Int("absorbed", len(absorbed)))

	return nil
}

// Delete удаляет интервал
func (r *FreeTimeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM free_times WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete free time: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("free time: %w", ErrNotFound)
	}

	return nil
}
