package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/study_planner_bot/internal/interval"
	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"go.uber.org/zap"
)

// AvailabilityService хранит недельное свободное время пользователя в нормализованном виде
type AvailabilityService struct {
	freeTimeRepo FreeTimeStore
	locks        *keyedMutex
	logger       *zap.Logger
}

func NewAvailabilityService(freeTimeRepo FreeTimeStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		freeTimeRepo: freeTimeRepo,
		locks:        newKeyedMutex(),
		logger:       logger,
	}
}

func validateWindow(day int, start, end model.TimeOfDay) error {
	if !model.ValidDayOfWeek(day) {
		return invalid("day of week must be 1..7, got %d", day)
	}
	if !start.Valid() || !end.ValidEnd() {
		return invalid("time out of day range")
	}
	if start >= end {
		return invalid("start %s must be before end %s", start, end)
	}
	return nil
}

func dayKey(userID int64, day int) string {
	return fmt.Sprintf("%d:%d", userID, day)
}

// AddFreeTime добавляет интервал, сливая его со всеми пересекающимися и смежными интервалами дня
func (s *AvailabilityService) AddFreeTime(ctx context.Context, userID int64, day int, start, end model.TimeOfDay) (*model.FreeTime, error) {
	if err := validateWindow(day, start, end); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(dayKey(userID, day))
	defer unlock()

	existing, err := s.freeTimeRepo.ListByUserAndDay(ctx, userID, day)
	if err != nil {
		return nil, infra("list free times", err)
	}

	res := interval.Insert(existing, model.FreeTime{
		UserID:    userID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
	})

	merged := res.Merged
	if err := s.freeTimeRepo.SaveMerged(ctx, &merged, res.Absorbed); err != nil {
		return nil, infra("save free time", err)
	}

	s.logger.Info("Free time added",
		zap.Int64("user_id", userID),
		zap.Int("day_of_week", day),
		zap.String("start", merged.StartTime.String()),
		zap.String("end", merged.EndTime.String()),
		zap.Int("absorbed", len(res.Absorbed)))

	return &merged, nil
}

// UpdateFreeTime меняет границы (и, возможно, день) интервала с тем же слиянием, что и при добавлении
func (s *AvailabilityService) UpdateFreeTime(ctx context.Context, userID, freeTimeID int64, day int, start, end model.TimeOfDay) (*model.FreeTime, error) {
	if err := validateWindow(day, start, end); err != nil {
		return nil, err
	}

	edited, unlock, err := s.lockEdited(ctx, userID, freeTimeID, day)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.freeTimeRepo.ListByUserAndDay(ctx, userID, day)
	if err != nil {
		return nil, infra("list free times", err)
	}

	res := interval.Update(existing, edited, model.FreeTime{
		UserID:    userID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
	})

	merged := res.Merged
	if err := s.freeTimeRepo.SaveMerged(ctx, &merged, res.Absorbed); err != nil {
		return nil, storeErr("save free time", err)
	}

	s.logger.Info("Free time updated",
		zap.Int64("user_id", userID),
		zap.Int64("free_time_id", freeTimeID),
		zap.Int("day_of_week", day),
		zap.Int("absorbed", len(res.Absorbed)))

	return &merged, nil
}

// GetFreeTime получает интервал с проверкой владельца
func (s *AvailabilityService) GetFreeTime(ctx context.Context, userID, freeTimeID int64) (*model.FreeTime, error) {
	ft, err := s.freeTimeRepo.GetByID(ctx, freeTimeID)
	if err != nil {
		return nil, infra("get free time", err)
	}
	if ft == nil {
		return nil, fmt.Errorf("free time %d: %w", freeTimeID, ErrNotFound)
	}
	if ft.UserID != userID {
		return nil, fmt.Errorf("free time %d: %w", freeTimeID, ErrAccessDenied)
	}
	return ft, nil
}

// ListFreeTime возвращает все интервалы пользователя по дням и времени начала
func (s *AvailabilityService) ListFreeTime(ctx context.Context, userID int64) ([]*model.FreeTime, error) {
	freeTimes, err := s.freeTimeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, infra("list free times", err)
	}
	interval.Sort(freeTimes)
	return freeTimes, nil
}

// DeleteFreeTime удаляет интервал
func (s *AvailabilityService) DeleteFreeTime(ctx context.Context, userID, freeTimeID int64) error {
	ft, err := s.GetFreeTime(ctx, userID, freeTimeID)
	if err != nil {
		return err
	}

	// Перечитываем под блокировкой: интервал мог быть поглощён или перенесён
	for {
		unlock := s.locks.Lock(dayKey(userID, ft.DayOfWeek))
		current, err := s.GetFreeTime(ctx, userID, freeTimeID)
		if err != nil {
			unlock()
			return err
		}
		if current.DayOfWeek != ft.DayOfWeek {
			unlock()
			ft = current
			continue
		}

		err = s.freeTimeRepo.Delete(ctx, freeTimeID)
		unlock()
		if err != nil {
			return storeErr("delete free time", err)
		}
		break
	}

	s.logger.Info("Free time deleted",
		zap.Int64("user_id", userID),
		zap.Int64("free_time_id", freeTimeID))

	return nil
}

// lockEdited блокирует старый и новый день интервала в фиксированном порядке и
// перечитывает его под блокировкой. Если интервал успели перенести на другой день,
// блокировка берётся заново.
func (s *AvailabilityService) lockEdited(ctx context.Context, userID, freeTimeID int64, day int) (*model.FreeTime, func(), error) {
	edited, err := s.GetFreeTime(ctx, userID, freeTimeID)
	if err != nil {
		return nil, nil, err
	}

	for {
		unlock := s.lockDays(userID, edited.DayOfWeek, day)

		current, err := s.GetFreeTime(ctx, userID, freeTimeID)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if current.DayOfWeek == edited.DayOfWeek || current.DayOfWeek == day {
			return current, unlock, nil
		}

		unlock()
		edited = current
	}
}

func (s *AvailabilityService) lockDays(userID int64, a, b int) func() {
	if a > b {
		a, b = b, a
	}
	unlockFirst := s.locks.Lock(dayKey(userID, a))
	if a == b {
		return unlockFirst
	}
	unlockSecond := s.locks.Lock(dayKey(userID, b))
	return func() {
		unlockSecond()
		unlockFirst()
	}
}
