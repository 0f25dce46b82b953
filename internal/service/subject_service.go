package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/repository/base"
	"go.uber.org/zap"
)

// SubjectInput поля предмета, которые задаёт пользователь
type SubjectInput struct {
	Name        string
	Description string
	Priority    model.Priority
	WeeklyHours int
	FinishBy    *time.Time
}

func (in *SubjectInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" {
		return invalid("subject name is empty")
	}
	if !in.Priority.Valid() {
		return invalid("unknown priority %q", in.Priority)
	}
	if in.WeeklyHours < 1 {
		return invalid("weekly hours must be at least 1, got %d", in.WeeklyHours)
	}
	return nil
}

type SubjectService struct {
	subjectRepo SubjectStore
	logger      *zap.Logger
}

func NewSubjectService(subjectRepo SubjectStore, logger *zap.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		logger:      logger,
	}
}

// CreateSubject создаёт предмет; название уникально в пределах пользователя
func (s *SubjectService) CreateSubject(ctx context.Context, userID int64, in SubjectInput) (*model.Subject, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	exists, err := s.subjectRepo.ExistsByName(ctx, userID, in.Name)
	if err != nil {
		return nil, infra("check subject name", err)
	}
	if exists {
		return nil, fmt.Errorf("subject %q: %w", in.Name, ErrAlreadyExists)
	}

	subject := &model.Subject{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Priority:    in.Priority,
		WeeklyHours: in.WeeklyHours,
		FinishBy:    in.FinishBy,
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		// гонка двух одинаковых запросов упирается в уникальный индекс
		if base.IsUniqueViolation(err) {
			return nil, fmt.Errorf("subject %q: %w", in.Name, ErrAlreadyExists)
		}
		return nil, infra("create subject", err)
	}

	s.logger.Info("Subject created",
		zap.Int64("user_id", userID),
		zap.Int64("subject_id", subject.ID),
		zap.String("priority", string(subject.Priority)))

	return subject, nil
}

// GetSubject получает предмет с проверкой владельца
func (s *SubjectService) GetSubject(ctx context.Context, userID, subjectID int64) (*model.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, infra("get subject", err)
	}
	if subject == nil {
		return nil, fmt.Errorf("subject %d: %w", subjectID, ErrNotFound)
	}
	if subject.UserID != userID {
		return nil, fmt.Errorf("subject %d: %w", subjectID, ErrAccessDenied)
	}
	return subject, nil
}

// ListSubjects возвращает все предметы пользователя
func (s *SubjectService) ListSubjects(ctx context.Context, userID int64) ([]*model.Subject, error) {
	subjects, err := s.subjectRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, infra("list subjects", err)
	}
	return subjects, nil
}

// UpdateSubject обновляет предмет; уникальность проверяется только при смене названия
func (s *SubjectService) UpdateSubject(ctx context.Context, userID, subjectID int64, in SubjectInput) (*model.Subject, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	subject, err := s.GetSubject(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(subject.Name, in.Name) {
		exists, err := s.subjectRepo.ExistsByName(ctx, userID, in.Name)
		if err != nil {
			return nil, infra("check subject name", err)
		}
		if exists {
			return nil, fmt.Errorf("subject %q: %w", in.Name, ErrAlreadyExists)
		}
	}

	subject.Name = in.Name
	subject.Description = in.Description
	subject.Priority = in.Priority
	subject.WeeklyHours = in.WeeklyHours
	subject.FinishBy = in.FinishBy

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		if base.IsUniqueViolation(err) {
			return nil, fmt.Errorf("subject %q: %w", in.Name, ErrAlreadyExists)
		}
		return nil, storeErr("update subject", err)
	}

	return subject, nil
}

// DeleteSubject удаляет предмет вместе с его сессиями
func (s *SubjectService) DeleteSubject(ctx context.Context, userID, subjectID int64) error {
	if _, err := s.GetSubject(ctx, userID, subjectID); err != nil {
		return err
	}

	if err := s.subjectRepo.Delete(ctx, subjectID); err != nil {
		return storeErr("delete subject", err)
	}

	s.logger.Info("Subject deleted",
		zap.Int64("user_id", userID),
		zap.Int64("subject_id", subjectID))

	return nil
}
