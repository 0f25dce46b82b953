package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/repository"
)

// Интерфейсы хранилищ, которые нужны сервисам. Реализуются репозиториями из internal/repository.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	ListIDsWithFreeTime(ctx context.Context) ([]int64, error)
}

type SubjectStore interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Subject, error)
	ExistsByName(ctx context.Context, userID int64, name string) (bool, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id int64) error
}

type FreeTimeStore interface {
	GetByID(ctx context.Context, id int64) (*model.FreeTime, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.FreeTime, error)
	ListByUserAndDay(ctx context.Context, userID int64, dayOfWeek int) ([]*model.FreeTime, error)
	SaveMerged(ctx context.Context, merged *model.FreeTime, absorbed []*model.FreeTime) error
	Delete(ctx context.Context, id int64) error
}

type StudySessionStore interface {
	Create(ctx context.Context, session *model.StudySession) error
	GetByID(ctx context.Context, id int64) (*model.StudySession, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.StudySession, error)
	ListByUserInRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.StudySession, error)
	ListCompleted(ctx context.Context, userID int64) ([]*model.StudySession, error)
	Update(ctx context.Context, session *model.StudySession) error
	UpdateCompletion(ctx context.Context, session *model.StudySession) error
	Delete(ctx context.Context, id int64) error
	ReplaceInRange(ctx context.Context, userID int64, from, to time.Time, sessions []*model.StudySession) error
}

var (
	_ UserStore         = (*repository.UserRepository)(nil)
	_ SubjectStore      = (*repository.SubjectRepository)(nil)
	_ FreeTimeStore     = (*repository.FreeTimeRepository)(nil)
	_ StudySessionStore = (*repository.StudySessionRepository)(nil)
)
