package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSubjectService(db *fakeDB) *SubjectService {
	return NewSubjectService(fakeSubjects{db}, zap.NewNop())
}

func TestCreateSubject(t *testing.T) {
	db := newFakeDB()
	svc := newSubjectService(db)
	finish := time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)

	subject, err := svc.CreateSubject(context.Background(), 1, SubjectInput{
		Name:        "  Math ",
		Priority:    model.PriorityHigh,
		WeeklyHours: 4,
		FinishBy:    &finish,
	})
	require.NoError(t, err)
	assert.NotZero(t, subject.ID)
	assert.Equal(t, "Math", subject.Name)
	assert.Equal(t, int64(1), subject.UserID)
	assert.Equal(t, &finish, subject.FinishBy)
}

func TestCreateSubjectDuplicateName(t *testing.T) {
	db := newFakeDB()
	svc := newSubjectService(db)
	ctx := context.Background()

	_, err := svc.CreateSubject(ctx, 1, SubjectInput{Name: "Math", Priority: model.PriorityHigh, WeeklyHours: 4})
	require.NoError(t, err)

	_, err = svc.CreateSubject(ctx, 1, SubjectInput{Name: "math", Priority: model.PriorityLow, WeeklyHours: 1})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// у другого пользователя то же название допустимо
	_, err = svc.CreateSubject(ctx, 2, SubjectInput{Name: "Math", Priority: model.PriorityLow, WeeklyHours: 1})
	assert.NoError(t, err)
}

func TestCreateSubjectValidation(t *testing.T) {
	svc := newSubjectService(newFakeDB())
	ctx := context.Background()

	cases := []SubjectInput{
		{Name: "", Priority: model.PriorityHigh, WeeklyHours: 1},
		{Name: "Math", Priority: "URGENT", WeeklyHours: 1},
		{Name: "Math", Priority: model.PriorityHigh, WeeklyHours: 0},
	}
	for _, in := range cases {
		_, err := svc.CreateSubject(ctx, 1, in)
		assert.ErrorIs(t, err, ErrInvalidArgument, "input %+v", in)
	}
}

func TestUpdateSubject(t *testing.T) {
	db := newFakeDB()
	svc := newSubjectService(db)
	ctx := context.Background()
	math := db.addSubject(1, "Math", model.PriorityHigh, 4)
	db.addSubject(1, "Physics", model.PriorityLow, 2)

	// смена регистра своего же названия не дубликат
	updated, err := svc.UpdateSubject(ctx, 1, math.ID, SubjectInput{Name: "MATH", Priority: model.PriorityMedium, WeeklyHours: 3})
	require.NoError(t, err)
	assert.Equal(t, "MATH", updated.Name)
	assert.Equal(t, model.PriorityMedium, updated.Priority)

	_, err = svc.UpdateSubject(ctx, 1, math.ID, SubjectInput{Name: "physics", Priority: model.PriorityMedium, WeeklyHours: 3})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.UpdateSubject(ctx, 2, math.ID, SubjectInput{Name: "Algebra", Priority: model.PriorityMedium, WeeklyHours: 3})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDeleteSubject(t *testing.T) {
	db := newFakeDB()
	svc := newSubjectService(db)
	ctx := context.Background()
	math := db.addSubject(1, "Math", model.PriorityHigh, 4)
	db.addSession(1, math.ID, fakeNow.Add(time.Hour), 60)

	assert.ErrorIs(t, svc.DeleteSubject(ctx, 2, math.ID), ErrAccessDenied)
	assert.ErrorIs(t, svc.DeleteSubject(ctx, 1, 999), ErrNotFound)

	require.NoError(t, svc.DeleteSubject(ctx, 1, math.ID))
	subjects, err := svc.ListSubjects(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, subjects)
	assert.Zero(t, db.sessionCount())
}
