package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/repository"
)

var errDB = errors.New("connection refused")

// fakeDB хранилище в памяти, общее для всех фейковых репозиториев
type fakeDB struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*model.User
	subjects  map[int64]*model.Subject
	freeTimes map[int64]*model.FreeTime
	sessions  map[int64]*model.StudySession

	failReplace error
	failList    error
	replaces    int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:     make(map[int64]*model.User),
		subjects:  make(map[int64]*model.Subject),
		freeTimes: make(map[int64]*model.FreeTime),
		sessions:  make(map[int64]*model.StudySession),
	}
}

func (db *fakeDB) id() int64 {
	db.nextID++
	return db.nextID
}

var fakeNow = time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)

// ---- users

type fakeUsers struct{ db *fakeDB }

func (f fakeUsers) Create(_ context.Context, user *model.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	user.ID = f.db.id()
	user.CreatedAt = fakeNow
	c := *user
	f.db.users[user.ID] = &c
	return nil
}

func (f fakeUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.TelegramID == telegramID {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if u, ok := f.db.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (f fakeUsers) Update(_ context.Context, user *model.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.users[user.ID]; !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	c := *user
	f.db.users[user.ID] = &c
	return nil
}

func (f fakeUsers) ListIDsWithFreeTime(context.Context) ([]int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, ft := range f.db.freeTimes {
		if !seen[ft.UserID] {
			seen[ft.UserID] = true
			ids = append(ids, ft.UserID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ---- subjects

type fakeSubjects struct{ db *fakeDB }

func (f fakeSubjects) Create(_ context.Context, subject *model.Subject) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	subject.ID = f.db.id()
	subject.CreatedAt = fakeNow
	c := *subject
	f.db.subjects[subject.ID] = &c
	return nil
}

func (f fakeSubjects) GetByID(_ context.Context, id int64) (*model.Subject, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if s, ok := f.db.subjects[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f fakeSubjects) ListByUser(_ context.Context, userID int64) ([]*model.Subject, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.failList != nil {
		return nil, f.db.failList
	}
	out := make([]*model.Subject, 0)
	for _, s := range f.db.subjects {
		if s.UserID == userID {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeSubjects) ExistsByName(_ context.Context, userID int64, name string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.subjects {
		if s.UserID == userID && strings.EqualFold(s.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeSubjects) Update(_ context.Context, subject *model.Subject) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.subjects[subject.ID]; !ok {
		return fmt.Errorf("subject: %w", repository.ErrNotFound)
	}
	c := *subject
	f.db.subjects[subject.ID] = &c
	return nil
}

func (f fakeSubjects) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.subjects[id]; !ok {
		return fmt.Errorf("subject: %w", repository.ErrNotFound)
	}
	delete(f.db.subjects, id)
	for sid, s := range f.db.sessions {
		if s.SubjectID == id {
			delete(f.db.sessions, sid)
		}
	}
	return nil
}

// ---- free times

type fakeFreeTimes struct{ db *fakeDB }

func (f fakeFreeTimes) GetByID(_ context.Context, id int64) (*model.FreeTime, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if ft, ok := f.db.freeTimes[id]; ok {
		c := *ft
		return &c, nil
	}
	return nil, nil
}

func (f fakeFreeTimes) ListByUser(_ context.Context, userID int64) ([]*model.FreeTime, error) {
	return f.filter(func(ft *model.FreeTime) bool { return ft.UserID == userID })
}

func (f fakeFreeTimes) ListByUserAndDay(_ context.Context, userID int64, day int) ([]*model.FreeTime, error) {
	return f.filter(func(ft *model.FreeTime) bool { return ft.UserID == userID && ft.DayOfWeek == day })
}

func (f fakeFreeTimes) filter(keep func(*model.FreeTime) bool) ([]*model.FreeTime, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.failList != nil {
		return nil, f.db.failList
	}
	out := make([]*model.FreeTime, 0)
	for _, ft := range f.db.freeTimes {
		if keep(ft) {
			c := *ft
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (f fakeFreeTimes) SaveMerged(_ context.Context, merged *model.FreeTime, absorbed []*model.FreeTime) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, a := range absorbed {
		delete(f.db.freeTimes, a.ID)
	}
	if merged.ID == 0 {
		merged.ID = f.db.id()
		merged.CreatedAt = fakeNow
	} else if _, ok := f.db.freeTimes[merged.ID]; !ok {
		return fmt.Errorf("free time: %w", repository.ErrNotFound)
	}
	c := *merged
	f.db.freeTimes[merged.ID] = &c
	return nil
}

func (f fakeFreeTimes) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.freeTimes[id]; !ok {
		return fmt.Errorf("free time: %w", repository.ErrNotFound)
	}
	delete(f.db.freeTimes, id)
	return nil
}

// ---- sessions

type fakeSessions struct{ db *fakeDB }

func (f fakeSessions) withName(s *model.StudySession) *model.StudySession {
	c := *s
	if subject, ok := f.db.subjects[s.SubjectID]; ok {
		c.SubjectName = subject.Name
	}
	return &c
}

func (f fakeSessions) Create(_ context.Context, session *model.StudySession) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	session.ID = f.db.id()
	session.CreatedAt = fakeNow
	c := *session
	f.db.sessions[session.ID] = &c
	return nil
}

func (f fakeSessions) GetByID(_ context.Context, id int64) (*model.StudySession, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if s, ok := f.db.sessions[id]; ok {
		return f.withName(s), nil
	}
	return nil, nil
}

func (f fakeSessions) list(keep func(*model.StudySession) bool) []*model.StudySession {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]*model.StudySession, 0)
	for _, s := range f.db.sessions {
		if keep(s) {
			out = append(out, f.withName(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (f fakeSessions) ListByUser(_ context.Context, userID int64) ([]*model.StudySession, error) {
	return f.list(func(s *model.StudySession) bool { return s.UserID == userID }), nil
}

func (f fakeSessions) ListByUserInRange(_ context.Context, userID int64, from, to time.Time) ([]*model.StudySession, error) {
	return f.list(func(s *model.StudySession) bool {
		return s.UserID == userID && inRange(s.StartTime, from, to)
	}), nil
}

func (f fakeSessions) ListCompleted(_ context.Context, userID int64) ([]*model.StudySession, error) {
	out := f.list(func(s *model.StudySession) bool { return s.UserID == userID && s.Completed })
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (f fakeSessions) Update(_ context.Context, session *model.StudySession) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.sessions[session.ID]; !ok {
		return fmt.Errorf("study session: %w", repository.ErrNotFound)
	}
	c := *session
	f.db.sessions[session.ID] = &c
	return nil
}

func (f fakeSessions) UpdateCompletion(_ context.Context, session *model.StudySession) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	stored, ok := f.db.sessions[session.ID]
	if !ok {
		return fmt.Errorf("study session: %w", repository.ErrNotFound)
	}
	stored.Completed = session.Completed
	stored.ActualMinutes = session.ActualMinutes
	stored.CompletedPomodoros = session.CompletedPomodoros
	return nil
}

func (f fakeSessions) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.sessions[id]; !ok {
		return fmt.Errorf("study session: %w", repository.ErrNotFound)
	}
	delete(f.db.sessions, id)
	return nil
}

func (f fakeSessions) ReplaceInRange(_ context.Context, userID int64, from, to time.Time, sessions []*model.StudySession) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.replaces++
	if f.db.failReplace != nil {
		return f.db.failReplace
	}
	for id, s := range f.db.sessions {
		if s.UserID == userID && inRange(s.StartTime, from, to) {
			delete(f.db.sessions, id)
		}
	}
	for _, s := range sessions {
		s.ID = f.db.id()
		s.CreatedAt = fakeNow
		c := *s
		f.db.sessions[s.ID] = &c
	}
	return nil
}

// seed helpers

func (db *fakeDB) addSubject(userID int64, name string, priority model.Priority, hours int) *model.Subject {
	s := &model.Subject{UserID: userID, Name: name, Priority: priority, WeeklyHours: hours}
	_ = fakeSubjects{db}.Create(context.Background(), s)
	return s
}

func (db *fakeDB) addFreeTime(userID int64, day int, start, end string) *model.FreeTime {
	st, _ := model.ParseTimeOfDay(start)
	en, _ := model.ParseTimeOfDay(end)
	ft := &model.FreeTime{UserID: userID, DayOfWeek: day, StartTime: st, EndTime: en}
	_ = fakeFreeTimes{db}.SaveMerged(context.Background(), ft, nil)
	return ft
}

func (db *fakeDB) addSession(userID, subjectID int64, start time.Time, minutes int) *model.StudySession {
	s := model.NewStudySession(userID, subjectID, start, start.Add(time.Duration(minutes)*time.Minute))
	_ = fakeSessions{db}.Create(context.Background(), s)
	return s
}

func (db *fakeDB) sessionCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.sessions)
}
