package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Freeeeeet/study_planner_bot/internal/interval"
	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tod(s string) model.TimeOfDay {
	t, err := model.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func newAvailabilityService(db *fakeDB) *AvailabilityService {
	return NewAvailabilityService(fakeFreeTimes{db}, zap.NewNop())
}

func TestAddFreeTimeMergesTouching(t *testing.T) {
	db := newFakeDB()
	svc := newAvailabilityService(db)
	ctx := context.Background()

	_, err := svc.AddFreeTime(ctx, 1, 1, tod("08:00"), tod("10:00"))
	require.NoError(t, err)
	merged, err := svc.AddFreeTime(ctx, 1, 1, tod("10:00"), tod("11:00"))
	require.NoError(t, err)
	assert.Equal(t, "08:00", merged.StartTime.String())
	assert.Equal(t, "11:00", merged.EndTime.String())

	all, err := svc.ListFreeTime(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, merged.ID, all[0].ID)
}

func TestAddFreeTimeKeepsDaysAndUsersApart(t *testing.T) {
	db := newFakeDB()
	svc := newAvailabilityService(db)
	ctx := context.Background()

	_, err := svc.AddFreeTime(ctx, 1, 1, tod("08:00"), tod("10:00"))
	require.NoError(t, err)
	_, err = svc.AddFreeTime(ctx, 1, 2, tod("09:00"), tod("11:00"))
	require.NoError(t, err)
	_, err = svc.AddFreeTime(ctx, 2, 1, tod("09:00"), tod("11:00"))
	require.NoError(t, err)

	mine, err := svc.ListFreeTime(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 1, mine[0].DayOfWeek)
	assert.Equal(t, 2, mine[1].DayOfWeek)
}

func TestAddFreeTimeValidation(t *testing.T) {
	svc := newAvailabilityService(newFakeDB())
	ctx := context.Background()

	_, err := svc.AddFreeTime(ctx, 1, 0, tod("08:00"), tod("10:00"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.AddFreeTime(ctx, 1, 8, tod("08:00"), tod("10:00"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.AddFreeTime(ctx, 1, 1, tod("10:00"), tod("10:00"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.AddFreeTime(ctx, 1, 1, tod("11:00"), tod("10:00"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.AddFreeTime(ctx, 1, 1, tod("24:00"), tod("24:00"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddFreeTimeUntilMidnight(t *testing.T) {
	svc := newAvailabilityService(newFakeDB())
	ctx := context.Background()

	ft, err := svc.AddFreeTime(ctx, 1, 5, tod("22:00"), tod("24:00"))
	require.NoError(t, err)
	assert.Equal(t, "22:00-24:00", ft.StartTime.String()+"-"+ft.EndTime.String())
	assert.Equal(t, 120, ft.DurationMinutes())

	merged, err := svc.AddFreeTime(ctx, 1, 5, tod("21:00"), tod("22:00"))
	require.NoError(t, err)
	assert.Equal(t, "21:00", merged.StartTime.String())
	assert.Equal(t, model.TimeOfDay(model.MinutesPerDay), merged.EndTime)
}

func TestUpdateFreeTimeAbsorbsNeighbours(t *testing.T) {
	db := newFakeDB()
	svc := newAvailabilityService(db)
	ctx := context.Background()

	a := db.addFreeTime(1, 3, "08:00", "09:00")
	db.addFreeTime(1, 3, "10:00", "11:00")
	db.addFreeTime(1, 3, "12:00", "13:00")

	updated, err := svc.UpdateFreeTime(ctx, 1, a.ID, 3, tod("08:00"), tod("10:30"))
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, "08:00", updated.StartTime.String())
	assert.Equal(t, "11:00", updated.EndTime.String())

	all, err := svc.ListFreeTime(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NoError(t, interval.Validate(all))
}

func TestUpdateFreeTimeMovesDay(t *testing.T) {
	db := newFakeDB()
	svc := newAvailabilityService(db)
	ctx := context.Background()

	a := db.addFreeTime(1, 1, "08:00", "09:00")
	db.addFreeTime(1, 5, "09:00", "12:00")

	updated, err := svc.UpdateFreeTime(ctx, 1, a.ID, 5, tod("07:00"), tod("09:00"))
	require.NoError(t, err)
	assert.Equal(t, 5, updated.DayOfWeek)
	assert.Equal(t, "07:00", updated.StartTime.String())
	assert.Equal(t, "12:00", updated.EndTime.String())

	all, err := svc.ListFreeTime(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, a.ID, all[0].ID)
}

func TestFreeTimeOwnership(t *testing.T) {
	db := newFakeDB()
	svc := newAvailabilityService(db)
	ctx := context.Background()
	a := db.addFreeTime(1, 1, "08:00", "09:00")

	_, err := svc.UpdateFreeTime(ctx, 2, a.ID, 1, tod("08:00"), tod("10:00"))
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, svc.DeleteFreeTime(ctx, 2, a.ID), ErrAccessDenied)
	assert.ErrorIs(t, svc.DeleteFreeTime(ctx, 1, 999), ErrNotFound)

	require.NoError(t, svc.DeleteFreeTime(ctx, 1, a.ID))
	all, err := svc.ListFreeTime(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddFreeTimeConcurrentStaysNormalized(t *testing.T) {
	db := newFakeDB()
	svc := newAvailabilityService(db)
	ctx := context.Background()

	// Смежные получасовые интервалы 08:00-16:00 в случайном порядке горутин
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := model.NewTimeOfDay(8, 0) + model.TimeOfDay(30*i)
			_, err := svc.AddFreeTime(ctx, 1, 4, start, start+30)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := svc.ListFreeTime(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "08:00", all[0].StartTime.String())
	assert.Equal(t, "16:00", all[0].EndTime.String())
}

func TestAvailabilityInfrastructureError(t *testing.T) {
	db := newFakeDB()
	db.failList = errDB
	svc := newAvailabilityService(db)

	_, err := svc.AddFreeTime(context.Background(), 1, 1, tod("08:00"), tod("09:00"))
	assert.ErrorIs(t, err, ErrInfrastructure)
	assert.ErrorIs(t, err, errDB)
}

// vanishingFreeTimes теряет интервал прямо перед удалением, как при слиянии в соседнем запросе
type vanishingFreeTimes struct {
	fakeFreeTimes
}

func (v vanishingFreeTimes) Delete(ctx context.Context, id int64) error {
	_ = v.fakeFreeTimes.Delete(ctx, id)
	return v.fakeFreeTimes.Delete(ctx, id)
}

func TestDeleteFreeTimeAbsorbedMeanwhile(t *testing.T) {
	db := newFakeDB()
	a := db.addFreeTime(1, 2, "08:00", "09:00")
	svc := NewAvailabilityService(vanishingFreeTimes{fakeFreeTimes{db}}, zap.NewNop())

	err := svc.DeleteFreeTime(context.Background(), 1, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInfrastructure)
}

// staleFreeTimes первым чтением отдаёт интервал на день staleDay
type staleFreeTimes struct {
	fakeFreeTimes
	reads    *int
	staleDay int
}

func (s staleFreeTimes) GetByID(ctx context.Context, id int64) (*model.FreeTime, error) {
	ft, err := s.fakeFreeTimes.GetByID(ctx, id)
	*s.reads++
	if ft != nil && *s.reads == 1 {
		ft.DayOfWeek = s.staleDay
	}
	return ft, err
}

func TestDeleteFreeTimeRelocksMovedDay(t *testing.T) {
	db := newFakeDB()
	a := db.addFreeTime(1, 5, "08:00", "09:00")
	reads := 0
	svc := NewAvailabilityService(staleFreeTimes{fakeFreeTimes{db}, &reads, 2}, zap.NewNop())

	require.NoError(t, svc.DeleteFreeTime(context.Background(), 1, a.ID))
	assert.Equal(t, 3, reads)

	all, err := svc.ListFreeTime(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateFreeTimeRelocksMovedDay(t *testing.T) {
	db := newFakeDB()
	a := db.addFreeTime(1, 5, "08:00", "09:00")
	db.addFreeTime(1, 6, "09:00", "10:00")
	reads := 0
	svc := NewAvailabilityService(staleFreeTimes{fakeFreeTimes{db}, &reads, 2}, zap.NewNop())

	updated, err := svc.UpdateFreeTime(context.Background(), 1, a.ID, 6, tod("08:00"), tod("09:00"))
	require.NoError(t, err)
	// первое перечитывание увидело пятницу вне заблокированных дней 2 и 6
	assert.Equal(t, 3, reads)
	assert.Equal(t, 6, updated.DayOfWeek)
	assert.Equal(t, "08:00-10:00", updated.StartTime.String()+"-"+updated.EndTime.String())

	all, err := svc.ListFreeTime(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NoError(t, interval.Validate(all))
}
