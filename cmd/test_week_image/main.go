package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/controller/view"
	"github.com/Freeeeeet/study_planner_bot/internal/model"
	"github.com/Freeeeeet/study_planner_bot/internal/planner"
	"github.com/Freeeeeet/study_planner_bot/internal/service"
)

func main() {
	now := time.Now()
	monday := service.WeekStart(now)

	subjects := []*model.Subject{
		{ID: 1, UserID: 1, Name: "Математический анализ", Priority: model.PriorityHigh, WeeklyHours: 6},
		{ID: 2, UserID: 1, Name: "Физика", Priority: model.PriorityMedium, WeeklyHours: 3},
		{ID: 3, UserID: 1, Name: "English", Priority: model.PriorityLow, WeeklyHours: 2},
	}

	freeTimes := []*model.FreeTime{
		{ID: 1, UserID: 1, DayOfWeek: 1, StartTime: model.NewTimeOfDay(18, 0), EndTime: model.NewTimeOfDay(21, 0)},
		{ID: 2, UserID: 1, DayOfWeek: 3, StartTime: model.NewTimeOfDay(9, 0), EndTime: model.NewTimeOfDay(12, 30)},
		{ID: 3, UserID: 1, DayOfWeek: 5, StartTime: model.NewTimeOfDay(16, 0), EndTime: model.NewTimeOfDay(19, 0)},
		{ID: 4, UserID: 1, DayOfWeek: 6, StartTime: model.NewTimeOfDay(10, 0), EndTime: model.NewTimeOfDay(14, 0)},
	}

	// Раскладываем с начала недели, чтобы картинка была заполнена целиком
	allocator := planner.NewFallbackAllocator()
	sessions := allocator.Allocate(monday, subjects, freeTimes)
	for i, s := range sessions {
		s.ID = int64(i + 1)
		// первая сессия для примера отмечена выполненной
		if i == 0 {
			actual := 50
			s.Completed = true
			s.ActualMinutes = &actual
		}
	}

	imageData, err := view.GenerateWeekImage(view.WeekImage{
		WeekStart: monday,
		Now:       now,
		Sessions:  sessions,
		FreeTimes: freeTimes,
	})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "week.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", filename)
	fmt.Printf("📅 Период: %s - %s\n", view.FormatDate(monday), view.FormatDate(monday.AddDate(0, 0, 6)))
	fmt.Printf("📊 Сессий: %d\n", len(sessions))
}
