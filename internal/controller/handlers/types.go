package handlers

import (
	"time"

	"github.com/Freeeeeet/study_planner_bot/internal/controller/state"
	"github.com/Freeeeeet/study_planner_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService         *service.UserService
	subjectService      *service.SubjectService
	availabilityService *service.AvailabilityService
	sessionService      *service.StudySessionService
	scheduleService     *service.ScheduleService
	stateManager        *state.Manager
	now                 func() time.Time
	logger              *zap.Logger

	routes map[string]route
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	subjectService *service.SubjectService,
	availabilityService *service.AvailabilityService,
	sessionService *service.StudySessionService,
	scheduleService *service.ScheduleService,
	stateManager *state.Manager,
	now func() time.Time,
	logger *zap.Logger,
) *Handlers {
	if now == nil {
		now = time.Now
	}
	h := &Handlers{
		userService:         userService,
		subjectService:      subjectService,
		availabilityService: availabilityService,
		sessionService:      sessionService,
		scheduleService:     scheduleService,
		stateManager:        stateManager,
		now:                 now,
		logger:              logger,
	}
	h.routes = h.buildRoutes()
	return h
}
