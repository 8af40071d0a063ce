package handler

import (
	scheduledomain "schedule-arranger-go/internal/domain/schedule"
	"schedule-arranger-go/pkg/logger"
)

type Handlers struct {
	Schedules *scheduledomain.Service
	log       logger.Logger
}

func New(schedules *scheduledomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Schedules: schedules,
		log:       log,
	}
}
