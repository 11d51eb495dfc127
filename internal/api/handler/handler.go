package handler

import (
	"go.uber.org/zap"

	"harbor-control/internal/service"
)

// Handler aggregate entry point of all handlers.
type Handler struct {
	Boat      *BoatHandler
	Lifecycle *LifecycleHandler
	Traffic   *TrafficHandler
	Export    *ExportHandler
	Page      *PageHandler
}

// NewHandler builds the aggregate.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Boat:      NewBoatHandler(svc.Boat),
		Lifecycle: NewLifecycleHandler(svc.Lifecycle),
		Traffic:   NewTrafficHandler(svc.Traffic),
		Export:    NewExportHandler(svc.Export),
		Page:      NewPageHandler(svc, logger),
	}
}
