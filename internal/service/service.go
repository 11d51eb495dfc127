package service

import (
	"go.uber.org/zap"

	"harbor-control/config"
	"harbor-control/internal/repository"
)

// Service aggregate entry point of all services.
type Service struct {
	Boat      BoatService
	Lifecycle LifecycleService
	Traffic   TrafficService
	Export    ExportService
}

// NewService builds the aggregate.
func NewService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *Service {
	return &Service{
		Boat:      NewBoatService(cfg, repo, logger),
		Lifecycle: NewLifecycleService(cfg, repo, logger),
		Traffic:   NewTrafficService(cfg, repo, logger),
		Export:    NewExportService(cfg, repo, logger),
	}
}
