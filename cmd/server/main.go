package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"harbor-control/config"
	"harbor-control/internal/repository"
	"harbor-control/internal/service"
	"harbor-control/pkg/database"
	applogger "harbor-control/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "harbor",
	Short:         "Harbor control: boats, berths and the traffic log of a marina",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config/config.yaml or ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app wiring shared by every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	repo   *repository.Repository
	svc    *service.Service
}

// bootstrap loads config, builds the logger and opens the store.
// Migrations run when migrate is true.
func bootstrap(migrate bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Sync()
		return nil, err
	}

	if migrate {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
			return nil, err
		}
	}

	repo := repository.NewRepository(db, cfg.App.Location())
	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		repo:   repo,
		svc:    service.NewService(cfg, repo, logger),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	a.logger.Sync()
}
