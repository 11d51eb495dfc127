package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"harbor-control/internal/api/handler"
	"harbor-control/internal/api/middleware"
	"harbor-control/internal/api/router"
	"harbor-control/internal/web"
	"harbor-control/internal/worker"
	"harbor-control/pkg/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server and the auto-archive job",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("starting harbor control",
		zap.Int("port", a.cfg.Server.Port),
		zap.String("db_driver", a.cfg.Database.Driver),
		zap.String("timezone", a.cfg.App.Timezone),
	)

	// Redis is optional: without it the rate limiter lets everything through.
	var limiter middleware.RateLimiter
	if a.cfg.Redis.Enabled {
		rdb, err := redis.NewClient(&a.cfg.Redis, a.logger)
		if err != nil {
			a.logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			limiter = rdb
		}
	}

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	h := handler.NewHandler(a.svc, a.logger)
	engine := router.Setup(a.cfg, h, tmpl, limiter, a.db, a.logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if a.cfg.Lifecycle.AutoArchiveEnabled {
		archiver, err := worker.NewArchiver(a.svc.Lifecycle, a.cfg.Lifecycle.AutoArchiveInterval, a.logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return archiver.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("server stopped with error", zap.Error(err))
		return err
	}

	a.logger.Info("server stopped")
	return nil
}
