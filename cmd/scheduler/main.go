package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"production-scheduler/internal/clock"
	"production-scheduler/internal/config"
	"production-scheduler/internal/constants"
	generate_excel "production-scheduler/internal/service/generate-excel"
	"production-scheduler/internal/service/progress"
	"production-scheduler/internal/service/scheduling"
	"production-scheduler/internal/storage/sqlstore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env, cfg.Log)

	storage, err := sqlstore.New(cfg.Storage)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	log.Info("storage ready", slog.String("driver", storage.Driver()))

	if cfg.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		res, err := storage.Seed(ctx, constants.SeedMachines, constants.SeedBOMs)
		cancel()
		if err != nil {
			log.Error("failed to seed reference data", slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info("reference data seeded", slog.Int("machines", res.Machines), slog.Int("boms", res.BOMs))
	}

	schedulingService := scheduling.New(log, storage, clock.System{}, scheduling.Options{
		PrefetchLimit: cfg.Scheduling.PrefetchLimit,
		RunTimeout:    cfg.Scheduling.RunTimeout,
	})
	progressService := progress.New(log, storage, storage, clock.System{})
	genService := generate_excel.NewGenerateService(storage)

	log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, storage, schedulingService, progressService, genService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}

// writeTimeout прогон планирования отвечает дольше обычного запроса
func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.Scheduling.RunTimeout+5*time.Second > cfg.HTTPServer.Timeout {
		return cfg.Scheduling.RunTimeout + 5*time.Second
	}
	return cfg.HTTPServer.Timeout
}
