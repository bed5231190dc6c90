package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"task-tracker/internal/config"
	"task-tracker/internal/repository"
	"task-tracker/internal/server"
	"task-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}

	logger := log.NewWithOptions(os.Stdout, log.Options{
		Level:           parseLevel(cfg.LogLevel),
		ReportTimestamp: true,
	})

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", "err", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	taskSvc := service.NewTaskService(taskRepo)
	completionSvc := service.NewCompletionService(completionRepo, taskRepo)
	reminderSvc := service.NewReminderService(userRepo, taskRepo, logger)

	if cfg.SummaryTime != "" {
		scheduler := service.NewSchedulerService(time.Local)
		if _, err := scheduler.ScheduleDaily(cfg.SummaryTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := reminderSvc.LogDailySummaries(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("daily summary", "err", err)
			}
		}); err != nil {
			logger.Fatal("schedule daily summary", "err", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := server.New(cfg.Addr, logger, authSvc, taskSvc, completionSvc)

	logger.Info("task tracker listening", "addr", cfg.Addr)
	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server stopped", "err", err)
	}
	logger.Info("shutdown complete")
}

func parseLevel(raw string) log.Level {
	lvl, err := log.ParseLevel(raw)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
