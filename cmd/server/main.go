package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/app"
	"github.com/betterthansis/unisis/internal/config"
	"github.com/betterthansis/unisis/internal/controller/web"
	"github.com/betterthansis/unisis/internal/repository"
	"github.com/betterthansis/unisis/internal/service"
	"github.com/betterthansis/unisis/internal/validation"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogFile != "" {
		app.MustLogDir(filepath.Dir(cfg.LogFile))
	}
	logger := app.NewLogger(cfg.Environment, cfg.LogFile)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting unisis",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Duration("cache_ttl", cfg.CacheTTL))

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("Connected to database")

	if cfg.PhotoDir != "" {
		if err := os.MkdirAll(cfg.PhotoDir, 0o755); err != nil {
			return fmt.Errorf("create photo dir: %w", err)
		}
	}

	if cfg.MigrationsAuto {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		_ = migrator.Close()
		if err != nil {
			return err
		}
	}

	repos := repository.New(pool, cfg.CacheTTL, logger)
	validate := validation.New()

	authSvc := service.NewAuthService(repos.People, validate, logger)
	peopleSvc := service.NewPeopleService(repos.People, repos.Instructors, repos.Students, repos.Assistants, validate, logger)
	facilitySvc := service.NewFacilityService(repos.Buildings, repos.Rooms, repos.Classrooms, repos.Labs, validate, logger)
	academicSvc := service.NewAcademicService(repos.Faculties, repos.Departments, repos.Clubs, repos.Papers, validate, logger)
	lessonSvc := service.NewLessonService(repos.Lessons, validate, logger)
	enrollmentSvc := service.NewEnrollmentService(repos.Enrollments, repos.Lessons, logger)

	scheduler := app.NewScheduler(repos, enrollmentSvc, cfg.CachePurgeInterval, cfg.ReconcileInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := web.NewServer(&web.Options{
		Address:        cfg.HTTPAddr,
		RequestTimeout: cfg.HTTPRequestTimeout,
		SessionSecret:  []byte(cfg.SessionSecret),
		SecureCookies:  cfg.IsProduction(),
		Debug:          !cfg.IsProduction(),
		PhotoDir:       cfg.PhotoDir,
		HealthCheck:    pool.Ping,
		Auth:           authSvc,
		Enrollments:    enrollmentSvc,
		Lessons:        lessonSvc,
		People:         peopleSvc,
		Facilities:     facilitySvc,
		Academics:      academicSvc,
		Validator:      validate,
		Logger:         logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return errors.New("http server exited unexpectedly")
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
