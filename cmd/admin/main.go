package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/app"
	"github.com/betterthansis/unisis/internal/config"
	"github.com/betterthansis/unisis/internal/repository"
	"github.com/betterthansis/unisis/internal/service"
	"github.com/betterthansis/unisis/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogFile)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to open database pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to reach database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		logger.Fatal("Failed to set up migrator", zap.Error(err))
	}
	defer migrator.Close()

	repos := repository.New(pool, cfg.CacheTTL, logger)
	cli := commandLine{
		migrator: migrator,
		auth:     service.NewAuthService(repos.People, validation.New(), logger),
		out:      os.Stdout,
	}

	if err := cli.run(ctx, os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error("Command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
