package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Freeeeeet/degustation_uploader/internal/app"
	"github.com/Freeeeeet/degustation_uploader/internal/config"
	"github.com/Freeeeeet/degustation_uploader/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sqlFile := flag.String("file", cfg.SQLFilePath, "SQL file, one statement per line")
	flag.Parse()

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDatabase(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	executed, err := service.NewQueryService(db.Queries, logger).RunFile(ctx, *sqlFile)
	if err != nil {
		logger.Error("Queries failed", zap.Int("executed", executed), zap.Error(err))
		db.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("All queries executed", zap.Int("executed", executed), zap.String("file", *sqlFile))
}
