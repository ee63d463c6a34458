package main

import (
	"context"
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

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Sugar().Infow("Starting degustation uploader",
		"environment", cfg.Environment,
		"driver", cfg.Database.Driver,
		"csv", cfg.CSVPath,
		"table", cfg.TableName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Upload failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := app.OpenDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx, logger); err != nil {
		return err
	}

	notifier, err := app.NewNotifier(cfg.Telegram, logger)
	if err != nil {
		return err
	}

	uploader := service.NewUploadService(db.Tables, notifier, service.UploadOptions{
		CSVPath:           cfg.CSVPath,
		Separator:         cfg.CSVSeparator,
		TableName:         cfg.TableName,
		ColumnMappingPath: cfg.ColumnMappingPath,
		Workers:           cfg.Workers,
	}, logger)

	_, err = uploader.Run(ctx)
	return err
}
