package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/Freeeeeet/degustation_uploader/internal/config"
	"github.com/Freeeeeet/degustation_uploader/internal/model"
	"github.com/Freeeeeet/degustation_uploader/internal/service"
)

// NewNotifier returns a telegram notifier when a token is configured
func NewNotifier(cfg config.TelegramConfig, logger *zap.Logger) (service.Notifier, error) {
	if cfg.Token == "" {
		return NopNotifier{}, nil
	}
	return NewTelegramNotifier(cfg.Token, cfg.ChatID, logger)
}

// NopNotifier is used when no telegram token is configured
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(context.Context, *model.UploadRun) error { return nil }

// TelegramNotifier posts a run summary to a chat
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier creates the notifier without calling getMe, so a bad
// token only fails the notification, not the upload
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		logger: logger,
	}, nil
}

// Notify sends the summary of an upload run
func (n *TelegramNotifier) Notify(ctx context.Context, run *model.UploadRun) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   FormatRunSummary(run),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Debug("Run summary sent to telegram",
		zap.Int64("chat_id", n.chatID),
		zap.String("run_id", run.ID.String()))
	return nil
}

// FormatRunSummary renders a run as a short plain text message
func FormatRunSummary(run *model.UploadRun) string {
	var b strings.Builder

	if run.TableCreated {
		fmt.Fprintf(&b, "✅ Table %s created\n", run.TableName)
	} else {
		fmt.Fprintf(&b, "ℹ️ Table %s already exists, upload skipped\n", run.TableName)
	}
	fmt.Fprintf(&b, "Source: %s\n", run.SourcePath)
	fmt.Fprintf(&b, "Rows read: %d\n", run.RowsRead)
	fmt.Fprintf(&b, "Rows uploaded: %d\n", run.RowsUploaded)
	if run.ScheduleFailures > 0 {
		fmt.Fprintf(&b, "⚠️ Schedules not translated: %d\n", run.ScheduleFailures)
	}
	fmt.Fprintf(&b, "Duration: %s", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	return b.String()
}
