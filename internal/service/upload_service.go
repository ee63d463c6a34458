package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/degustation_uploader/internal/dataset"
	"github.com/Freeeeeet/degustation_uploader/internal/model"
	"github.com/Freeeeeet/degustation_uploader/internal/repository"
	"github.com/Freeeeeet/degustation_uploader/internal/schedule"
)

// TableStore is the destination database
type TableStore interface {
	HasTable(ctx context.Context, name string) (bool, error)
	CreateTable(ctx context.Context, table string, columns []model.Column) error
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	RecordRun(ctx context.Context, run *model.UploadRun) error
}

// Notifier is told about every finished run
type Notifier interface {
	Notify(ctx context.Context, run *model.UploadRun) error
}

// UploadOptions locate the input and the destination
type UploadOptions struct {
	CSVPath           string
	Separator         rune
	TableName         string
	ColumnMappingPath string // empty disables the mapping file
	Workers           int
}

// UploadService loads the degustation CSV into the destination table
type UploadService struct {
	store    TableStore
	notifier Notifier
	opts     UploadOptions
	workers  int
	now      func() time.Time
	logger   *zap.Logger
}

// NewUploadService creates an upload service. Workers below 1 run the
// translation sequentially, a zero separator means dataset.DefaultSeparator.
func NewUploadService(store TableStore, notifier Notifier, opts UploadOptions, logger *zap.Logger) *UploadService {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if opts.Separator == 0 {
		opts.Separator = dataset.DefaultSeparator
	}

	return &UploadService{
		store:    store,
		notifier: notifier,
		opts:     opts,
		workers:  workers,
		now:      time.Now,
		logger:   logger,
	}
}

// Run loads the CSV, translates the schedules and uploads the table if it does not exist yet
func (s *UploadService) Run(ctx context.Context) (*model.UploadRun, error) {
	run := &model.UploadRun{
		ID:         uuid.New(),
		SourcePath: s.opts.CSVPath,
		TableName:  s.opts.TableName,
		StartedAt:  s.now(),
	}

	s.logger.Info("Upload started",
		zap.String("run_id", run.ID.String()),
		zap.String("csv", s.opts.CSVPath),
		zap.String("table", s.opts.TableName))

	table, err := dataset.Load(s.opts.CSVPath, s.opts.Separator)
	if err != nil {
		return nil, fmt.Errorf("load csv: %w", err)
	}
	run.RowsRead = len(table.Rows)

	mapping := dataset.ColumnMapping(table.Headers)
	if s.opts.ColumnMappingPath != "" {
		if err := mapping.WriteJSON(s.opts.ColumnMappingPath); err != nil {
			return nil, err
		}
		s.logger.Debug("Column mapping written", zap.String("path", s.opts.ColumnMappingPath))
	}
	table.Rename(mapping)

	decoder := schedule.NewDecoderAt(run.StartedAt)
	run.EvaluationYear = decoder.Year()

	translated, failures, err := s.translateSchedules(ctx, table, decoder)
	if err != nil {
		return nil, err
	}
	run.ScheduleFailures = failures

	translatedIdx, err := table.SetColumn(TranslatedColumn, translated)
	if err != nil {
		return nil, fmt.Errorf("set translated column: %w", err)
	}

	columns := dataset.InferColumns(table)
	columns[translatedIdx].Kind = model.ColumnJSON

	if err := s.upload(ctx, table, columns, run); err != nil {
		return nil, err
	}

	run.FinishedAt = s.now()
	if err := s.store.RecordRun(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("Upload finished",
		zap.String("run_id", run.ID.String()),
		zap.Int("rows_read", run.RowsRead),
		zap.Int64("rows_uploaded", run.RowsUploaded),
		zap.Int("schedule_failures", run.ScheduleFailures),
		zap.Bool("table_created", run.TableCreated))

	if err := s.notifier.Notify(ctx, run); err != nil {
		s.logger.Warn("Failed to send run notification", zap.Error(err))
	}

	return run, nil
}

func (s *UploadService) upload(ctx context.Context, table *dataset.Table, columns []model.Column, run *model.UploadRun) error {
	exists, err := s.store.HasTable(ctx, s.opts.TableName)
	if err != nil {
		return fmt.Errorf("check table: %w", err)
	}
	if exists {
		s.logger.Info("Table already exists, upload skipped", zap.String("table", s.opts.TableName))
		return nil
	}

	s.logger.Info("Table does not exist, creating", zap.String("table", s.opts.TableName))
	if err := s.store.CreateTable(ctx, s.opts.TableName, columns); err != nil {
		if errors.Is(err, repository.ErrTableExists) {
			s.logger.Info("Table created by another run, upload skipped", zap.String("table", s.opts.TableName))
			return nil
		}
		return err
	}
	run.TableCreated = true

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}

	rows := make([][]any, len(table.Rows))
	for i, row := range table.Rows {
		values := make([]any, len(columns))
		for j, c := range columns {
			values[j] = c.Value(row[j])
		}
		rows[i] = values
	}

	uploaded, err := s.store.InsertRows(ctx, s.opts.TableName, names, rows)
	if err != nil {
		return err
	}
	run.RowsUploaded = uploaded

	s.logger.Info("Data uploaded", zap.String("table", s.opts.TableName), zap.Int64("rows", uploaded))
	return nil
}
