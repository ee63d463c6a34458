package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
	"github.com/Freeeeeet/degustation_uploader/internal/repository/base"
)

var postgresTypes = map[model.ColumnKind]string{
	model.ColumnInteger: "BIGINT",
	model.ColumnReal:    "DOUBLE PRECISION",
	model.ColumnText:    "TEXT",
	model.ColumnJSON:    "JSONB",
}

// TableRepository writes the cleaned dataset into postgres
type TableRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewTableRepository creates a table repository on the pgx pool
func NewTableRepository(pool *pgxpool.Pool, logger *zap.Logger) *TableRepository {
	return &TableRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// CreateTable creates the destination table from the inferred columns
func (r *TableRepository) CreateTable(ctx context.Context, table string, columns []model.Column) error {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, pgx.Identifier{c.Name}.Sanitize()+" "+postgresTypes[c.Kind])
	}

	query := fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{table}.Sanitize(), strings.Join(defs, ", "))

	if _, err := r.ExecAffected(ctx, query); err != nil {
		if base.IsDuplicateTable(err) {
			return fmt.Errorf("create table %s: %w", table, ErrTableExists)
		}
		return fmt.Errorf("create table %s: %w", table, err)
	}

	r.logger.Info("Table created",
		zap.String("table", table),
		zap.Int("columns", len(columns)))
	return nil
}

// InsertRows bulk loads the rows with COPY
func (r *TableRepository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	copied, err := r.Pool().CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		r.logger.Error("Failed to copy rows",
			zap.String("table", table),
			zap.Int("rows", len(rows)),
			zap.Error(err))
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}

	r.logger.Info("Rows copied",
		zap.String("table", table),
		zap.Int64("rows", copied))
	return copied, nil
}

// RecordRun stores the audit record of an upload
func (r *TableRepository) RecordRun(ctx context.Context, run *model.UploadRun) error {
	_, err := r.ExecAffected(ctx, insertRunQuery("$1", "$2", "$3", "$4", "$5", "$6", "$7", "$8", "$9", "$10"), runArgs(run)...)
	if err != nil {
		return fmt.Errorf("record upload run: %w", err)
	}
	return nil
}
