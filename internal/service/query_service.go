package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
)

// QueryExecutor runs one SQL statement
type QueryExecutor interface {
	Execute(ctx context.Context, query string) (*model.QueryResult, error)
}

// QueryService runs the statements of a SQL file, one per line
type QueryService struct {
	executor QueryExecutor
	logger   *zap.Logger
}

// NewQueryService creates a query service
func NewQueryService(executor QueryExecutor, logger *zap.Logger) *QueryService {
	return &QueryService{
		executor: executor,
		logger:   logger,
	}
}

// RunFile executes every non-empty line of the file and logs the returned rows.
// It stops at the first failing statement.
func (s *QueryService) RunFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read sql file %q: %w", path, err)
	}
	return s.Run(ctx, string(data))
}

// Run executes every non-empty line of a script, returning the number executed
func (s *QueryService) Run(ctx context.Context, script string) (int, error) {
	executed := 0
	for _, line := range strings.Split(strings.TrimSpace(script), "\n") {
		query := strings.TrimSpace(line)
		if query == "" || strings.HasPrefix(query, "--") {
			continue
		}

		s.logger.Info("Executing query", zap.String("query", query))
		result, err := s.executor.Execute(ctx, strings.TrimSuffix(query, ";"))
		if err != nil {
			s.logger.Error("Query failed", zap.String("query", query), zap.Error(err))
			return executed, fmt.Errorf("execute %q: %w", query, err)
		}
		executed++

		for _, row := range result.Rows {
			s.logger.Info("Row", zap.Strings("columns", result.Columns), zap.Any("values", row))
		}
		s.logger.Info("Executed",
			zap.String("query", query),
			zap.Int("rows", len(result.Rows)),
			zap.Int64("rows_affected", result.RowsAffected))
	}

	return executed, nil
}
