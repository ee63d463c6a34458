package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
	"github.com/Freeeeeet/degustation_uploader/internal/repository/base"
)

// QueryRepository runs ad-hoc statements against postgres
type QueryRepository struct {
	*base.Repository
}

// NewQueryRepository creates a query repository on the pgx pool
func NewQueryRepository(pool *pgxpool.Pool) *QueryRepository {
	return &QueryRepository{Repository: base.NewRepository(pool)}
}

// Execute runs one statement and collects every returned row
func (r *QueryRepository) Execute(ctx context.Context, query string) (*model.QueryResult, error) {
	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	result := &model.QueryResult{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	result.RowsAffected = rows.CommandTag().RowsAffected()
	return result, nil
}

// SQLiteQueryRepository runs ad-hoc statements against sqlite
type SQLiteQueryRepository struct {
	db *sql.DB
}

// NewSQLiteQueryRepository creates a query repository on a sqlite database
func NewSQLiteQueryRepository(db *sql.DB) *SQLiteQueryRepository {
	return &SQLiteQueryRepository{db: db}
}

// Execute runs one statement and collects every returned row
func (r *SQLiteQueryRepository) Execute(ctx context.Context, query string) (*model.QueryResult, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &model.QueryResult{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	return result, nil
}
