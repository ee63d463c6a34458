package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
)

var sqliteTypes = map[model.ColumnKind]string{
	model.ColumnInteger: "INTEGER",
	model.ColumnReal:    "REAL",
	model.ColumnText:    "TEXT",
	model.ColumnJSON:    "TEXT",
}

// OpenSQLite opens a sqlite database file through modernc.org/sqlite
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	return db, nil
}

// SQLiteTableRepository writes the cleaned dataset into a local sqlite file
type SQLiteTableRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteTableRepository creates a table repository on a sqlite database
func NewSQLiteTableRepository(db *sql.DB, logger *zap.Logger) *SQLiteTableRepository {
	return &SQLiteTableRepository{
		db:     db,
		logger: logger,
	}
}

// HasTable checks sqlite_master for the table
func (r *SQLiteTableRepository) HasTable(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return count > 0, nil
}

// CreateTable creates the destination table from the inferred columns
func (r *SQLiteTableRepository) CreateTable(ctx context.Context, table string, columns []model.Column) error {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, quoteIdent(c.Name)+" "+sqliteTypes[c.Kind])
	}

	query := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	r.logger.Info("Table created",
		zap.String("table", table),
		zap.Int("columns", len(columns)))
	return nil
}

// InsertRows inserts every row in a single transaction
func (r *SQLiteTableRepository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(table), strings.Join(quoted, ", "), placeholders)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("insert row %d into %s: %w", i+1, table, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert into %s: %w", table, err)
	}

	r.logger.Info("Rows inserted",
		zap.String("table", table),
		zap.Int64("rows", inserted))
	return inserted, nil
}

// RecordRun stores the audit record of an upload
func (r *SQLiteTableRepository) RecordRun(ctx context.Context, run *model.UploadRun) error {
	placeholders := strings.Split(strings.TrimSuffix(strings.Repeat("?,", 10), ","), ",")
	if _, err := r.db.ExecContext(ctx, insertRunQuery(placeholders...), runArgs(run)...); err != nil {
		return fmt.Errorf("record upload run: %w", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
