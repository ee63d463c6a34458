package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
)

// ErrTableExists is returned by CreateTable when the table was created concurrently
var ErrTableExists = errors.New("table already exists")

func insertRunQuery(placeholders ...string) string {
	return fmt.Sprintf(`
		INSERT INTO upload_runs (id, source_path, table_name, rows_read, rows_uploaded, schedule_failures,
			table_created, evaluation_year, started_at, finished_at)
		VALUES (%s)
	`, strings.Join(placeholders, ", "))
}

func runArgs(run *model.UploadRun) []any {
	return []any{
		run.ID.String(),
		run.SourcePath,
		run.TableName,
		run.RowsRead,
		run.RowsUploaded,
		run.ScheduleFailures,
		run.TableCreated,
		run.EvaluationYear,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
	}
}
