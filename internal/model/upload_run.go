package model

import (
	"time"

	"github.com/google/uuid"
)

// UploadRun is the audit record of one uploader execution
type UploadRun struct {
	ID               uuid.UUID `json:"id"`
	SourcePath       string    `json:"source_path"`
	TableName        string    `json:"table_name"`
	RowsRead         int       `json:"rows_read"`
	RowsUploaded     int64     `json:"rows_uploaded"`
	ScheduleFailures int       `json:"schedule_failures"` // rows stored with a NULL translation because of an error
	TableCreated     bool      `json:"table_created"`
	EvaluationYear   int       `json:"evaluation_year"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}
