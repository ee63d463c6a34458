package model

// QueryResult is the outcome of one ad-hoc SQL statement
type QueryResult struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
}
