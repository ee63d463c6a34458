package model

import (
	"strconv"
	"strings"
)

// ColumnKind is the storage type inferred for a CSV column
type ColumnKind string

const (
	ColumnInteger ColumnKind = "integer"
	ColumnReal    ColumnKind = "real"
	ColumnText    ColumnKind = "text"
	ColumnJSON    ColumnKind = "json"
)

// Column describes one column of the destination table
type Column struct {
	Name string
	Kind ColumnKind
}

// Value converts a raw CSV cell into the value bound for this column, empty cells become NULL
func (c Column) Value(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}

	switch c.Kind {
	case ColumnInteger:
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return v
		}
	case ColumnReal:
		if v, err := ParseReal(trimmed); err == nil {
			return v
		}
	}
	return cell
}

// ParseReal parses a float written with either a dot or a decimal comma
func ParseReal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
