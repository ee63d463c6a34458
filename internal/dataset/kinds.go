package dataset

import (
	"strconv"
	"strings"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
)

// InferColumns picks a storage kind per column: integer when every
// non-empty cell is an int64, real when every one is a float, text
// otherwise. Columns with no values are text, so are zero-padded codes.
func InferColumns(t *Table) []model.Column {
	cols := make([]model.Column, len(t.Headers))
	for i, h := range t.Headers {
		cols[i] = model.Column{Name: h, Kind: inferKind(t.Rows, i)}
	}
	return cols
}

func inferKind(rows [][]string, idx int) model.ColumnKind {
	kind := model.ColumnText
	seen := false

	for _, row := range rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}

		switch {
		case hasLeadingZero(cell):
			return model.ColumnText
		case isInteger(cell):
			if !seen {
				kind = model.ColumnInteger
			}
		case isReal(cell):
			kind = model.ColumnReal
		default:
			return model.ColumnText
		}
		seen = true
	}

	return kind
}

// hasLeadingZero keeps codes such as postal codes "01000" as text
func hasLeadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.' && s[1] != ','
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isReal rejects inf/nan spellings that ParseFloat accepts
func isReal(s string) bool {
	if strings.ContainsAny(s, "iInN") {
		return false
	}
	_, err := model.ParseReal(s)
	return err == nil
}
