// Package dataset loads the degustation CSV export and prepares its
// columns for the database.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultSeparator is the field separator of the degustation export
const DefaultSeparator = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyFile means the CSV has no header row
var ErrEmptyFile = errors.New("csv file has no header")

// Table is a CSV file held in memory, every row has len(Headers) cells
type Table struct {
	Headers []string
	Rows    [][]string
}

// Load reads a CSV file. Files that are not valid UTF-8 are decoded as Windows-1252.
func Load(path string, sep rune) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv %q: %w", path, err)
	}

	table, err := Parse(data, sep)
	if err != nil {
		return nil, fmt.Errorf("parse csv %q: %w", path, err)
	}
	return table, nil
}

// Parse reads CSV content already loaded in memory
func Parse(data []byte, sep rune) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode windows-1252: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &Table{Headers: headers}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, fitWidth(record, len(headers)))
	}

	return table, nil
}

func fitWidth(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}

// Column returns the index of a header, -1 if absent
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Rename replaces the headers with the cleaned names of a mapping built from them
func (t *Table) Rename(m Mapping) {
	for i, h := range t.Headers {
		if i < len(m) && m[i].Original == h {
			t.Headers[i] = m[i].Clean
		}
	}
}

// SetColumn replaces the values of a column, appending it when the header
// is absent. Values must have one entry per row. It returns the column index.
func (t *Table) SetColumn(name string, values []string) (int, error) {
	if len(values) != len(t.Rows) {
		return -1, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}

	if idx := t.Column(name); idx >= 0 {
		for i := range t.Rows {
			t.Rows[i][idx] = values[i]
		}
		return idx, nil
	}

	t.Headers = append(t.Headers, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return len(t.Headers) - 1, nil
}
