package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWord = regexp.MustCompile(`[^a-z0-9_]+`)

// CleanColumnName folds a header to a lowercase ASCII identifier:
// accents are stripped, runs of non-word characters become "_" and
// leading/trailing "_" are removed.
func CleanColumnName(col string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	folded, _, err := transform.String(folder, col)
	if err != nil {
		folded = col
	}

	clean := nonWord.ReplaceAllString(strings.ToLower(folded), "_")
	return strings.Trim(clean, "_")
}

// ColumnPair links an original header to its cleaned name
type ColumnPair struct {
	Original string
	Clean    string
}

// Mapping is positional: entry i describes header i
type Mapping []ColumnPair

// ColumnMapping builds the cleaned names for a header row. Names already
// taken get the first free numeric suffix, empty ones become column_<n>.
func ColumnMapping(headers []string) Mapping {
	m := make(Mapping, 0, len(headers))
	used := make(map[string]bool, len(headers))

	for i, h := range headers {
		base := CleanColumnName(h)
		if base == "" {
			base = fmt.Sprintf("column_%d", i+1)
		}

		clean := base
		for n := 2; used[clean]; n++ {
			clean = fmt.Sprintf("%s_%d", base, n)
		}
		used[clean] = true

		m = append(m, ColumnPair{Original: h, Clean: clean})
	}

	return m
}

// MarshalJSON writes an object from original to cleaned name, in header order
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, p := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(p.Original); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		if err := enc.Encode(p.Clean); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSON saves the mapping as indented JSON, non-ASCII and HTML characters verbatim
func (m Mapping) WriteJSON(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("marshal column mapping: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write column mapping %q: %w", path, err)
	}
	return nil
}
