package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidListLiteral means a cell starts with "[" but is not a list of quoted strings
var ErrInvalidListLiteral = errors.New("invalid list literal")

// ParseScheduleCell turns a raw opening hours cell into candidate strings.
//
// An empty cell has no schedules. A cell starting with "[" is a list literal
// of quoted strings such as ['a', "b"]. Any other value is a single candidate.
func ParseScheduleCell(cell string) ([]string, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil, nil
	}
	if !strings.HasPrefix(trimmed, "[") {
		return []string{cell}, nil
	}

	items, err := parseListLiteral(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListLiteral, err)
	}
	return items, nil
}

type listScanner struct {
	src string
	pos int
}

func parseListLiteral(src string) ([]string, error) {
	s := &listScanner{src: src}
	if !s.consume('[') {
		return nil, errors.New("expected '['")
	}

	items := []string{}
	for {
		s.skipSpace()
		if s.consume(']') {
			break
		}

		item, err := s.quoted()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		s.skipSpace()
		if s.consume(',') {
			continue
		}
		if s.consume(']') {
			break
		}
		return nil, fmt.Errorf("expected ',' or ']' at offset %d", s.pos)
	}

	s.skipSpace()
	if s.pos != len(s.src) {
		return nil, fmt.Errorf("unexpected trailing data at offset %d", s.pos)
	}
	return items, nil
}

func (s *listScanner) consume(c byte) bool {
	if s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

func (s *listScanner) skipSpace() {
	for s.pos < len(s.src) && strings.IndexByte(" \t\r\n", s.src[s.pos]) >= 0 {
		s.pos++
	}
}

func (s *listScanner) quoted() (string, error) {
	if s.pos >= len(s.src) {
		return "", errors.New("unexpected end of list")
	}
	quote := s.src[s.pos]
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("expected quoted string at offset %d", s.pos)
	}
	s.pos++

	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.pos++

		switch {
		case c == quote:
			return b.String(), nil
		case c == '\\':
			if err := s.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", errors.New("unterminated string")
}

// escape decodes the escape sequence following a backslash. \x, \u and \U
// take 2, 4 and 8 hex digits, unknown escapes are kept as written.
func (s *listScanner) escape(b *strings.Builder) error {
	if s.pos >= len(s.src) {
		return errors.New("unterminated escape")
	}
	c := s.src[s.pos]
	s.pos++

	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'x', 'u', 'U':
		digits := 2
		switch c {
		case 'u':
			digits = 4
		case 'U':
			digits = 8
		}
		if s.pos+digits > len(s.src) {
			return fmt.Errorf("truncated \\%c escape at offset %d", c, s.pos)
		}
		code, err := strconv.ParseUint(s.src[s.pos:s.pos+digits], 16, 32)
		if err != nil || code > unicode.MaxRune {
			return fmt.Errorf("invalid \\%c escape at offset %d", c, s.pos)
		}
		b.WriteRune(rune(code))
		s.pos += digits
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}
