package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
)

// SelectPreferable keeps the candidates that cover the evaluation year and
// have per-day hours. When none qualifies the input is returned unchanged.
func SelectPreferable(candidates []*model.Schedule) []*model.Schedule {
	var chosen []*model.Schedule
	for _, c := range candidates {
		if c.Preferable() {
			chosen = append(chosen, c)
		}
	}

	if len(chosen) > 0 {
		return chosen
	}
	return candidates
}

// Marshal serializes decoded schedules for the translated column.
// Nil or empty input returns nil so the column stays NULL.
func Marshal(schedules []*model.Schedule) (*string, error) {
	if len(schedules) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(schedules); err != nil {
		return nil, fmt.Errorf("encode schedules: %w", err)
	}

	out := string(bytes.TrimRight(buf.Bytes(), "\n"))
	return &out, nil
}
