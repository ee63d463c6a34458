// Package schedule decodes the opening hours mini-language of the
// horaires_d_ouvertures column.
//
// A raw value is a "||" separated list:
//
//	start_date||end_date||note_on_opening||note_on_closing||mon_mo||mon_mc||mon_ao||mon_ac||...||sun_ac
//
// Dates use DD/MM/YYYY. The weekly part may be truncated, missing slots are
// empty strings.
package schedule

import (
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
)

const (
	fieldSeparator = "||"
	dateLayout     = "2/1/2006"
	headerFields   = 4
)

// ErrMalformedSchedule means the value has fewer than four fields and is not a schedule
var ErrMalformedSchedule = errors.New("malformed schedule")

// Decoder decodes schedules against a fixed evaluation year
type Decoder struct {
	year int
}

// NewDecoder creates a decoder for the given evaluation year
func NewDecoder(year int) *Decoder {
	return &Decoder{year: year}
}

// NewDecoderAt creates a decoder evaluating against the year of now
func NewDecoderAt(now time.Time) *Decoder {
	return NewDecoder(now.Year())
}

// Year returns the evaluation year
func (d *Decoder) Year() int {
	return d.year
}

// Decode decodes a single raw schedule
func (d *Decoder) Decode(raw string) (*model.Schedule, error) {
	return Decode(raw, d.year)
}

// DecodeAll decodes every candidate of a row and keeps the preferable ones
func (d *Decoder) DecodeAll(raws []string) []*model.Schedule {
	return DecodeAll(raws, d.year)
}

// Decode parses one raw schedule string. Values with fewer than four fields
// return ErrMalformedSchedule. Dates that do not parse only clear
// CurrentYearIncluded.
func Decode(raw string, year int) (*model.Schedule, error) {
	parts := strings.Split(raw, fieldSeparator)
	if len(parts) < headerFields {
		return nil, ErrMalformedSchedule
	}

	s := &model.Schedule{
		StartDate:            nullable(parts[0]),
		EndDate:              nullable(parts[1]),
		SpecialNoteOnOpening: nullable(parts[2]),
		SpecialNoteOnClosing: nullable(parts[3]),
	}
	s.HasSpecialNote = s.SpecialNoteOnOpening != nil || s.SpecialNoteOnClosing != nil
	s.CurrentYearIncluded = yearIncluded(parts[0], parts[1], year)

	slots := parts[headerFields:]
	for i := range model.Weekdays {
		base := i * model.SlotsPerDay
		s.ScheduleByDay[i] = model.DaySlots{
			MorningOpening:   slotAt(slots, base),
			MorningClosing:   slotAt(slots, base+1),
			AfternoonOpening: slotAt(slots, base+2),
			AfternoonClosing: slotAt(slots, base+3),
		}
	}
	s.HasScheduleByDay = hasAnySlot(s.ScheduleByDay)

	return s, nil
}

// DecodeAll decodes every candidate and applies SelectPreferable.
// A nil or empty input returns nil. Malformed candidates stay in the
// result as nil entries.
func DecodeAll(raws []string, year int) []*model.Schedule {
	if len(raws) == 0 {
		return nil
	}

	decoded := make([]*model.Schedule, len(raws))
	for i, raw := range raws {
		s, err := Decode(raw, year)
		if err != nil {
			continue
		}
		decoded[i] = s
	}

	return SelectPreferable(decoded)
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func yearIncluded(start, end string, year int) bool {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return false
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return false
	}
	return startDate.Year() <= year && year <= endDate.Year()
}

func slotAt(slots []string, idx int) string {
	if idx < len(slots) {
		return slots[idx]
	}
	return ""
}

func hasAnySlot(week model.WeekSchedule) bool {
	for _, day := range week {
		for _, v := range day.Values() {
			if strings.TrimSpace(v) != "" {
				return true
			}
		}
	}
	return false
}
