package model

import (
	"bytes"
	"encoding/json"
)

// Weekdays is the fixed order of days in a raw schedule string
var Weekdays = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// SlotsPerDay is the number of time fields a raw schedule carries for one day
const SlotsPerDay = 4

// DaySlots holds the two opening windows of one day
type DaySlots struct {
	MorningOpening   string `json:"morning_opening"`
	MorningClosing   string `json:"morning_closing"`
	AfternoonOpening string `json:"afternoon_opening"`
	AfternoonClosing string `json:"afternoon_closing"`
}

// Values returns the slots in raw string order
func (d DaySlots) Values() [SlotsPerDay]string {
	return [SlotsPerDay]string{d.MorningOpening, d.MorningClosing, d.AfternoonOpening, d.AfternoonClosing}
}

// WeekSchedule is indexed the same way as Weekdays
type WeekSchedule [7]DaySlots

// Day returns the slots for a weekday name, false if the name is unknown
func (w WeekSchedule) Day(name string) (DaySlots, bool) {
	for i, day := range Weekdays {
		if day == name {
			return w[i], true
		}
	}
	return DaySlots{}, false
}

// MarshalJSON emits an object keyed by weekday name, Monday first
func (w WeekSchedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, day := range Weekdays {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(day); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(w[i]); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encoder.Encode terminates every value with a newline
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}

// UnmarshalJSON accepts the object produced by MarshalJSON, unknown days are ignored
func (w *WeekSchedule) UnmarshalJSON(data []byte) error {
	var byName map[string]DaySlots
	if err := json.Unmarshal(data, &byName); err != nil {
		return err
	}
	*w = WeekSchedule{}
	for i, day := range Weekdays {
		w[i] = byName[day]
	}
	return nil
}

// Schedule is one decoded value of the opening hours column
type Schedule struct {
	StartDate            *string      `json:"start_date"`
	EndDate              *string      `json:"end_date"`
	SpecialNoteOnOpening *string      `json:"special_note_on_opening"`
	SpecialNoteOnClosing *string      `json:"special_note_on_closing"`
	HasSpecialNote       bool         `json:"has_special_note"`
	CurrentYearIncluded  bool         `json:"current_year_included"`
	HasScheduleByDay     bool         `json:"has_schedule_by_day"`
	ScheduleByDay        WeekSchedule `json:"schedule_by_day"`
}

// Preferable reports whether the schedule is relevant to the evaluation year and has per-day hours
func (s *Schedule) Preferable() bool {
	return s != nil && s.CurrentYearIncluded && s.HasScheduleByDay
}
