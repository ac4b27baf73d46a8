package model

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day with zero seconds. Schedule blocks
// in SIGA carry no timezone; the timezone is attached only when the
// calendar document is built.
type ClockTime struct {
	Hour   int
	Minute int
}

// String renders the time as "HH:MM", the form used in dedup keys.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Compact renders the time as "HHMM" for UID construction.
func (c ClockTime) Compact() string {
	return fmt.Sprintf("%02d%02d", c.Hour, c.Minute)
}

// WeekLabel is the parsed form of a weekly range label such as
// "04 - 09 ago. 2025". Only Month and Year are consulted downstream;
// day-of-month numbers found in column headers are trusted as-is and
// combined with the label's month/year.
type WeekLabel struct {
	DayStart int
	DayEnd   int
	Month    int // 1-12
	Year     int
}

// Date resolves a day-of-month number against the label's month/year.
func (w WeekLabel) Date(day int) time.Time {
	return time.Date(w.Year, time.Month(w.Month), day, 0, 0, 0, 0, time.UTC)
}

// RawEvent is one extracted schedule entry: a date, a time window, and the
// cleaned cell text. Title is the first " / "-delimited segment of the
// cell text; Description is the full cleaned text.
type RawEvent struct {
	Date        time.Time // date only; time components are zero
	Start       ClockTime
	End         ClockTime
	Title       string
	Description string
}

// Identity returns the dedup key for the event. Two events with the same
// identity are the same logical event regardless of which weekly snapshot
// or layout variant produced them.
func (e RawEvent) Identity() string {
	return e.Date.Format("2006-01-02") + "|" + e.Start.String() + "|" + e.End.String() + "|" + e.Title + "|" + e.Description
}

// CalendarEvent is a RawEvent plus the stable UID assigned at
// serialization time. The 1-based sequence counter is scoped to the whole
// run so that repeated runs over an unchanged schedule produce identical
// UIDs, which the Google Calendar adapter relies on for idempotent upsert.
type CalendarEvent struct {
	RawEvent
	Seq int
	UID string
}

// NewCalendarEvent assigns the run-scoped UID for the given 1-based
// sequence number.
func NewCalendarEvent(ev RawEvent, seq int) CalendarEvent {
	uid := fmt.Sprintf("inacap-%s-%s-%d@siga", ev.Date.Format("20060102"), ev.Start.Compact(), seq)
	return CalendarEvent{RawEvent: ev, Seq: seq, UID: uid}
}
