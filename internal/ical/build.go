package ical

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"sigacal/internal/model"
)

// TZID is the fixed display timezone of the generated calendar. Event
// times are written as local wall clock exactly as read from SIGA; the
// VTIMEZONE block supplies the UTC offset.
const TZID = "America/Santiago"

const (
	prodID              = "-//INACAP->GoogleCalendar//ES"
	DefaultCalendarName = "Horario INACAP"
)

// vtimezone encodes the two annual Chilean DST transitions: standard time
// (-04:00) starts the fourth Sunday of April, daylight time (-03:00) the
// first Sunday of September.
const vtimezone = "BEGIN:VTIMEZONE\r\n" +
	"TZID:" + TZID + "\r\n" +
	"X-LIC-LOCATION:" + TZID + "\r\n" +
	"BEGIN:STANDARD\r\n" +
	"TZOFFSETFROM:-0300\r\n" +
	"TZOFFSETTO:-0400\r\n" +
	"TZNAME:-04\r\n" +
	"DTSTART:19700426T000000\r\n" +
	"RRULE:FREQ=YEARLY;BYMONTH=4;BYDAY=4SU\r\n" +
	"END:STANDARD\r\n" +
	"BEGIN:DAYLIGHT\r\n" +
	"TZOFFSETFROM:-0400\r\n" +
	"TZOFFSETTO:-0300\r\n" +
	"TZNAME:-03\r\n" +
	"DTSTART:19700906T000000\r\n" +
	"RRULE:FREQ=YEARLY;BYMONTH=9;BYDAY=1SU\r\n" +
	"END:DAYLIGHT\r\n" +
	"END:VTIMEZONE\r\n"

// Build renders the full calendar document with CRLF line endings: one
// VCALENDAR wrapping the VTIMEZONE block and one VEVENT per event. now is
// the DTSTAMP generation instant (converted to UTC here).
func Build(events []model.CalendarEvent, name string, now time.Time) []byte {
	if name == "" {
		name = DefaultCalendarName
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("PRODID:" + prodID + "\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")
	b.WriteString("X-WR-CALNAME:" + name + "\r\n")
	b.WriteString("X-WR-TIMEZONE:" + TZID + "\r\n")
	b.WriteString(vtimezone)

	dtstamp := now.UTC().Format("20060102T150405Z")
	for i, ev := range events {
		if i > 0 {
			b.WriteString("\r\n")
		}
		writeVEvent(&b, ev, dtstamp)
	}
	if len(events) > 0 {
		b.WriteString("\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String())
}

func writeVEvent(b *strings.Builder, ev model.CalendarEvent, dtstamp string) {
	day := ev.Date.Format("20060102")

	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString("UID:" + ev.UID + "\r\n")
	b.WriteString("DTSTAMP:" + dtstamp + "\r\n")
	b.WriteString("DTSTART;TZID=" + TZID + ":" + day + "T" + ev.Start.Compact() + "00\r\n")
	b.WriteString("DTEND;TZID=" + TZID + ":" + day + "T" + ev.End.Compact() + "00\r\n")
	b.WriteString("SUMMARY:" + flattenNewlines(ev.Title) + "\r\n")
	b.WriteString("DESCRIPTION:" + escapeNewlines(ev.Description) + "\r\n")
	b.WriteString("END:VEVENT")
}

// flattenNewlines makes the summary a single line.
func flattenNewlines(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// escapeNewlines escapes literal newlines in the description per the
// iCalendar text grammar.
func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// WriteFile writes the document, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
