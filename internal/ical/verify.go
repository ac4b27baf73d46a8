package ical

import (
	"bytes"
	"fmt"

	ical "github.com/arran4/golang-ical"
)

// Verify re-parses a built calendar document and checks its basic shape:
// it must parse, contain exactly the expected number of VEVENTs, and every
// VEVENT must carry UID, DTSTART and DTEND. Run after writing the output
// file so a malformed document is caught in the same run that produced it.
func Verify(data []byte, wantEvents int) error {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("ical: built document does not parse: %w", err)
	}

	events := cal.Events()
	if len(events) != wantEvents {
		return fmt.Errorf("ical: built document has %d events, want %d", len(events), wantEvents)
	}

	for _, ve := range events {
		uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
		if uid == nil || uid.Value == "" {
			return fmt.Errorf("ical: event without UID in built document")
		}
		if ve.GetProperty(ical.ComponentPropertyDtStart) == nil {
			return fmt.Errorf("ical: event %s missing DTSTART", uid.Value)
		}
		if ve.GetProperty(ical.ComponentPropertyDtEnd) == nil {
			return fmt.Errorf("ical: event %s missing DTEND", uid.Value)
		}
	}

	return nil
}
