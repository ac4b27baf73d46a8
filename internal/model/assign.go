package model

// AssignUIDs assigns the run-scoped 1-based sequence counter over the
// deduplicated events. The calendar document builder and the Google
// Calendar adapter both consume this slice so their UIDs agree, which is
// what makes repeated runs idempotent against the remote calendar.
func AssignUIDs(events []RawEvent) []CalendarEvent {
	out := make([]CalendarEvent, 0, len(events))
	for i, ev := range events {
		out = append(out, NewCalendarEvent(ev, i+1))
	}
	return out
}
