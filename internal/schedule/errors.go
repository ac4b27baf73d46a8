package schedule

import "fmt"

// FormatError reports input that does not match an expected textual
// pattern (weekly range label, time block).
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("schedule: %s: %q", e.Reason, e.Input)
}

// UnknownMonthError reports a month abbreviation that is not in the
// Spanish month table.
type UnknownMonthError struct {
	Month string
}

func (e *UnknownMonthError) Error() string {
	return fmt.Sprintf("schedule: unknown month abbreviation %q", e.Month)
}
