package schedule

import (
	"regexp"
	"strconv"

	"sigacal/internal/model"
)

// timeBlockPattern matches the leading "HH:MM - HH:MM" of a schedule row.
// Trailing text after the window is ignored by callers, not validated
// here.
var timeBlockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

// ParseTimeBlock parses a "HH:MM - HH:MM" span into start/end wall-clock
// times with zero seconds. The portal displays 24-hour times; beyond the
// integer parse there is no bound validation, and start < end is not
// enforced (equal or cross-midnight spans pass through as-is).
func ParseTimeBlock(s string) (start, end model.ClockTime, err error) {
	m := timeBlockPattern.FindStringSubmatch(s)
	if m == nil {
		return model.ClockTime{}, model.ClockTime{}, &FormatError{Input: s, Reason: "not a HH:MM - HH:MM block"}
	}

	sh, _ := strconv.Atoi(m[1])
	sm, _ := strconv.Atoi(m[2])
	eh, _ := strconv.Atoi(m[3])
	em, _ := strconv.Atoi(m[4])

	return model.ClockTime{Hour: sh, Minute: sm}, model.ClockTime{Hour: eh, Minute: em}, nil
}
