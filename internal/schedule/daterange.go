package schedule

import (
	"regexp"
	"strconv"
	"strings"

	"sigacal/internal/model"
)

// months maps the three-letter Spanish abbreviations shown by SIGA to
// month numbers. Matching is case-insensitive with an optional trailing
// period ("ago." and "ago" are both valid).
var months = map[string]int{
	"ene": 1, "feb": 2, "mar": 3, "abr": 4, "may": 5, "jun": 6,
	"jul": 7, "ago": 8, "sep": 9, "oct": 10, "nov": 11, "dic": 12,
}

// rangePattern matches labels like "04 - 09 ago. 2025" with flexible
// whitespace around the dash.
var rangePattern = regexp.MustCompile(`(\d{1,2})\s*-\s*(\d{1,2})\s+([a-zñ.]+)\.?\s+(\d{4})`)

// ParseWeekRange parses the weekly range label into its day bounds and the
// (month, year) anchor used to resolve per-cell day numbers into dates.
//
// Returns *FormatError when the label does not match the grammar (this
// includes empty input) and *UnknownMonthError when the month abbreviation
// is not recognized.
func ParseWeekRange(label string) (model.WeekLabel, error) {
	txt := strings.ToLower(strings.TrimSpace(label))

	m := rangePattern.FindStringSubmatch(txt)
	if m == nil {
		return model.WeekLabel{}, &FormatError{Input: label, Reason: "could not read week range from label"}
	}

	monthTxt := strings.ReplaceAll(m[3], ".", "")
	month, ok := months[monthTxt]
	if !ok {
		return model.WeekLabel{}, &UnknownMonthError{Month: monthTxt}
	}

	// The regex guarantees 1-2 and 4 digit groups.
	d1, _ := strconv.Atoi(m[1])
	d2, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[4])

	return model.WeekLabel{DayStart: d1, DayEnd: d2, Month: month, Year: year}, nil
}
