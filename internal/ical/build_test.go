package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"sigacal/internal/model"
)

func sampleEvents() []model.CalendarEvent {
	raw := []model.RawEvent{
		{
			Date:        time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC),
			Start:       model.ClockTime{Hour: 8},
			End:         model.ClockTime{Hour: 9, Minute: 30},
			Title:       "Cálculo I",
			Description: "Cálculo I / Sala 301 - Prof. Pérez",
		},
		{
			Date:        time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC),
			Start:       model.ClockTime{Hour: 10},
			End:         model.ClockTime{Hour: 11, Minute: 30},
			Title:       "Física II",
			Description: "Física II / Sala 105\ncon ayudantía",
		},
	}
	return model.AssignUIDs(raw)
}

func TestBuildDocumentShape(t *testing.T) {
	now := time.Date(2025, time.August, 10, 15, 4, 5, 0, time.UTC)
	data := Build(sampleEvents(), "", now)
	doc := string(data)

	require.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\n"))
	require.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))

	// CRLF throughout: no bare LF anywhere.
	require.NotContains(t, strings.ReplaceAll(doc, "\r\n", ""), "\n")

	require.Equal(t, 1, strings.Count(doc, "BEGIN:VTIMEZONE"))
	require.Equal(t, 2, strings.Count(doc, "BEGIN:VEVENT"))

	require.Contains(t, doc, "X-WR-CALNAME:"+DefaultCalendarName+"\r\n")
	require.Contains(t, doc, "X-WR-TIMEZONE:America/Santiago\r\n")
	require.Contains(t, doc, "UID:inacap-20250804-0800-1@siga\r\n")
	require.Contains(t, doc, "UID:inacap-20250805-1000-2@siga\r\n")
	require.Contains(t, doc, "DTSTAMP:20250810T150405Z\r\n")
	require.Contains(t, doc, "DTSTART;TZID=America/Santiago:20250804T080000\r\n")
	require.Contains(t, doc, "DTEND;TZID=America/Santiago:20250804T093000\r\n")

	// Literal newlines in descriptions are escaped.
	require.Contains(t, doc, `DESCRIPTION:Física II / Sala 105\ncon ayudantía`)
}

func TestBuildRoundTrip(t *testing.T) {
	events := sampleEvents()
	data := Build(events, "Horario", time.Now())

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	require.NoError(t, err)

	parsed := cal.Events()
	require.Len(t, parsed, len(events))

	for i, ve := range parsed {
		uid := ve.GetProperty(ics.ComponentPropertyUniqueId)
		require.NotNil(t, uid)
		require.Equal(t, events[i].UID, uid.Value)

		dtstart := ve.GetProperty(ics.ComponentPropertyDtStart)
		require.NotNil(t, dtstart)
		day := events[i].Date.Format("20060102")
		require.Equal(t, day+"T"+events[i].Start.Compact()+"00", dtstart.Value)
		require.Equal(t, []string{TZID}, dtstart.ICalParameters["TZID"])

		dtend := ve.GetProperty(ics.ComponentPropertyDtEnd)
		require.NotNil(t, dtend)
		require.Equal(t, day+"T"+events[i].End.Compact()+"00", dtend.Value)
	}
}

func TestBuildVerify(t *testing.T) {
	events := sampleEvents()
	data := Build(events, "", time.Now())

	require.NoError(t, Verify(data, len(events)))
	require.Error(t, Verify(data, len(events)+1))
	require.Error(t, Verify([]byte("not a calendar"), 0))
}

func TestBuildEmpty(t *testing.T) {
	data := Build(nil, "", time.Now())
	require.NoError(t, Verify(data, 0))
	require.Equal(t, 1, strings.Count(string(data), "BEGIN:VTIMEZONE"))
}

// The VTIMEZONE transition rules must land on the fourth Sunday of April
// and the first Sunday of September.
func TestTimezoneTransitionRules(t *testing.T) {
	standard, err := rrule.StrToRRule("FREQ=YEARLY;BYMONTH=4;BYDAY=4SU")
	require.NoError(t, err)
	standard.DTStart(time.Date(1970, time.April, 26, 0, 0, 0, 0, time.UTC))

	occs := standard.Between(
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		true,
	)
	require.Len(t, occs, 1)
	require.Equal(t, time.Date(2025, time.April, 27, 0, 0, 0, 0, time.UTC), occs[0])

	daylight, err := rrule.StrToRRule("FREQ=YEARLY;BYMONTH=9;BYDAY=1SU")
	require.NoError(t, err)
	daylight.DTStart(time.Date(1970, time.September, 6, 0, 0, 0, 0, time.UTC))

	occs = daylight.Between(
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		true,
	)
	require.Len(t, occs, 1)
	require.Equal(t, time.Date(2025, time.September, 7, 0, 0, 0, 0, time.UTC), occs[0])
}
