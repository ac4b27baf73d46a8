package model

import (
	"testing"
	"time"
)

func sample() RawEvent {
	return RawEvent{
		Date:        time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC),
		Start:       ClockTime{Hour: 8},
		End:         ClockTime{Hour: 9, Minute: 30},
		Title:       "Cálculo I",
		Description: "Cálculo I / Sala 301 - Prof. Pérez",
	}
}

func TestIdentityEncodesAllVisibleFields(t *testing.T) {
	base := sample()

	variants := []func(*RawEvent){
		func(e *RawEvent) { e.Date = e.Date.AddDate(0, 0, 1) },
		func(e *RawEvent) { e.Start = ClockTime{Hour: 9} },
		func(e *RawEvent) { e.End = ClockTime{Hour: 10} },
		func(e *RawEvent) { e.Title = "Física II" },
		func(e *RawEvent) { e.Description = "otra sala" },
	}

	for i, mutate := range variants {
		ev := sample()
		mutate(&ev)
		if ev.Identity() == base.Identity() {
			t.Errorf("variant %d: identity did not change", i)
		}
	}

	if sample().Identity() != base.Identity() {
		t.Error("identical events must share identity")
	}
}

func TestClockTimeFormatting(t *testing.T) {
	c := ClockTime{Hour: 8, Minute: 5}
	if c.String() != "08:05" {
		t.Errorf("String() = %q", c.String())
	}
	if c.Compact() != "0805" {
		t.Errorf("Compact() = %q", c.Compact())
	}
}

func TestAssignUIDs(t *testing.T) {
	a := sample()
	b := sample()
	b.Date = time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC)
	b.Start = ClockTime{Hour: 10}

	events := AssignUIDs([]RawEvent{a, b})
	if len(events) != 2 {
		t.Fatalf("len = %d", len(events))
	}
	if events[0].UID != "inacap-20250804-0800-1@siga" {
		t.Errorf("UID = %q", events[0].UID)
	}
	if events[1].UID != "inacap-20250805-1000-2@siga" {
		t.Errorf("UID = %q", events[1].UID)
	}
	if events[0].Seq != 1 || events[1].Seq != 2 {
		t.Errorf("sequence counters wrong: %d, %d", events[0].Seq, events[1].Seq)
	}

	// Same input, same run order: identical UIDs across repeated runs.
	again := AssignUIDs([]RawEvent{a, b})
	if again[0].UID != events[0].UID || again[1].UID != events[1].UID {
		t.Error("UID assignment is not deterministic")
	}
}
