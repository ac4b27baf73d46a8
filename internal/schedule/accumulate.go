package schedule

import "sigacal/internal/model"

// Accumulator merges raw events across weekly snapshots and collapses
// duplicates by identity. Insertion order is preserved; a duplicate
// replaces the stored event in place (last write wins, which is
// observationally a no-op since identity covers every visible field).
type Accumulator struct {
	order []string
	byKey map[string]model.RawEvent
}

func NewAccumulator() *Accumulator {
	return &Accumulator{byKey: make(map[string]model.RawEvent)}
}

// Add merges one week's events into the accumulator.
func (a *Accumulator) Add(events []model.RawEvent) {
	for _, ev := range events {
		key := ev.Identity()
		if _, seen := a.byKey[key]; !seen {
			a.order = append(a.order, key)
		}
		a.byKey[key] = ev
	}
}

// Len reports the number of distinct events accumulated so far.
func (a *Accumulator) Len() int {
	return len(a.order)
}

// Events returns the deduplicated events in insertion order. This order
// is what the UID sequence counter and the calendar document iterate in.
func (a *Accumulator) Events() []model.RawEvent {
	out := make([]model.RawEvent, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.byKey[key])
	}
	return out
}
