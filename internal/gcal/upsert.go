package gcal

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"sigacal/internal/ical"
	"sigacal/internal/log"
	"sigacal/internal/model"
)

// DefaultCalendarID targets the account's primary calendar.
const DefaultCalendarID = "primary"

// CallError reports a remote API failure for a single event that was not
// an explicit "not found".
type CallError struct {
	UID string
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("gcal: upsert of %s failed: %v", e.UID, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// EventKey derives the stable Google event ID from a UID. sha1 hex plus
// the fixed prefix keeps the ID inside the service's identifier charset
// and length limits, and identical UIDs always map to the same key, which
// is what makes repeated runs idempotent.
func EventKey(uid string) string {
	sum := sha1.Sum([]byte(uid))
	return "inacap-" + hex.EncodeToString(sum[:])
}

// EventsAPI is the slice of the Calendar API the syncer consumes. Tests
// substitute a fake; production wraps *calendar.Service.
type EventsAPI interface {
	Update(ctx context.Context, calendarID, eventID string, ev *calendar.Event) error
	Insert(ctx context.Context, calendarID string, ev *calendar.Event) error
}

// googleEvents adapts *calendar.Service to EventsAPI.
type googleEvents struct {
	svc *calendar.Service
}

func (g *googleEvents) Update(ctx context.Context, calendarID, eventID string, ev *calendar.Event) error {
	_, err := g.svc.Events.Update(calendarID, eventID, ev).Context(ctx).Do()
	return err
}

func (g *googleEvents) Insert(ctx context.Context, calendarID string, ev *calendar.Event) error {
	_, err := g.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
	return err
}

// Syncer mirrors a deduplicated event batch into one Google calendar.
type Syncer struct {
	api        EventsAPI
	calendarID string
}

// NewSyncer wraps an authenticated Calendar service.
func NewSyncer(svc *calendar.Service, calendarID string) *Syncer {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &Syncer{api: &googleEvents{svc: svc}, calendarID: calendarID}
}

// NewSyncerWithAPI is the test seam.
func NewSyncerWithAPI(api EventsAPI, calendarID string) *Syncer {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &Syncer{api: api, calendarID: calendarID}
}

// Push upserts every event, in the same sequence order the UIDs were
// assigned in. Update runs first; only an explicit HTTP 404 falls back to
// Insert with the same ID — any other failure surfaces as *CallError
// instead of being masked as "does not exist".
func (s *Syncer) Push(ctx context.Context, events []model.CalendarEvent) (created, updated int, err error) {
	for _, ev := range events {
		id := EventKey(ev.UID)
		body := eventBody(id, ev)

		uerr := s.api.Update(ctx, s.calendarID, id, body)
		if uerr == nil {
			updated++
			log.Info("event updated", "summary", ev.Title, "date", ev.Date.Format("2006-01-02"), "start", ev.Start.String())
			continue
		}

		if !isNotFound(uerr) {
			return created, updated, &CallError{UID: ev.UID, Err: uerr}
		}

		if ierr := s.api.Insert(ctx, s.calendarID, body); ierr != nil {
			return created, updated, &CallError{UID: ev.UID, Err: ierr}
		}
		created++
		log.Info("event created", "summary", ev.Title, "date", ev.Date.Format("2006-01-02"), "start", ev.Start.String())
	}

	log.Info("calendar sync completed", "calendar_id", s.calendarID, "created", created, "updated", updated)
	return created, updated, nil
}

// eventBody builds the API payload: local wall time plus the named
// timezone, matching the ICS output (the service resolves the offset).
func eventBody(id string, ev model.CalendarEvent) *calendar.Event {
	day := ev.Date.Format("2006-01-02")
	return &calendar.Event{
		Id:          id,
		Summary:     ev.Title,
		Description: ev.Description,
		Start: &calendar.EventDateTime{
			DateTime: day + "T" + ev.Start.String() + ":00",
			TimeZone: ical.TZID,
		},
		End: &calendar.EventDateTime{
			DateTime: day + "T" + ev.End.String() + ":00",
			TimeZone: ical.TZID,
		},
	}
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 404
}
