package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"petpal/model"
)

// memoryEventStore is an in-memory EventStore used to test the series
// mutation logic without a Firestore backend.
type memoryEventStore struct {
	seq    int
	events map[string]map[string]model.Event
}

func newMemoryEventStore() *memoryEventStore {
	return &memoryEventStore{events: make(map[string]map[string]model.Event)}
}

func (s *memoryEventStore) ListEvents(_ context.Context, userID string) ([]model.Event, error) {
	out := make([]model.Event, 0, len(s.events[userID]))
	for _, ev := range s.events[userID] {
		out = append(out, ev)
	}
	return out, nil
}

func (s *memoryEventStore) GetEvent(_ context.Context, userID, eventID string) (model.Event, error) {
	ev, ok := s.events[userID][eventID]
	if !ok {
		return model.Event{}, ErrEventNotFound
	}
	return ev, nil
}

func (s *memoryEventStore) CreateEvent(_ context.Context, userID string, ev model.Event) (string, error) {
	s.seq++
	ev.EventID = fmt.Sprintf("ev-%d", s.seq)
	if s.events[userID] == nil {
		s.events[userID] = make(map[string]model.Event)
	}
	s.events[userID][ev.EventID] = ev
	return ev.EventID, nil
}

func (s *memoryEventStore) UpdateEvent(_ context.Context, userID, eventID string, fields map[string]interface{}) error {
	ev, ok := s.events[userID][eventID]
	if !ok {
		return ErrEventNotFound
	}
	applyFields(&ev, fields)
	s.events[userID][eventID] = ev
	return nil
}

func (s *memoryEventStore) DeleteEvent(_ context.Context, userID, eventID string) error {
	delete(s.events[userID], eventID)
	return nil
}

func (s *memoryEventStore) SplitSeries(ctx context.Context, userID, eventID string, fields map[string]interface{}, detached model.Event) (string, error) {
	if _, ok := s.events[userID][eventID]; !ok {
		return "", ErrEventNotFound
	}
	if err := s.UpdateEvent(ctx, userID, eventID, fields); err != nil {
		return "", err
	}
	return s.CreateEvent(ctx, userID, detached)
}

func applyFields(ev *model.Event, fields map[string]interface{}) {
	for path, value := range fields {
		switch path {
		case "title":
			ev.Title = value.(string)
		case "date":
			ev.Date = value.(string)
		case "time":
			ev.Time = value.(model.EventTime)
		case "notes":
			ev.Notes = value.(string)
		case "relatedpets":
			ev.RelatedPets = value.([]string)
		case "appointment":
			ev.Appointment = value.(bool)
		case "recurrence":
			ev.Recurrence = value.(string)
		case "enddate":
			if value == nil {
				ev.EndDate = ""
			} else {
				ev.EndDate = value.(string)
			}
		case "exceptions":
			ev.Exceptions = value.([]string)
		case "read":
			ev.Read = value.(bool)
		}
	}
}

func seedWeeklySeries(t *testing.T, store *memoryEventStore) model.Event {
	t.Helper()
	mutator := NewSeriesMutator(store)
	id, err := mutator.AddEvent(context.Background(), "user-1", EventFields{
		Title:      "Flea treatment",
		Date:       "2025-04-01",
		Time:       model.EventTime{Hours: 9, Minutes: 0},
		Recurrence: "weekly",
		EndDate:    "2025-04-29",
	})
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	ev, err := store.GetEvent(context.Background(), "user-1", id)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	return ev
}

func TestAddEventDefaults(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)

	id, err := mutator.AddEvent(context.Background(), "user-1", EventFields{
		Date: "2025-04-01",
		Time: model.EventTime{Hours: 10, Minutes: 30},
	})
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}

	ev, err := store.GetEvent(context.Background(), "user-1", id)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if ev.Title != "Untitled Event" {
		t.Errorf("blank title defaulted to %q, want %q", ev.Title, "Untitled Event")
	}
	if ev.Recurrence != "none" {
		t.Errorf("recurrence = %q, want none", ev.Recurrence)
	}
	if ev.Exceptions == nil || len(ev.Exceptions) != 0 {
		t.Errorf("exceptions = %v, want empty list", ev.Exceptions)
	}
	if ev.Read {
		t.Error("new event should start unread")
	}
}

func TestAddEventValidation(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ctx := context.Background()

	tests := []struct {
		name   string
		fields EventFields
		want   error
	}{
		{"bad date format", EventFields{Date: "04/01/2025"}, ErrInvalidDate},
		{"impossible date", EventFields{Date: "2025-02-31"}, ErrInvalidDate},
		{"bad hours", EventFields{Date: "2025-04-01", Time: model.EventTime{Hours: 24}}, ErrInvalidTime},
		{"bad minutes", EventFields{Date: "2025-04-01", Time: model.EventTime{Minutes: 60}}, ErrInvalidTime},
	}
	for _, tt := range tests {
		if _, err := mutator.AddEvent(ctx, "user-1", tt.fields); !errors.Is(err, tt.want) {
			t.Errorf("%s: AddEvent err = %v, want %v", tt.name, err, tt.want)
		}
	}
	if events, _ := store.ListEvents(ctx, "user-1"); len(events) != 0 {
		t.Errorf("rejected writes must not leave state, found %d events", len(events))
	}
}

func TestUpdateEntireSeries(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ctx := context.Background()
	ev := seedWeeklySeries(t, store)

	err := mutator.UpdateEntireSeries(ctx, "user-1", ev.EventID, EventFields{
		Title:      "Tick treatment",
		Date:       "2025-04-01",
		Time:       model.EventTime{Hours: 8, Minutes: 15},
		Recurrence: "weekly",
		EndDate:    "2025-04-29",
	})
	if err != nil {
		t.Fatalf("UpdateEntireSeries: %v", err)
	}

	got, _ := store.GetEvent(ctx, "user-1", ev.EventID)
	if got.Title != "Tick treatment" || got.Time.Hours != 8 {
		t.Errorf("series not overwritten: %+v", got)
	}
}

func TestUpdateOneOccurrence(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ctx := context.Background()
	ev := seedWeeklySeries(t, store)

	newID, err := mutator.UpdateOneOccurrence(ctx, "user-1", ev, "2025-04-15", EventFields{
		Title: "Flea treatment (moved clinic)",
		Time:  model.EventTime{Hours: 14, Minutes: 0},
	})
	if err != nil {
		t.Fatalf("UpdateOneOccurrence: %v", err)
	}

	original, _ := store.GetEvent(ctx, "user-1", ev.EventID)
	if !containsDate(original.Exceptions, "2025-04-15") {
		t.Errorf("original exceptions = %v, want to include 2025-04-15", original.Exceptions)
	}
	if containsDate(ExpandEvent(original), "2025-04-15") {
		t.Error("original series still produces the detached date")
	}

	detached, err := store.GetEvent(ctx, "user-1", newID)
	if err != nil {
		t.Fatalf("detached event missing: %v", err)
	}
	if detached.Recurrence != "none" {
		t.Errorf("detached recurrence = %q, want none", detached.Recurrence)
	}
	if detached.Date != "2025-04-15" {
		t.Errorf("detached date = %q, want 2025-04-15", detached.Date)
	}
	if detached.EndDate != "" {
		t.Errorf("detached end date = %q, want empty", detached.EndDate)
	}
	if len(detached.Exceptions) != 0 {
		t.Errorf("detached exceptions = %v, want empty", detached.Exceptions)
	}
}

func TestUpdateOneOccurrenceRejectsNonOccurrence(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ev := seedWeeklySeries(t, store)

	_, err := mutator.UpdateOneOccurrence(context.Background(), "user-1", ev, "2025-04-16", EventFields{})
	if !errors.Is(err, ErrNotAnOccurrence) {
		t.Fatalf("err = %v, want ErrNotAnOccurrence", err)
	}
}

func TestUpdateFutureOccurrences(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ctx := context.Background()
	ev := seedWeeklySeries(t, store)

	newID, err := mutator.UpdateFutureOccurrences(ctx, "user-1", ev, "2025-04-15", EventFields{
		Title:      "Flea treatment",
		Time:       model.EventTime{Hours: 16, Minutes: 30},
		Recurrence: "weekly",
		EndDate:    "2025-05-13",
	})
	if err != nil {
		t.Fatalf("UpdateFutureOccurrences: %v", err)
	}

	original, _ := store.GetEvent(ctx, "user-1", ev.EventID)
	if original.EndDate != "2025-04-14" {
		t.Errorf("original end date = %q, want 2025-04-14", original.EndDate)
	}
	wantOriginal := []string{"2025-04-01", "2025-04-08"}
	if got := ExpandEvent(original); !equalDates(got, wantOriginal) {
		t.Errorf("truncated series = %v, want %v", got, wantOriginal)
	}

	continued, _ := store.GetEvent(ctx, "user-1", newID)
	wantContinued := []string{"2025-04-15", "2025-04-22", "2025-04-29", "2025-05-06", "2025-05-13"}
	if got := ExpandEvent(continued); !equalDates(got, wantContinued) {
		t.Errorf("continued series = %v, want %v", got, wantContinued)
	}
	if continued.Time.Hours != 16 {
		t.Errorf("continued series kept old time: %+v", continued.Time)
	}
}

func TestDeleteOneOccurrence(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ctx := context.Background()
	ev := seedWeeklySeries(t, store)

	if err := mutator.DeleteOneOccurrence(ctx, "user-1", ev, "2025-04-08"); err != nil {
		t.Fatalf("DeleteOneOccurrence: %v", err)
	}

	got, _ := store.GetEvent(ctx, "user-1", ev.EventID)
	want := []string{"2025-04-01", "2025-04-15", "2025-04-22", "2025-04-29"}
	if dates := ExpandEvent(got); !equalDates(dates, want) {
		t.Errorf("series after delete = %v, want %v", dates, want)
	}
}

func TestDeleteOneOccurrenceLastRemainingDeletesDocument(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ctx := context.Background()

	id, err := mutator.AddEvent(ctx, "user-1", EventFields{Date: "2025-04-01", Title: "Vaccination"})
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	ev, _ := store.GetEvent(ctx, "user-1", id)

	if err := mutator.DeleteOneOccurrence(ctx, "user-1", ev, "2025-04-01"); err != nil {
		t.Fatalf("DeleteOneOccurrence: %v", err)
	}
	if _, err := store.GetEvent(ctx, "user-1", id); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("excepting away the only occurrence should delete the document, err = %v", err)
	}
}

func TestDeleteFutureOccurrencesMidSeries(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ctx := context.Background()
	ev := seedWeeklySeries(t, store)

	if err := mutator.DeleteFutureOccurrences(ctx, "user-1", ev, "2025-04-15"); err != nil {
		t.Fatalf("DeleteFutureOccurrences: %v", err)
	}

	got, _ := store.GetEvent(ctx, "user-1", ev.EventID)
	if got.EndDate != "2025-04-14" {
		t.Errorf("end date = %q, want 2025-04-14", got.EndDate)
	}
	for _, d := range []string{"2025-04-15", "2025-04-22", "2025-04-29"} {
		if !containsDate(got.Exceptions, d) {
			t.Errorf("exceptions %v missing removed date %s", got.Exceptions, d)
		}
	}
	want := []string{"2025-04-01", "2025-04-08"}
	if dates := ExpandEvent(got); !equalDates(dates, want) {
		t.Errorf("series after delete = %v, want %v", dates, want)
	}
}

func TestDeleteFutureOccurrencesBeforeFirstDeletesDocument(t *testing.T) {
	store := newMemoryEventStore()
	mutator := NewSeriesMutator(store)
	ctx := context.Background()
	ev := seedWeeklySeries(t, store)

	if err := mutator.DeleteFutureOccurrences(ctx, "user-1", ev, "2025-03-01"); err != nil {
		t.Fatalf("DeleteFutureOccurrences: %v", err)
	}
	if _, err := store.GetEvent(ctx, "user-1", ev.EventID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("series with no surviving occurrences should be deleted, err = %v", err)
	}
}

func equalDates(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
