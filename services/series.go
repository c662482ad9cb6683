package services

import (
	"context"
	"errors"
	"regexp"

	"petpal/model"
)

var (
	ErrInvalidDate     = errors.New("date must be a valid YYYY-MM-DD date")
	ErrInvalidTime     = errors.New("time must have hours 0-23 and minutes 0-59")
	ErrNotAnOccurrence = errors.New("date is not an occurrence of this series")
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const defaultTitle = "Untitled Event"

// EventFields carries the mutable fields of an event as submitted by the
// editing screen. Writes overwrite these fields wholesale.
type EventFields struct {
	Title       string
	Date        string
	Time        model.EventTime
	Notes       string
	RelatedPets []string
	Appointment bool
	Recurrence  string
	EndDate     string
	Exceptions  []string
}

// SeriesMutator translates edit/delete intents on a series into event store
// writes. The three update scopes and three delete scopes all live here;
// callers collapse "single"/"future" to "all" for non-recurring events.
type SeriesMutator struct {
	store EventStore
}

func NewSeriesMutator(store EventStore) *SeriesMutator {
	return &SeriesMutator{store: store}
}

func validateFields(f *EventFields) error {
	if !dateFormat.MatchString(f.Date) {
		return ErrInvalidDate
	}
	if _, ok := parseDate(f.Date); !ok {
		return ErrInvalidDate
	}
	if f.Time.Hours < 0 || f.Time.Hours > 23 || f.Time.Minutes < 0 || f.Time.Minutes > 59 {
		return ErrInvalidTime
	}
	if f.Title == "" {
		f.Title = defaultTitle
	}
	if f.Recurrence == "" {
		f.Recurrence = "none"
	}
	return nil
}

func (f EventFields) updateMap() map[string]interface{} {
	exceptions := f.Exceptions
	if exceptions == nil {
		exceptions = []string{}
	}
	relatedPets := f.RelatedPets
	if relatedPets == nil {
		relatedPets = []string{}
	}
	m := map[string]interface{}{
		"title":       f.Title,
		"date":        f.Date,
		"time":        f.Time,
		"notes":       f.Notes,
		"relatedpets": relatedPets,
		"appointment": f.Appointment,
		"recurrence":  f.Recurrence,
		"exceptions":  exceptions,
	}
	if f.EndDate != "" {
		m["enddate"] = f.EndDate
	} else {
		m["enddate"] = nil
	}
	return m
}

// AddEvent validates and persists a new event document. Blank titles are
// defaulted, the exception list starts empty, and the notification-read flag
// starts false.
func (m *SeriesMutator) AddEvent(ctx context.Context, userID string, f EventFields) (string, error) {
	if err := validateFields(&f); err != nil {
		return "", err
	}
	ev := model.Event{
		Title:       f.Title,
		Date:        f.Date,
		Time:        f.Time,
		Notes:       f.Notes,
		RelatedPets: f.RelatedPets,
		Appointment: f.Appointment,
		Recurrence:  f.Recurrence,
		EndDate:     f.EndDate,
		Exceptions:  []string{},
		Read:        false,
	}
	return m.store.CreateEvent(ctx, userID, ev)
}

// UpdateEntireSeries overwrites the mutable fields of the stored document;
// every occurrence reflects the new fields on the next projection.
func (m *SeriesMutator) UpdateEntireSeries(ctx context.Context, userID, eventID string, f EventFields) error {
	if err := validateFields(&f); err != nil {
		return err
	}
	return m.store.UpdateEvent(ctx, userID, eventID, f.updateMap())
}

// UpdateOneOccurrence detaches a single occurrence: the date becomes an
// exception on the original series and a fresh non-recurring event covering
// that date is created, both in one transactional write.
func (m *SeriesMutator) UpdateOneOccurrence(ctx context.Context, userID string, ev model.Event, occurrenceDate string, f EventFields) (string, error) {
	if !containsDate(ExpandEvent(ev), occurrenceDate) {
		return "", ErrNotAnOccurrence
	}
	f.Date = occurrenceDate
	f.Recurrence = "none"
	f.EndDate = ""
	if err := validateFields(&f); err != nil {
		return "", err
	}

	fields := map[string]interface{}{
		"exceptions": appendDate(ev.Exceptions, occurrenceDate),
	}
	detached := model.Event{
		Title:       f.Title,
		Date:        occurrenceDate,
		Time:        f.Time,
		Notes:       f.Notes,
		RelatedPets: f.RelatedPets,
		Appointment: f.Appointment,
		Recurrence:  "none",
		Exceptions:  []string{},
		Read:        false,
	}
	return m.store.SplitSeries(ctx, userID, ev.EventID, fields, detached)
}

// UpdateFutureOccurrences truncates the original series to the day before
// occurrenceDate and starts a new series from occurrenceDate carrying the
// edited fields (including any new recurrence or end date).
func (m *SeriesMutator) UpdateFutureOccurrences(ctx context.Context, userID string, ev model.Event, occurrenceDate string, f EventFields) (string, error) {
	if !containsDate(ExpandEvent(ev), occurrenceDate) {
		return "", ErrNotAnOccurrence
	}
	f.Date = occurrenceDate
	if f.Recurrence == "" {
		f.Recurrence = ev.Recurrence
	}
	if err := validateFields(&f); err != nil {
		return "", err
	}

	fields := map[string]interface{}{
		"enddate": dayBefore(occurrenceDate),
	}
	continued := model.Event{
		Title:       f.Title,
		Date:        occurrenceDate,
		Time:        f.Time,
		Notes:       f.Notes,
		RelatedPets: f.RelatedPets,
		Appointment: f.Appointment,
		Recurrence:  f.Recurrence,
		EndDate:     f.EndDate,
		Exceptions:  []string{},
		Read:        false,
	}
	return m.store.SplitSeries(ctx, userID, ev.EventID, fields, continued)
}

func (m *SeriesMutator) DeleteEntireSeries(ctx context.Context, userID, eventID string) error {
	return m.store.DeleteEvent(ctx, userID, eventID)
}

// DeleteOneOccurrence excludes a single date from the series via the
// exception list. Excepting away the last remaining occurrence removes the
// document itself; a series with nothing left to show has no reason to stay.
func (m *SeriesMutator) DeleteOneOccurrence(ctx context.Context, userID string, ev model.Event, occurrenceDate string) error {
	dates := ExpandEvent(ev)
	if !containsDate(dates, occurrenceDate) {
		return ErrNotAnOccurrence
	}
	if len(dates) == 1 {
		return m.store.DeleteEvent(ctx, userID, ev.EventID)
	}
	return m.store.UpdateEvent(ctx, userID, ev.EventID, map[string]interface{}{
		"exceptions": appendDate(ev.Exceptions, occurrenceDate),
	})
}

// DeleteFutureOccurrences removes cutoffDate and everything after it. When
// no occurrence survives before the cutoff the whole document is deleted;
// otherwise the series is truncated to the day before the cutoff and the
// removed dates are recorded as exceptions.
func (m *SeriesMutator) DeleteFutureOccurrences(ctx context.Context, userID string, ev model.Event, cutoffDate string) error {
	if _, ok := parseDate(cutoffDate); !ok {
		return ErrInvalidDate
	}

	var remaining, removed []string
	for _, d := range ExpandEvent(ev) {
		if d < cutoffDate {
			remaining = append(remaining, d)
		} else {
			removed = append(removed, d)
		}
	}
	if len(remaining) == 0 {
		return m.store.DeleteEvent(ctx, userID, ev.EventID)
	}

	exceptions := ev.Exceptions
	if exceptions == nil {
		exceptions = []string{}
	}
	for _, d := range removed {
		exceptions = appendDate(exceptions, d)
	}
	return m.store.UpdateEvent(ctx, userID, ev.EventID, map[string]interface{}{
		"enddate":    dayBefore(cutoffDate),
		"exceptions": exceptions,
	})
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func appendDate(dates []string, date string) []string {
	if containsDate(dates, date) {
		return dates
	}
	out := make([]string, 0, len(dates)+1)
	out = append(out, dates...)
	return append(out, date)
}

func dayBefore(date string) string {
	t, _ := parseDate(date)
	return t.AddDate(0, 0, -1).Format(dateLayout)
}
