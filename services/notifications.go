package services

import (
	"context"
	"sort"
	"time"

	"petpal/model"
)

// Occurrences older than this fall out of the notifications inbox.
const notificationWindow = 14 * 24 * time.Hour

// NotificationsFeed turns the projected calendar into a recency-windowed
// inbox of past occurrences, most recent first.
type NotificationsFeed struct {
	store     EventStore
	projector *OccurrenceProjector
}

func NewNotificationsFeed(store EventStore, projector *OccurrenceProjector) *NotificationsFeed {
	return &NotificationsFeed{store: store, projector: projector}
}

// Recent projects the user's events, flattens the calendar view in date
// order, and applies the trailing-window filter.
func (f *NotificationsFeed) Recent(ctx context.Context, userID string, now time.Time) ([]model.Occurrence, error) {
	byDate, err := f.projector.Project(ctx, userID)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var flat []model.Occurrence
	for _, date := range dates {
		flat = append(flat, byDate[date]...)
	}
	return FilterRecent(flat, now), nil
}

// FilterRecent keeps occurrences whose date+time lies in the past within the
// trailing 14-day window and orders them most recent first. The sort is
// stable, so same-instant occurrences keep their input order. Items whose
// date does not parse are excluded.
func FilterRecent(items []model.Occurrence, now time.Time) []model.Occurrence {
	type timed struct {
		occ model.Occurrence
		at  time.Time
	}

	kept := make([]timed, 0, len(items))
	for _, occ := range items {
		at, ok := occurrenceTime(occ, now.Location())
		if !ok {
			continue
		}
		age := now.Sub(at)
		if age > 0 && age <= notificationWindow {
			kept = append(kept, timed{occ: occ, at: at})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].at.After(kept[j].at)
	})

	out := make([]model.Occurrence, len(kept))
	for i, k := range kept {
		out[i] = k.occ
	}
	return out
}

func occurrenceTime(occ model.Occurrence, loc *time.Location) (time.Time, bool) {
	day, err := time.ParseInLocation(dateLayout, occ.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(time.Duration(occ.Time.Hours)*time.Hour + time.Duration(occ.Time.Minutes)*time.Minute), true
}

// MarkRead flips the notification-read flag on the stored event.
func (f *NotificationsFeed) MarkRead(ctx context.Context, userID, eventID string) error {
	return f.store.UpdateEvent(ctx, userID, eventID, map[string]interface{}{"read": true})
}
