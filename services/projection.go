package services

import (
	"context"

	"petpal/model"
)

// OccurrenceProjector builds the date-indexed calendar view. The view is a
// derived, disposable structure: it is rebuilt in full from the stored
// events on every call and never persisted.
type OccurrenceProjector struct {
	store EventStore
}

func NewOccurrenceProjector(store EventStore) *OccurrenceProjector {
	return &OccurrenceProjector{store: store}
}

// Project expands every stored event for the user and merges the results
// into a date -> occurrences mapping. Every occurrence of a series carries
// the series' event id; within one date the order follows the source-event
// iteration.
func (p *OccurrenceProjector) Project(ctx context.Context, userID string) (map[string][]model.Occurrence, error) {
	events, err := p.store.ListEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]model.Occurrence)
	for _, ev := range events {
		for _, date := range ExpandEvent(ev) {
			byDate[date] = append(byDate[date], occurrenceOn(ev, date))
		}
	}
	return byDate, nil
}

func occurrenceOn(ev model.Event, date string) model.Occurrence {
	return model.Occurrence{
		EventID:     ev.EventID,
		Title:       ev.Title,
		Date:        date,
		Time:        ev.Time,
		Notes:       ev.Notes,
		RelatedPets: ev.RelatedPets,
		Appointment: ev.Appointment,
		Recurrence:  ev.Recurrence,
		EndDate:     ev.EndDate,
		Exceptions:  ev.Exceptions,
		Read:        ev.Read,
	}
}
