package services

import (
	"context"
	"errors"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petpal/model"
)

var ErrEventNotFound = errors.New("event not found")

// EventStore is the persistence boundary for the per-user event collection.
// The user id is threaded explicitly into every call; nothing in the core
// reads an ambient current-user handle.
type EventStore interface {
	ListEvents(ctx context.Context, userID string) ([]model.Event, error)
	GetEvent(ctx context.Context, userID, eventID string) (model.Event, error)
	CreateEvent(ctx context.Context, userID string, ev model.Event) (string, error)
	UpdateEvent(ctx context.Context, userID, eventID string, fields map[string]interface{}) error
	DeleteEvent(ctx context.Context, userID, eventID string) error

	// SplitSeries applies fields to an existing event and creates the
	// detached event in a single transaction, so a series split can never
	// leave the exception list updated without its replacement document.
	SplitSeries(ctx context.Context, userID, eventID string, fields map[string]interface{}, detached model.Event) (string, error)
}

// eventDoc is the Firestore shape of an event. EndDate is kept loose here
// because historical writers stored it as an ISO string, a
// {seconds,nanoseconds} map, or a native timestamp; it is normalized to a
// plain YYYY-MM-DD string before anything else sees it.
type eventDoc struct {
	EventID     string          `firestore:"eventid,omitempty"`
	Title       string          `firestore:"title,omitempty"`
	Date        string          `firestore:"date,omitempty"`
	Time        model.EventTime `firestore:"time"`
	Notes       string          `firestore:"notes"`
	RelatedPets []string        `firestore:"relatedpets"`
	Appointment bool            `firestore:"appointment"`
	Recurrence  string          `firestore:"recurrence,omitempty"`
	EndDate     interface{}     `firestore:"enddate,omitempty"`
	Exceptions  []string        `firestore:"exceptions"`
	Read        bool            `firestore:"read"`
	CreatedAt   time.Time       `firestore:"createdat,serverTimestamp"`
	UpdatedAt   time.Time       `firestore:"updatedat,serverTimestamp"`
}

func (d *eventDoc) toEvent(id string) model.Event {
	return model.Event{
		EventID:     id,
		Title:       d.Title,
		Date:        d.Date,
		Time:        d.Time,
		Notes:       d.Notes,
		RelatedPets: d.RelatedPets,
		Appointment: d.Appointment,
		Recurrence:  d.Recurrence,
		EndDate:     normalizeEndDate(d.EndDate),
		Exceptions:  d.Exceptions,
		Read:        d.Read,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func docFromEvent(ev model.Event) eventDoc {
	exceptions := ev.Exceptions
	if exceptions == nil {
		exceptions = []string{}
	}
	d := eventDoc{
		EventID:     ev.EventID,
		Title:       ev.Title,
		Date:        ev.Date,
		Time:        ev.Time,
		Notes:       ev.Notes,
		RelatedPets: ev.RelatedPets,
		Appointment: ev.Appointment,
		Recurrence:  ev.Recurrence,
		Exceptions:  exceptions,
		Read:        ev.Read,
	}
	if ev.EndDate != "" {
		d.EndDate = ev.EndDate
	}
	return d
}

// normalizeEndDate collapses the historically-used encodings of the end date
// into canonical YYYY-MM-DD. Anything unrecognizable degrades to "" (no
// upper bound), never to an error.
func normalizeEndDate(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if _, ok := parseDate(val); ok {
			return val
		}
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return t.Format(dateLayout)
		}
		return ""
	case time.Time:
		return val.Format(dateLayout)
	case map[string]interface{}:
		switch secs := val["seconds"].(type) {
		case int64:
			return time.Unix(secs, 0).UTC().Format(dateLayout)
		case float64:
			return time.Unix(int64(secs), 0).UTC().Format(dateLayout)
		}
		return ""
	default:
		return ""
	}
}

// FirestoreEventStore keeps each user's events in the
// Users/{userId}/Events subcollection.
type FirestoreEventStore struct {
	client *firestore.Client
}

func NewFirestoreEventStore(client *firestore.Client) *FirestoreEventStore {
	return &FirestoreEventStore{client: client}
}

func (s *FirestoreEventStore) events(userID string) *firestore.CollectionRef {
	return s.client.Collection("Users").Doc(userID).Collection("Events")
}

func (s *FirestoreEventStore) ListEvents(ctx context.Context, userID string) ([]model.Event, error) {
	iter := s.events(userID).Documents(ctx)
	defer iter.Stop()

	events := make([]model.Event, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var d eventDoc
		if err := doc.DataTo(&d); err != nil {
			// One undecodable document must not hide the whole calendar.
			log.Printf("eventstore: skipping undecodable event %s: %v", doc.Ref.ID, err)
			continue
		}
		events = append(events, d.toEvent(doc.Ref.ID))
	}
	return events, nil
}

func (s *FirestoreEventStore) GetEvent(ctx context.Context, userID, eventID string) (model.Event, error) {
	doc, err := s.events(userID).Doc(eventID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Event{}, ErrEventNotFound
		}
		return model.Event{}, err
	}

	var d eventDoc
	if err := doc.DataTo(&d); err != nil {
		return model.Event{}, err
	}
	return d.toEvent(doc.Ref.ID), nil
}

func (s *FirestoreEventStore) CreateEvent(ctx context.Context, userID string, ev model.Event) (string, error) {
	eventID := uuid.New().String()
	ev.EventID = eventID
	if _, err := s.events(userID).Doc(eventID).Create(ctx, docFromEvent(ev)); err != nil {
		return "", err
	}
	return eventID, nil
}

func (s *FirestoreEventStore) UpdateEvent(ctx context.Context, userID, eventID string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedat", Value: firestore.ServerTimestamp})

	_, err := s.events(userID).Doc(eventID).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrEventNotFound
	}
	return err
}

func (s *FirestoreEventStore) DeleteEvent(ctx context.Context, userID, eventID string) error {
	_, err := s.events(userID).Doc(eventID).Delete(ctx)
	return err
}

func (s *FirestoreEventStore) SplitSeries(ctx context.Context, userID, eventID string, fields map[string]interface{}, detached model.Event) (string, error) {
	originalRef := s.events(userID).Doc(eventID)
	newID := uuid.New().String()
	detached.EventID = newID
	newRef := s.events(userID).Doc(newID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(originalRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrEventNotFound
			}
			return err
		}

		updates := make([]firestore.Update, 0, len(fields)+1)
		for path, value := range fields {
			updates = append(updates, firestore.Update{Path: path, Value: value})
		}
		updates = append(updates, firestore.Update{Path: "updatedat", Value: firestore.ServerTimestamp})

		if err := tx.Update(originalRef, updates); err != nil {
			return err
		}
		return tx.Create(newRef, docFromEvent(detached))
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}
