package model

import "time"

// EventTime is a wall-clock time stored as separate hour/minute fields,
// never as a combined timestamp.
type EventTime struct {
	Hours   int `firestore:"hours" json:"hours"`
	Minutes int `firestore:"minutes" json:"minutes"`
}

type Event struct {
	EventID     string    `firestore:"eventid,omitempty"`
	Title       string    `firestore:"title,omitempty"`
	Date        string    `firestore:"date,omitempty"` // series anchor date, YYYY-MM-DD
	Time        EventTime `firestore:"time"`
	Notes       string    `firestore:"notes,omitempty"`
	RelatedPets []string  `firestore:"relatedpets,omitempty"`
	Appointment bool      `firestore:"appointment"`
	Recurrence  string    `firestore:"recurrence,omitempty"` // none|daily|weekly|biweekly|monthly|yearly
	EndDate     string    `firestore:"enddate,omitempty"`    // YYYY-MM-DD inclusive, "" = open-ended
	Exceptions  []string  `firestore:"exceptions"`
	Read        bool      `firestore:"read"`
	CreatedAt   time.Time `firestore:"createdat,omitempty"`
	UpdatedAt   time.Time `firestore:"updatedat,omitempty"`
}

// Occurrence is one concrete calendar-date instance of an event. Every
// occurrence of a recurring series carries the same event id; occurrences
// are derived views, never persisted.
type Occurrence struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Time        EventTime `json:"time"`
	Notes       string    `json:"notes"`
	RelatedPets []string  `json:"related_pets"`
	Appointment bool      `json:"appointment"`
	Recurrence  string    `json:"recurrence"`
	EndDate     string    `json:"end_date,omitempty"`
	Exceptions  []string  `json:"exceptions"`
	Read        bool      `json:"read"`
}
