package dto

import "petpal/model"

type CreateEventRequest struct {
	Title       string          `json:"title"`
	Date        string          `json:"date" binding:"required"`
	Time        model.EventTime `json:"time"`
	Notes       string          `json:"notes"`
	RelatedPets []string        `json:"related_pets"`
	Appointment bool            `json:"appointment"`
	Recurrence  string          `json:"recurrence"`
	EndDate     string          `json:"end_date"`
}

// UpdateEventRequest carries the full edited form plus the scope of the
// edit. Scope is one of "all", "single", "future"; "single" and "future"
// additionally require the occurrence date being edited.
type UpdateEventRequest struct {
	Scope          string          `json:"scope" binding:"required"`
	OccurrenceDate string          `json:"occurrence_date"`
	Title          string          `json:"title"`
	Date           string          `json:"date" binding:"required"`
	Time           model.EventTime `json:"time"`
	Notes          string          `json:"notes"`
	RelatedPets    []string        `json:"related_pets"`
	Appointment    bool            `json:"appointment"`
	Recurrence     string          `json:"recurrence"`
	EndDate        string          `json:"end_date"`
	Exceptions     []string        `json:"exceptions"`
}
