package model

import "time"

type Pet struct {
	PetID     string    `firestore:"petid,omitempty"`
	Name      string    `firestore:"name,omitempty"`
	Species   string    `firestore:"species,omitempty"`
	Breed     string    `firestore:"breed,omitempty"`
	BirthDate string    `firestore:"birthdate,omitempty"` // YYYY-MM-DD
	PhotoURL  string    `firestore:"photourl,omitempty"`  // hosted on the media CDN
	CreatedAt time.Time `firestore:"createdat,omitempty"`
	UpdatedAt time.Time `firestore:"updatedat,omitempty"`
}
