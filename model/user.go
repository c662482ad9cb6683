package model

import "time"

type User struct {
	UserID    string    `firestore:"userid,omitempty"`
	Name      string    `firestore:"name,omitempty"`
	Email     string    `firestore:"email,omitempty"`
	Password  string    `firestore:"password,omitempty"`
	Profile   string    `firestore:"profile,omitempty"` // avatar URL on the media CDN
	Active    string    `firestore:"active,omitempty"`  // "0" inactive, "1" active
	CreatedAt time.Time `firestore:"createdat,omitempty"`
}
