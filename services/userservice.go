package services

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
)

func GetUserData(ctx context.Context, firestoreClient *firestore.Client, email string) (*firestore.DocumentSnapshot, error) {
	usersCollection := firestoreClient.Collection("Users")

	query := usersCollection.Where("email", "==", email).Limit(1)
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, errors.New("user not found")
	}

	return docs[0], nil
}
