package services

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petpal/model"
)

var ErrPetNotFound = errors.New("pet not found")

func pets(client *firestore.Client, userID string) *firestore.CollectionRef {
	return client.Collection("Users").Doc(userID).Collection("Pets")
}

// ListPetNames returns the names of the user's pets, used by the event
// editor to populate the related-pets choices. Events reference pets by
// name, not by id.
func ListPetNames(ctx context.Context, client *firestore.Client, userID string) ([]string, error) {
	petList, err := ListPets(ctx, client, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(petList))
	for _, p := range petList {
		names = append(names, p.Name)
	}
	return names, nil
}

func ListPets(ctx context.Context, client *firestore.Client, userID string) ([]model.Pet, error) {
	iter := pets(client, userID).Documents(ctx)
	defer iter.Stop()

	petList := make([]model.Pet, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var p model.Pet
		if err := doc.DataTo(&p); err != nil {
			return nil, err
		}
		p.PetID = doc.Ref.ID
		petList = append(petList, p)
	}
	return petList, nil
}

func CreatePet(ctx context.Context, client *firestore.Client, userID string, pet model.Pet) (string, error) {
	petID := uuid.New().String()
	pet.PetID = petID
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()

	if _, err := pets(client, userID).Doc(petID).Create(ctx, pet); err != nil {
		return "", err
	}
	return petID, nil
}

func DeletePet(ctx context.Context, client *firestore.Client, userID, petID string) error {
	_, err := pets(client, userID).Doc(petID).Delete(ctx)
	if status.Code(err) == codes.NotFound {
		return ErrPetNotFound
	}
	return err
}
