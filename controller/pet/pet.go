package pet

import (
	"context"
	"errors"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"petpal/dto"
	"petpal/middleware"
	"petpal/model"
	"petpal/services"
)

func PetController(router *gin.Engine, firestoreClient *firestore.Client) {
	routes := router.Group("/pet", middleware.AccessTokenMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			ListPets(c, firestoreClient)
		})
		routes.GET("/names", func(c *gin.Context) {
			ListPetNames(c, firestoreClient)
		})
		routes.POST("", func(c *gin.Context) {
			CreatePet(c, firestoreClient)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeletePet(c, firestoreClient)
		})
	}
}

func ListPets(c *gin.Context, firestoreClient *firestore.Client) {
	userID := c.MustGet("userId").(string)

	petList, err := services.ListPets(context.Background(), firestoreClient, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pets": petList})
}

func ListPetNames(c *gin.Context, firestoreClient *firestore.Client) {
	userID := c.MustGet("userId").(string)

	names, err := services.ListPetNames(context.Background(), firestoreClient, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pet names"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"names": names})
}

func CreatePet(c *gin.Context, firestoreClient *firestore.Client) {
	userID := c.MustGet("userId").(string)

	var req dto.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	petID, err := services.CreatePet(context.Background(), firestoreClient, userID, model.Pet{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Pet created successfully", "petId": petID})
}

func DeletePet(c *gin.Context, firestoreClient *firestore.Client) {
	userID := c.MustGet("userId").(string)
	petID := c.Param("id")

	if err := services.DeletePet(context.Background(), firestoreClient, userID, petID); err != nil {
		if errors.Is(err, services.ErrPetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pet deleted successfully", "petId": petID})
}
