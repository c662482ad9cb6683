package auth

import (
	"context"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"petpal/dto"
	"petpal/middleware"
	"petpal/model"
	"petpal/services"
)

func SignInController(router *gin.Engine, firestoreClient *firestore.Client) {
	router.POST("/auth/signin", func(c *gin.Context) {
		Signin(c, firestoreClient)
	})
	router.POST("/auth/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
		RefreshToken(c)
	})
}

func Signin(c *gin.Context, firestoreClient *firestore.Client) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()
	docSnap, err := services.GetUserData(ctx, firestoreClient, request.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var user model.User
	if err := docSnap.DataTo(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user data"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	if user.Active == "0" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User account is not active"})
		return
	}

	accessToken, err := services.CreateAccessToken(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}

	refreshToken, err := services.CreateRefreshToken(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"userId":       user.UserID,
	})
}

func RefreshToken(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	accessToken, err := services.CreateAccessToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}
