package event

import (
	"context"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"petpal/middleware"
	"petpal/model"
	"petpal/services"
)

func CalendarController(router *gin.Engine, firestoreClient *firestore.Client, projector *services.OccurrenceProjector, feed *services.NotificationsFeed) {
	router.GET("/calendar", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		GetCalendar(c, firestoreClient, projector)
	})
	router.GET("/notifications", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		GetNotifications(c, feed)
	})
	router.PUT("/event/:id/read", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		MarkNotificationRead(c, feed)
	})
}

// GetCalendar returns the date-indexed occurrence view together with the
// user's pet names, which the event editor needs to offer related-pet
// choices. Both reads are independent, so they are issued concurrently and
// joined.
func GetCalendar(c *gin.Context, firestoreClient *firestore.Client, projector *services.OccurrenceProjector) {
	userID := c.MustGet("userId").(string)
	ctx := context.Background()

	type petResult struct {
		names []string
		err   error
	}
	petChan := make(chan petResult, 1)

	go func() {
		names, err := services.ListPetNames(ctx, firestoreClient, userID)
		petChan <- petResult{names: names, err: err}
	}()

	byDate, err := projector.Project(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load calendar"})
		return
	}

	pets := <-petChan
	if pets.err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pet names"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":   byDate,
		"petNames": pets.names,
	})
}

func GetNotifications(c *gin.Context, feed *services.NotificationsFeed) {
	userID := c.MustGet("userId").(string)

	items, err := feed.Recent(context.Background(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	if items == nil {
		items = []model.Occurrence{}
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func MarkNotificationRead(c *gin.Context, feed *services.NotificationsFeed) {
	userID := c.MustGet("userId").(string)
	eventID := c.Param("id")

	if err := feed.MarkRead(context.Background(), userID, eventID); err != nil {
		writeServiceError(c, err, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read", "eventId": eventID})
}
