package event

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petpal/dto"
	"petpal/middleware"
	"petpal/services"
)

func EventController(router *gin.Engine, store services.EventStore, mutator *services.SeriesMutator) {
	routes := router.Group("/event", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			AddEvent(c, mutator)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateEvent(c, store, mutator)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteEvent(c, store, mutator)
		})
	}
}

func AddEvent(c *gin.Context, mutator *services.SeriesMutator) {
	userID := c.MustGet("userId").(string)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx := context.Background()
	eventID, err := mutator.AddEvent(ctx, userID, services.EventFields{
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		RelatedPets: req.RelatedPets,
		Appointment: req.Appointment,
		Recurrence:  req.Recurrence,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeServiceError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"eventId": eventID,
	})
}

func UpdateEvent(c *gin.Context, store services.EventStore, mutator *services.SeriesMutator) {
	userID := c.MustGet("userId").(string)
	eventID := c.Param("id")

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	fields := services.EventFields{
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		RelatedPets: req.RelatedPets,
		Appointment: req.Appointment,
		Recurrence:  req.Recurrence,
		EndDate:     req.EndDate,
		Exceptions:  req.Exceptions,
	}

	ctx := context.Background()
	ev, err := store.GetEvent(ctx, userID, eventID)
	if err != nil {
		writeServiceError(c, err, "Failed to load event")
		return
	}

	// Scoped edits only make sense on a series; for a one-off event every
	// scope is the whole event.
	scope := req.Scope
	if !services.IsRecurring(ev) {
		scope = "all"
	}

	switch scope {
	case "all":
		if err := mutator.UpdateEntireSeries(ctx, userID, eventID, fields); err != nil {
			writeServiceError(c, err, "Failed to update event")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully", "eventId": eventID})
	case "single":
		newID, err := mutator.UpdateOneOccurrence(ctx, userID, ev, req.OccurrenceDate, fields)
		if err != nil {
			writeServiceError(c, err, "Failed to update occurrence")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Occurrence updated successfully", "eventId": eventID, "newEventId": newID})
	case "future":
		newID, err := mutator.UpdateFutureOccurrences(ctx, userID, ev, req.OccurrenceDate, fields)
		if err != nil {
			writeServiceError(c, err, "Failed to update occurrences")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Future occurrences updated successfully", "eventId": eventID, "newEventId": newID})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scope must be one of: all, single, future"})
	}
}

func DeleteEvent(c *gin.Context, store services.EventStore, mutator *services.SeriesMutator) {
	userID := c.MustGet("userId").(string)
	eventID := c.Param("id")
	date := c.Query("date")

	ctx := context.Background()
	ev, err := store.GetEvent(ctx, userID, eventID)
	if err != nil {
		writeServiceError(c, err, "Failed to load event")
		return
	}

	scope := c.DefaultQuery("scope", "all")
	if !services.IsRecurring(ev) {
		scope = "all"
	}

	switch scope {
	case "all":
		err = mutator.DeleteEntireSeries(ctx, userID, eventID)
	case "single":
		err = mutator.DeleteOneOccurrence(ctx, userID, ev, date)
	case "future":
		err = mutator.DeleteFutureOccurrences(ctx, userID, ev, date)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scope must be one of: all, single, future"})
		return
	}
	if err != nil {
		writeServiceError(c, err, "Failed to delete event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully", "eventId": eventID})
}

func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidTime),
		errors.Is(err, services.ErrNotAnOccurrence):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
