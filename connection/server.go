package connection

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authcontroller "petpal/controller/auth"
	eventcontroller "petpal/controller/event"
	petcontroller "petpal/controller/pet"
	"petpal/services"
)

func StartServer() {
	router := gin.Default()

	fb, err := FBConnection()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore client: %v", err)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	router.Use(cors.Default())

	store := services.NewFirestoreEventStore(fb)
	mutator := services.NewSeriesMutator(store)
	projector := services.NewOccurrenceProjector(store)
	feed := services.NewNotificationsFeed(store, projector)

	authcontroller.SignInController(router, fb)
	eventcontroller.EventController(router, store, mutator)
	eventcontroller.CalendarController(router, fb, projector, feed)
	petcontroller.PetController(router, fb)

	router.Run()
}
