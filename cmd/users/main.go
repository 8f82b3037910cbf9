package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trstyle/storefront-services/handlers"
	"github.com/trstyle/storefront-services/internal/database"
	"github.com/trstyle/storefront-services/internal/userstore"
)

// Standalone users API: just the privileged /users routes, for deployments
// where the storefront frontend talks to this service directly.
func main() {
	port := os.Getenv("USERS_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Without STORE_ADMIN_URI the store reports unavailable and every route
	// answers 500 with setup instructions, mirroring the sync fallback
	// contract.
	var store userstore.Store = userstore.NewMongoStore(nil, "admin")
	if uri := os.Getenv("STORE_ADMIN_URI"); uri != "" {
		client, err := database.ConnectMongo(context.Background(), uri, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to store (%v) — privileged path unavailable", err)
		} else {
			db := os.Getenv("STORE_DATABASE")
			if db == "" {
				db = "trstyle"
			}
			store = userstore.NewMongoStore(client.Database(db).Collection("users"), "admin")
		}
	}

	handlers.NewUsersHandler(store).Register(r.Group("/"))

	log.Printf("users service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
