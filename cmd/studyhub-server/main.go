package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/eli-bans/studyhub/pkg/studyhub/auth"
	"github.com/eli-bans/studyhub/pkg/studyhub/database"
	"github.com/eli-bans/studyhub/pkg/studyhub/groups"
	"github.com/eli-bans/studyhub/pkg/studyhub/models"
	"github.com/eli-bans/studyhub/pkg/studyhub/notifications"
	"github.com/eli-bans/studyhub/pkg/studyhub/profiles"
	"github.com/eli-bans/studyhub/pkg/studyhub/storage"
)

// @title StudyHub API
// @version 1.0
// @description A study group platform for university students: profiles, groups, membership requests, and recommendations.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token. Format: "Bearer {token}"

func main() {
	// Get database path from environment or use default
	dbPath := os.Getenv("STUDYHUB_DB_PATH")
	if dbPath == "" {
		dbPath = "studyhub.db"
	}

	// Connect to database
	if err := database.Connect(dbPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Object storage for profile pictures and group images
	store, err := storage.NewMinIOStore(storage.LoadConfig())
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure storage bucket exists: %v", err)
	}

	db := database.GetDB()

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "studyhub",
			})
		})

		// Auth routes (register/login/refresh public; the package
		// guards the rest)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		authRequired := auth.Middleware(db)

		// Profile routes
		profilesHandler := profiles.NewHandler(db, store)
		profilesHandler.RegisterRoutes(api.Group("/profiles", authRequired))

		// Notification routes
		notificationsHandler := notifications.NewHandler(db)
		notificationsHandler.RegisterRoutes(api.Group("/notifications", authRequired))

		// Group routes: lifecycle, membership requests, member
		// management, and scheduled times
		groupsHandler := groups.NewHandler(db, store)
		groupsGroup := api.Group("/groups", authRequired)
		groupsHandler.RegisterRoutes(groupsGroup)
		groupsHandler.RegisterRequestRoutes(groupsGroup)
		groupsHandler.RegisterMemberRoutes(groupsGroup)
		groupsHandler.RegisterScheduleRoutes(groupsGroup)
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting StudyHub server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
