package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"seoulmate/backend/internal/api/handler"
	"seoulmate/backend/internal/api/middleware"
	"seoulmate/backend/internal/chathub"
	"seoulmate/backend/internal/config"
	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/ratelimit"
	"seoulmate/backend/internal/service"
	"seoulmate/backend/internal/storage"
	"seoulmate/backend/internal/translation"
)

func setupDatabase(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.GuideProfile{},
		&models.TravelerProfile{},
		&models.TourRequest{},
		&models.ChatRoom{},
		&models.Message{},
		&models.Review{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database connection established, migrations complete.")
	return db
}

func main() {
	log.Println("Starting SeoulMate Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db := setupDatabase(cfg)
	s := storage.NewStorageService(db)

	limiter := ratelimit.NewDefaultLimiter()
	defer limiter.Stop()

	hub := chathub.NewHub()

	// With Redis available, broadcasts are mirrored to sibling processes;
	// without it the hub stays purely in-process.
	var broadcaster chathub.Broadcaster = hub
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("Warning: Redis unavailable (%v), running without cross-process fan-out", err)
	} else {
		bridge := chathub.NewBridge(hub, rdb)
		go bridge.Run(context.Background())
		broadcaster = bridge
		log.Println("Redis connection established, hub bridge running.")
	}

	authService := service.NewAuthService(s, limiter, cfg.JWTSecret)
	tourService := service.NewTourService(s, limiter)
	chatService := service.NewChatService(s, limiter, broadcaster)
	reviewService := service.NewReviewService(s)
	guideService := service.NewGuideService(s)
	translator := translation.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	translationService := service.NewTranslationService(translator, limiter)

	h := handler.NewHandler(authService, tourService, chatService, reviewService, guideService, translationService, hub)

	r := gin.Default()
	r.Use(middleware.Cors())

	// Public routes
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/guides", h.ListGuides)
	r.GET("/api/guides/:id", h.GetGuide)
	r.GET("/api/guides/:id/reviews", h.ListGuideReviews)

	// Protected routes
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(authService))
	{
		auth.GET("/me", h.Me)
		auth.PATCH("/me", h.UpdateProfile)

		auth.POST("/tour-requests", h.CreateTourRequest)
		auth.GET("/tour-requests/sent", h.MyTourRequests)
		auth.GET("/tour-requests/received", h.ReceivedTourRequests)
		auth.GET("/tour-requests/:id", h.GetTourRequest)
		auth.POST("/tour-requests/:id/accept", h.AcceptTourRequest)
		auth.POST("/tour-requests/:id/reject", h.RejectTourRequest)
		auth.POST("/tour-requests/:id/cancel", h.CancelTourRequest)
		auth.POST("/tour-requests/:id/complete", h.CompleteTourRequest)

		auth.GET("/chat/rooms", h.ListChatRooms)
		auth.GET("/chat/rooms/:id", h.GetChatRoomInfo)
		auth.GET("/chat/rooms/:id/messages", h.ListChatMessages)
		auth.POST("/chat/rooms/:id/messages", h.SendChatMessage)
		auth.GET("/chat/stream/:id", h.StreamChatRoom)
		auth.GET("/chat/ws/:id", h.ServeChatRoomSocket)

		auth.POST("/reviews", h.CreateReview)
		auth.GET("/reviews/received", h.MyReviews)
		auth.GET("/reviews/sent", h.SentReviews)
		auth.PATCH("/reviews/:id", h.UpdateReview)
		auth.DELETE("/reviews/:id", h.DeleteReview)

		auth.POST("/translate", h.Translate)
		auth.POST("/translate/batch", h.TranslateBatch)
	}

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   0, // streaming endpoints hold the connection open
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
