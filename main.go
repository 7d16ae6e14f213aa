package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/streamtube/backend/internal/client"
	"github.com/streamtube/backend/internal/config"
	"github.com/streamtube/backend/internal/db"
	"github.com/streamtube/backend/internal/handler"
	"github.com/streamtube/backend/internal/service"
	"github.com/streamtube/backend/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	mongo, err := db.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = mongo.Close(context.Background())
	}()

	if err := mongo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to init media storage: %v", err)
	}
	media := client.NewMediaClient(store)

	if err := os.MkdirAll(cfg.Uploads.TempDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload temp dir: %v", err)
	}

	tokens, err := service.NewTokenService(cfg.Auth)
	if err != nil {
		log.Fatalf("Invalid token config: %v", err)
	}

	authService, err := service.NewAuthService(mongo, media, tokens, cfg.Auth)
	if err != nil {
		log.Fatalf("Invalid auth config: %v", err)
	}
	userService := service.NewUserService(mongo, media)

	authHandler := handler.NewAuthHandler(authService, cfg.Uploads.TempDir)
	userHandler := handler.NewUserHandler(userService, cfg.Uploads.TempDir)

	router := gin.Default()

	if origins := strings.Split(cfg.CORS.AllowedOrigins, ","); cfg.CORS.AllowedOrigins != "" {
		router.Use(handler.CORSMiddleware(origins, true))
	}

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	users := router.Group("/api/v1/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", authHandler.Login)
		users.POST("/refresh-token", authHandler.Refresh)

		secured := users.Group("")
		secured.Use(handler.AuthMiddleware(tokens))
		{
			secured.POST("/logout", authHandler.Logout)
			secured.POST("/change-password", authHandler.ChangePassword)
			secured.POST("/current-user", userHandler.CurrentUser)
			secured.POST("/update-user", userHandler.UpdateAccount)
			secured.POST("/update-avatar", userHandler.UpdateAvatar)
			secured.POST("/update-cover-image", userHandler.UpdateCoverImage)
		}
	}

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
