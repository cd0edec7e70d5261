package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/vidflow/backend/internal/handlers"
	"github.com/vidflow/backend/internal/middleware"
	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
	"github.com/vidflow/backend/pkg/config"
	"github.com/vidflow/backend/pkg/logger"
	"github.com/vidflow/backend/pkg/media"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.RequestLogger())
	logger.Log.Info("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, mediaStore *media.Store, cfg *config.Config) error {
	// AutoMigrate models
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Story{},
		&models.Comment{},
		&models.Like{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	logger.Log.Info("Auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	storyRepo := repositories.NewPostgresStoryRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, postRepo, mediaStore)
	userHandler.RegisterUserRoutes(api)

	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, followRepo, likeRepo, commentRepo, storyRepo)
	feedHandler.RegisterFeedRoutes(api)

	storyHandler := handlers.NewStoryHandler(storyRepo, userRepo, mediaStore)
	storyHandler.RegisterStoryRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, commentRepo, likeRepo, mediaStore)
	postHandler.RegisterPostRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, notificationRepo)
	likeHandler.RegisterLikeRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notificationRepo)
	commentHandler.RegisterCommentRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notificationRepo)
	followHandler.RegisterFollowRoutes(api)

	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, notificationRepo)
	messageHandler.RegisterMessageRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	logger.Log.Info("All routes configured")
	return nil
}
