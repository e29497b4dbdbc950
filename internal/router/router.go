package router

import (
	"github.com/gin-gonic/gin"

	"github.com/recipehub/backend/internal/api"
	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	streamHandler *api.StreamHandler,
	imageHandler *api.ImageHandler,
	authService service.IAuthService,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint (no auth required)
	router.GET("/health", api.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
	}

	// Profile route
	v1.GET("/profile", middleware.AuthMiddleware(authService), authHandler.GetProfile)

	// Recipe routes register their own per-route auth
	recipeHandler.RegisterRoutes(v1)
	streamHandler.RegisterRoutes(v1)

	// Image upload
	images := v1.Group("", middleware.AuthMiddleware(authService))
	imageHandler.RegisterRoutes(images)

	return router
}
