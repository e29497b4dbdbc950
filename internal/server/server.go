package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	appconfig "github.com/recipehub/backend/config"
	"github.com/recipehub/backend/internal/api"
	"github.com/recipehub/backend/internal/database"
	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/router"
	"github.com/recipehub/backend/internal/service"
)

// Server wires the application together and runs the HTTP listener.
type Server struct {
	cfg    *appconfig.Config
	engine *gin.Engine
	http   *http.Server

	cancelBroker context.CancelFunc
}

// New builds a fully wired server from configuration.
func New(cfg *appconfig.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	gormDB, err := db.Gorm()
	if err != nil {
		return nil, fmt.Errorf("gorm: %w", err)
	}

	if err := database.RunMigrations(gormDB); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	// Degrade gracefully without Redis: no rate limiting, no
	// cross-instance change notifications.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable, continuing without it: %v", err)
		redisClient = nil
	}

	s3Config, err := appconfig.NewS3Config(context.Background())
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}

	broker := service.NewRecipeBroker(gormDB, redisClient)
	brokerCtx, cancelBroker := context.WithCancel(context.Background())
	go broker.Run(brokerCtx)

	authService := service.NewAuthService(gormDB, cfg.JWTSecret)
	recipeService := service.NewRecipeService(gormDB, broker)
	imageService := service.NewImageService(s3Config)

	var creationLimiter, modificationLimiter *middleware.RateLimiter
	if redisClient != nil {
		creationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		modificationLimiter = middleware.NewRecipeModificationRateLimiter(redisClient)
	}

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(recipeService, imageService, authService, creationLimiter, modificationLimiter)
	streamHandler := api.NewStreamHandler(broker, authService)
	imageHandler := api.NewImageHandler(imageService)

	engine := router.SetupRouter(authHandler, recipeHandler, streamHandler, imageHandler, authService)

	return &Server{
		cfg:          cfg,
		engine:       engine,
		cancelBroker: cancelBroker,
	}, nil
}

// Start runs the HTTP listener and blocks until it stops.
func (s *Server) Start() error {
	addr := s.cfg.ServerHost + ":" + s.cfg.ServerPort
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	log.Printf("Listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and the broker.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelBroker != nil {
		s.cancelBroker()
	}
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
