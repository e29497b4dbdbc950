package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS middleware to handle cross-origin requests
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		// Allow requests from both localhost and Docker container
		AllowOrigins: []string{"http://localhost:5173", "http://frontend:5173"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type", "Authorization", "Accept", "Origin", "User-Agent",
			"Cache-Control", "Keep-Alive", "X-Requested-With", "Pragma", "X-API-Version",
		},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
