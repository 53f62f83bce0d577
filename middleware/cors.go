package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORSMiddleware(originURL string) gin.HandlerFunc {
	allowedOrigins := []string{
		"http://localhost:8082",
	}

	if originURL != "" {
		allowedOrigins = append(allowedOrigins, originURL)
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", RequestIDHeader},
		AllowCredentials: true,
	})
}
