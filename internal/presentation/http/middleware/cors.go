package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides the permissive cross-origin configuration the
// tracking surface requires. The collector script runs on arbitrary
// third-party domains, so origins cannot be enumerated; nothing on this
// surface is credentialed.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control",
		},
		MaxAge: 12 * time.Hour,
	}

	return cors.New(config)
}
