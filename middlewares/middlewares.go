package middlewares

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"Chirp/auth"
	"Chirp/models"
	"Chirp/responses"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func TokenAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.ExtractTokenID(c.Request)
		if err != nil {
			responses.AbortError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var user models.User
		if err := db.Select("id").First(&user, userID).Error; err != nil {
			responses.AbortError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// TimeoutMiddleware bounds every request with a deadline. Handlers run their
// database work through the request context, so a fired deadline surfaces as
// a context error; no rollback of already-committed steps is attempted.
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			responses.AbortError(c, http.StatusRequestTimeout, "Request timed out")
		}
	}
}

// CORSMiddleware lets the browser client talk to the API.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowedOrigins := []string{"http://localhost:3000"}
		if extra := os.Getenv("ALLOWED_ORIGINS"); extra != "" {
			for _, o := range strings.Split(extra, ",") {
				if trimmed := strings.TrimSpace(o); trimmed != "" {
					allowedOrigins = append(allowedOrigins, trimmed)
				}
			}
		}

		for _, o := range allowedOrigins {
			if o == origin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", o)
				break
			}
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, Content-Length, X-CSRF-Token, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"POST, GET, OPTIONS, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
