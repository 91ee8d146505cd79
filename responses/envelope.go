package responses

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape for every endpoint, success or
// failure. Payload is null on errors so clients can branch on StatusCode
// alone.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Timestamp  string      `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

func JSON(c *gin.Context, status int, message string, payload interface{}) {
	c.JSON(status, Envelope{
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Payload:    payload,
	})
}

func Error(c *gin.Context, status int, message string) {
	JSON(c, status, message, nil)
}

// AbortError is Error for middlewares that must stop the handler chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Payload:    nil,
	})
}
