package responses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJSONWrapsPayload(t *testing.T) {
	router := gin.New()
	router.GET("/ok", func(c *gin.Context) {
		JSON(c, http.StatusOK, "Success", gin.H{"value": 42})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "Success", env.Message)
	assert.NotNil(t, env.Payload)

	_, err := time.Parse(time.RFC3339, env.Timestamp)
	assert.NoError(t, err, "timestamp must be RFC3339")
}

func TestErrorHasNullPayload(t *testing.T) {
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "Not found")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Nil(t, env.Payload)
}

func TestAbortErrorStopsChain(t *testing.T) {
	router := gin.New()
	reached := false
	router.Use(func(c *gin.Context) {
		AbortError(c, http.StatusUnauthorized, "Unauthorized")
	})
	router.GET("/never", func(c *gin.Context) {
		reached = true
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/never", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}
