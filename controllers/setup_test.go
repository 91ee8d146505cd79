package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"Chirp/auth"
	"Chirp/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("API_SECRET", "test-secret")
	os.Exit(m.Run())
}

var testDBCounter int64

// newTestServer spins up a server against a fresh in-memory sqlite database
// with the full route table mounted. Rate limiting and the request timeout
// stay out of the test router on purpose.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := fmt.Sprintf("file:chirp_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	server := &Server{DB: db, Router: gin.New()}
	require.NoError(t, server.Migrate())
	server.initializeRoutes()
	return server
}

// createTestUser inserts a user and mints a token for them.
func createTestUser(t *testing.T, server *Server, username string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password",
	}
	_, err := user.SaveUser(server.DB)
	require.NoError(t, err)

	token, err := auth.CreateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

// createTestTweet inserts a text tweet directly, bypassing the HTTP layer.
func createTestTweet(t *testing.T, server *Server, authorID uint, content string) *models.Tweet {
	t.Helper()

	tweet := &models.Tweet{
		Content:  content,
		AuthorID: authorID,
		Type:     models.TweetTypeText,
	}
	_, err := tweet.SaveTweet(server.DB)
	require.NoError(t, err)
	return tweet
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Timestamp  string          `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
}

var reqCounter int64

// uniqueRemoteAddr keeps the per-IP login limiter out of the way; every
// request arrives from its own address.
func uniqueRemoteAddr() string {
	n := atomic.AddInt64(&reqCounter, 1)
	return fmt.Sprintf("10.1.%d.%d:52428", (n/250)%250+1, n%250+1)
}

func doJSON(server *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = strings.NewReader(string(encoded))
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = uniqueRemoteAddr()
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func doForm(server *Server, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.RemoteAddr = uniqueRemoteAddr()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodePayload(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Payload)
	require.NoError(t, json.Unmarshal(env.Payload, out))
	return env
}
