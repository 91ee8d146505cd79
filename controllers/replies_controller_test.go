package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"Chirp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReplyIncrementsCounterAndNotifies(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	commenter, commenterToken := createTestUser(t, server, "commenter")
	tweet := createTestTweet(t, server, author.ID, "discuss")

	rec := doJSON(server, http.MethodPost, "/api/v1/replies", commenterToken,
		map[string]interface{}{"tweet_id": tweet.ID, "body": "great point"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(1), reloaded.RepliesCount)

	var notification models.Notification
	require.NoError(t, server.DB.Where("recipient_id = ?", author.ID).Take(&notification).Error)
	assert.Equal(t, models.NotificationTypeComment, notification.Type)
	assert.Equal(t, commenter.ID, notification.ActorID)
}

func TestReplyToOwnTweetSkipsNotification(t *testing.T) {
	server := newTestServer(t)
	author, token := createTestUser(t, server, "author")
	tweet := createTestTweet(t, server, author.ID, "talking to myself")

	rec := doJSON(server, http.MethodPost, "/api/v1/replies", token,
		map[string]interface{}{"tweet_id": tweet.ID, "body": "indeed"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	require.NoError(t, server.DB.Model(&models.Notification{}).
		Where("recipient_id = ?", author.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateReplyRequiresBody(t *testing.T) {
	server := newTestServer(t)
	author, token := createTestUser(t, server, "author")
	tweet := createTestTweet(t, server, author.ID, "discuss")

	rec := doJSON(server, http.MethodPost, "/api/v1/replies", token,
		map[string]interface{}{"tweet_id": tweet.ID, "body": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReplyUnknownTweetReturnsNotFound(t *testing.T) {
	server := newTestServer(t)
	_, token := createTestUser(t, server, "commenter")

	rec := doJSON(server, http.MethodPost, "/api/v1/replies", token,
		map[string]interface{}{"tweet_id": 9999, "body": "hello?"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTweetReplies(t *testing.T) {
	server := newTestServer(t)
	author, token := createTestUser(t, server, "author")
	tweet := createTestTweet(t, server, author.ID, "discuss")

	for i := 0; i < 2; i++ {
		rec := doJSON(server, http.MethodPost, "/api/v1/replies", token,
			map[string]interface{}{"tweet_id": tweet.ID, "body": fmt.Sprintf("reply %d", i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(server, http.MethodGet, fmt.Sprintf("/api/v1/replies/tweet/%d", tweet.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Replies []models.Reply `json:"replies"`
	}
	decodePayload(t, rec, &payload)
	assert.Len(t, payload.Replies, 2)
}
