package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"Chirp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTweetRequiresContentOrMedia(t *testing.T) {
	server := newTestServer(t)
	_, token := createTestUser(t, server, "author")

	rec := doForm(server, http.MethodPost, "/api/v1/tweets", token, url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTextTweet(t *testing.T) {
	server := newTestServer(t)
	author, token := createTestUser(t, server, "author")

	form := url.Values{}
	form.Set("content", "hello world")
	rec := doForm(server, http.MethodPost, "/api/v1/tweets", token, form)
	require.Equal(t, http.StatusCreated, rec.Code)

	var tweet TweetDTO
	decodePayload(t, rec, &tweet)
	assert.Equal(t, "hello world", tweet.Content)
	assert.Equal(t, models.TweetTypeText, tweet.Type)
	assert.Equal(t, author.ID, tweet.AuthorID)
	assert.NotEmpty(t, tweet.PublicID)
}

func TestUpdateTweetOwnerOnly(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, otherToken := createTestUser(t, server, "other")
	tweet := createTestTweet(t, server, author.ID, "original")

	rec := doJSON(server, http.MethodPut, fmt.Sprintf("/api/v1/tweets/%d", tweet.ID), otherToken,
		map[string]string{"content": "hijacked"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, "original", reloaded.Content)
}

func TestDeleteTweetCascades(t *testing.T) {
	server := newTestServer(t)
	author, token := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "doomed")

	rec := doJSON(server, http.MethodPost, fmt.Sprintf("/api/v1/tweets/%d/like", tweet.ID), fanToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(server, http.MethodPost, "/api/v1/replies", fanToken,
		map[string]interface{}{"tweet_id": tweet.ID, "body": "nice"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(server, http.MethodDelete, fmt.Sprintf("/api/v1/tweets/%d", tweet.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, server.DB.Model(&models.Like{}).Where("tweet_id = ?", tweet.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, server.DB.Model(&models.Reply{}).Where("tweet_id = ?", tweet.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	rec = doJSON(server, http.MethodGet, fmt.Sprintf("/api/v1/tweets/%d", tweet.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeTweetIncrementsCounter(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "likeable")

	rec := doJSON(server, http.MethodPost, fmt.Sprintf("/api/v1/tweets/%d/like", tweet.ID), fanToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(1), reloaded.LikesCount)

	// The author gets a like notification.
	var notification models.Notification
	require.NoError(t, server.DB.Where("recipient_id = ?", author.ID).Take(&notification).Error)
	assert.Equal(t, models.NotificationTypeLike, notification.Type)
}

func TestLikeTweetTwiceReturnsConflict(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "likeable")

	path := fmt.Sprintf("/api/v1/tweets/%d/like", tweet.ID)
	require.Equal(t, http.StatusCreated, doJSON(server, http.MethodPost, path, fanToken, nil).Code)
	assert.Equal(t, http.StatusConflict, doJSON(server, http.MethodPost, path, fanToken, nil).Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(1), reloaded.LikesCount)
}

func TestUnlikeTweetDecrementsCounter(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "likeable")

	path := fmt.Sprintf("/api/v1/tweets/%d/like", tweet.ID)
	require.Equal(t, http.StatusCreated, doJSON(server, http.MethodPost, path, fanToken, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(server, http.MethodDelete, path, fanToken, nil).Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(0), reloaded.LikesCount)
}

func TestUnlikeWithoutLikeReturnsNotFound(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "unliked")

	rec := doJSON(server, http.MethodDelete, fmt.Sprintf("/api/v1/tweets/%d/like", tweet.ID), fanToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(0), reloaded.LikesCount)
}

func TestGetUserTweetsPaginated(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	for i := 0; i < 3; i++ {
		createTestTweet(t, server, author.ID, fmt.Sprintf("tweet %d", i))
	}

	rec := doJSON(server, http.MethodGet, fmt.Sprintf("/api/v1/tweets/user/%d?page=1&limit=2", author.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Tweets []TweetDTO `json:"tweets"`
		Total  int64      `json:"total"`
	}
	decodePayload(t, rec, &payload)
	assert.Len(t, payload.Tweets, 2)
	assert.Equal(t, int64(3), payload.Total)
}
