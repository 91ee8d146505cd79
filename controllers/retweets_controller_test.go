package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"Chirp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRetweetIncrementsCounter(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "share me")

	rec := doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken,
		map[string]interface{}{"tweet_id": tweet.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(1), reloaded.RetweetsCount)
}

func TestPlainRetweetTwiceReturnsConflict(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "share me")

	body := map[string]interface{}{"tweet_id": tweet.ID}
	require.Equal(t, http.StatusCreated, doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken, body).Code)
	assert.Equal(t, http.StatusConflict, doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken, body).Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(1), reloaded.RetweetsCount)
}

func TestQuoteRetweetsAreExemptFromUniqueness(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "quote me")

	first := map[string]interface{}{"tweet_id": tweet.ID, "comment": "take one"}
	second := map[string]interface{}{"tweet_id": tweet.ID, "comment": "take two"}
	require.Equal(t, http.StatusCreated, doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken, first).Code)
	assert.Equal(t, http.StatusCreated, doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken, second).Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(2), reloaded.RetweetsCount)
}

func TestQuoteWithBlankCommentCountsAsPlain(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "share me")

	blank := "   "
	body := map[string]interface{}{"tweet_id": tweet.ID, "comment": blank}
	require.Equal(t, http.StatusCreated, doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken, body).Code)
	assert.Equal(t, http.StatusConflict, doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken, body).Code)
}

func TestDeleteRetweetDecrementsCounter(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	tweet := createTestTweet(t, server, author.ID, "share me")

	rec := doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken,
		map[string]interface{}{"tweet_id": tweet.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var retweet models.Retweet
	decodePayload(t, rec, &retweet)

	rec = doJSON(server, http.MethodDelete, fmt.Sprintf("/api/v1/retweets/%d", retweet.ID), fanToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Tweet
	require.NoError(t, server.DB.First(&reloaded, tweet.ID).Error)
	assert.Equal(t, int64(0), reloaded.RetweetsCount)
}

func TestDeleteRetweetOwnerOnly(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	_, otherToken := createTestUser(t, server, "other")
	tweet := createTestTweet(t, server, author.ID, "share me")

	rec := doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken,
		map[string]interface{}{"tweet_id": tweet.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var retweet models.Retweet
	decodePayload(t, rec, &retweet)

	rec = doJSON(server, http.MethodDelete, fmt.Sprintf("/api/v1/retweets/%d", retweet.ID), otherToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRetweetUnknownTweetReturnsNotFound(t *testing.T) {
	server := newTestServer(t)
	_, fanToken := createTestUser(t, server, "fan")

	rec := doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken,
		map[string]interface{}{"tweet_id": 9999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRetweetCountIsLive(t *testing.T) {
	server := newTestServer(t)
	author, _ := createTestUser(t, server, "author")
	_, fanToken := createTestUser(t, server, "fan")
	_, otherToken := createTestUser(t, server, "other")
	tweet := createTestTweet(t, server, author.ID, "share me")

	body := map[string]interface{}{"tweet_id": tweet.ID}
	require.Equal(t, http.StatusCreated, doJSON(server, http.MethodPost, "/api/v1/retweets", fanToken, body).Code)
	require.Equal(t, http.StatusCreated, doJSON(server, http.MethodPost, "/api/v1/retweets", otherToken, body).Code)

	rec := doJSON(server, http.MethodGet, fmt.Sprintf("/api/v1/retweets/count/%d", tweet.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]int64
	decodePayload(t, rec, &payload)
	assert.Equal(t, int64(2), payload["retweets_count"])
}
