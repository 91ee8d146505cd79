package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"Chirp/cache"
	"Chirp/models"
	"Chirp/responses"
	httpctx "Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
)

const forYouCacheTTL = 30 * time.Second

type feedPage struct {
	Tweets []TweetDTO `json:"tweets"`
	Total  int64      `json:"total"`
}

// GetFollowingFeed returns the tweets of everyone the viewer follows plus
// the viewer's own, newest first. The feed is assembled at read time from
// the follow edges; nothing is precomputed per viewer.
func (server *Server) GetFollowingFeed(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, limit := parsePagination(c)
	db := server.dbc(c)

	followedIDs := db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", viewerID)

	// The viewer's own id is always part of the set, so a viewer who
	// follows nobody still sees their own tweets.
	scope := db.Model(&models.Tweet{}).
		Where("author_id IN (?) OR author_id = ?", followedIDs, viewerID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading feed")
		return
	}

	tweets := []models.Tweet{}
	err := db.Preload("Author").
		Where("author_id IN (?) OR author_id = ?", followedIDs, viewerID).
		Order("created_at desc, id desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tweets).Error
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading feed")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", feedPage{
		Tweets: tweetsToResponse(tweets),
		Total:  total,
	})
}

// GetForYouFeed returns every tweet on the platform, newest first, ignoring
// the social graph. Pages are cached briefly in Redis since they are the
// same for every viewer.
func (server *Server) GetForYouFeed(c *gin.Context) {
	if _, ok := httpctx.CurrentUserID(c); !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, limit := parsePagination(c)
	cacheKey := fmt.Sprintf("feeds:foryou:%d:%d", page, limit)

	if cached, err := cache.Get(c.Request.Context(), cacheKey); err == nil && cached != "" {
		var cachedPage feedPage
		if json.Unmarshal([]byte(cached), &cachedPage) == nil {
			responses.JSON(c, http.StatusOK, "Success", cachedPage)
			return
		}
	}

	db := server.dbc(c)

	var total int64
	if err := db.Model(&models.Tweet{}).Count(&total).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading feed")
		return
	}

	tweets := []models.Tweet{}
	err := db.Preload("Author").
		Order("created_at desc, id desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tweets).Error
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading feed")
		return
	}

	result := feedPage{Tweets: tweetsToResponse(tweets), Total: total}

	if encoded, err := json.Marshal(result); err == nil {
		_ = cache.Set(c.Request.Context(), cacheKey, encoded, forYouCacheTTL)
	}

	responses.JSON(c, http.StatusOK, "Success", result)
}

// invalidateFeedCache clears cached for-you pages after a tweet write.
func invalidateFeedCache() {
	_ = cache.DeleteByPrefix(context.Background(), "feeds:foryou:")
}
