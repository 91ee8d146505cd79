package controllers

import (
	"strconv"
	"time"

	"Chirp/models"

	"github.com/gin-gonic/gin"
)

type UserDTO struct {
	ID             uint      `json:"id"`
	PublicID       string    `json:"public_id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	Website        string    `json:"website"`
	AvatarPath     string    `json:"avatar_path"`
	CoverPath      string    `json:"cover_path"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type TweetDTO struct {
	ID            uint      `json:"id"`
	PublicID      string    `json:"public_id"`
	Content       string    `json:"content"`
	MediaURL      string    `json:"media_url"`
	MediaType     string    `json:"media_type"`
	Type          string    `json:"type"`
	AuthorID      uint      `json:"author_id"`
	Author        UserDTO   `json:"author"`
	LikesCount    int64     `json:"likes_count"`
	RetweetsCount int64     `json:"retweets_count"`
	RepliesCount  int64     `json:"replies_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func userToResponse(user *models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		PublicID:       user.PublicID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Bio:            user.Bio,
		Location:       user.Location,
		Website:        user.Website,
		AvatarPath:     user.AvatarPath,
		CoverPath:      user.CoverPath,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
		CreatedAt:      user.CreatedAt,
	}
}

func tweetToResponse(tweet *models.Tweet) TweetDTO {
	return TweetDTO{
		ID:            tweet.ID,
		PublicID:      tweet.PublicID,
		Content:       tweet.Content,
		MediaURL:      tweet.MediaURL,
		MediaType:     tweet.MediaType,
		Type:          tweet.Type,
		AuthorID:      tweet.AuthorID,
		Author:        userToResponse(&tweet.Author),
		LikesCount:    tweet.LikesCount,
		RetweetsCount: tweet.RetweetsCount,
		RepliesCount:  tweet.RepliesCount,
		CreatedAt:     tweet.CreatedAt,
		UpdatedAt:     tweet.UpdatedAt,
	}
}

func tweetsToResponse(tweets []models.Tweet) []TweetDTO {
	out := make([]TweetDTO, len(tweets))
	for i := range tweets {
		out[i] = tweetToResponse(&tweets[i])
	}
	return out
}

// parsePagination reads page and limit query params with the documented
// defaults (page 1, limit 20, limit capped at 100).
func parsePagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(raw), true
}
