package controllers

import (
	"log"
	"net/http"

	"Chirp/models"
	"Chirp/responses"
	"Chirp/utils/fileformat"
	httpctx "Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxMediaSize = 10 << 20 // 10MB

// CreateTweet creates a tweet from a multipart form: a content field, an
// optional media file, or both. The row is inserted first so the media key
// can reference it; if the upload then fails, the row is deleted again and
// the error surfaced (the media host is the one external step that gets an
// explicit compensation).
func (server *Server) CreateTweet(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tweet := models.Tweet{
		Content:  c.PostForm("content"),
		AuthorID: uid,
	}
	tweet.Prepare()

	fileHeader, fileErr := c.FormFile("media")
	hasMedia := fileErr == nil && fileHeader != nil

	if tweet.Content == "" && !hasMedia {
		responses.Error(c, http.StatusBadRequest, "Tweet must contain either text content or media")
		return
	}
	if hasMedia && fileHeader.Size > maxMediaSize {
		responses.Error(c, http.StatusBadRequest, "Media file too large")
		return
	}
	if hasMedia && server.Media == nil {
		responses.Error(c, http.StatusInternalServerError, "Media uploads are not configured")
		return
	}

	tweet.ResolveType(hasMedia)

	saved, err := tweet.SaveTweet(server.dbc(c))
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error creating tweet")
		return
	}

	if hasMedia {
		file, err := fileHeader.Open()
		if err != nil {
			server.rollbackTweet(c, saved.ID)
			responses.Error(c, http.StatusInternalServerError, "Error reading media file")
			return
		}
		defer file.Close()

		contentType := fileHeader.Header.Get("Content-Type")
		key := "TweetMedia/" + fileformat.UniqueFormat(fileHeader.Filename)
		mediaURL, err := server.Media.Upload(c.Request.Context(), key, file, contentType)
		if err != nil {
			server.rollbackTweet(c, saved.ID)
			responses.Error(c, http.StatusInternalServerError, "Error uploading media")
			return
		}

		err = server.dbc(c).Model(&models.Tweet{}).Where("id = ?", saved.ID).Updates(map[string]interface{}{
			"media_url":  mediaURL,
			"media_type": contentType,
		}).Error
		if err != nil {
			server.rollbackTweet(c, saved.ID)
			responses.Error(c, http.StatusInternalServerError, "Error saving media reference")
			return
		}
		saved.MediaURL = mediaURL
		saved.MediaType = contentType
	}

	invalidateFeedCache()

	responses.JSON(c, http.StatusCreated, "Tweet created successfully", tweetToResponse(saved))
}

// rollbackTweet is the compensating delete for a failed media upload.
func (server *Server) rollbackTweet(c *gin.Context, tweetID uint) {
	if err := server.dbc(c).Where("id = ?", tweetID).Delete(&models.Tweet{}).Error; err != nil {
		log.Printf("compensating tweet delete failed for %d: %v", tweetID, err)
	}
}

func (server *Server) GetTweets(c *gin.Context) {
	page, limit := parsePagination(c)

	db := server.dbc(c)
	var total int64
	if err := db.Model(&models.Tweet{}).Count(&total).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading tweets")
		return
	}

	tweets := []models.Tweet{}
	err := db.Preload("Author").
		Order("created_at desc, id desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tweets).Error
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading tweets")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{
		"tweets": tweetsToResponse(tweets),
		"total":  total,
	})
}

func (server *Server) GetTweet(c *gin.Context) {
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	tweet := models.Tweet{}
	if _, err := tweet.FindTweetByID(server.dbc(c), tid); err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", tweetToResponse(&tweet))
}

func (server *Server) GetUserTweets(c *gin.Context) {
	uid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	page, limit := parsePagination(c)

	tweet := models.Tweet{}
	tweets, total, err := tweet.FindUserTweets(server.dbc(c), uid, (page-1)*limit, limit)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading tweets")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{
		"tweets": tweetsToResponse(tweets),
		"total":  total,
	})
}

func (server *Server) UpdateTweet(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	existing := models.Tweet{}
	if _, err := existing.FindTweetByID(server.dbc(c), tid); err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}
	if existing.AuthorID != uid {
		responses.Error(c, http.StatusUnauthorized, "You can only edit your own tweets")
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}

	existing.Content = input.Content
	existing.Prepare()
	if existing.Content == "" && existing.MediaURL == "" {
		responses.Error(c, http.StatusBadRequest, "Tweet must contain either text content or media")
		return
	}

	updated, err := existing.UpdateTweet(server.dbc(c))
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error updating tweet")
		return
	}

	invalidateFeedCache()

	responses.JSON(c, http.StatusOK, "Tweet updated successfully", tweetToResponse(updated))
}

func (server *Server) DeleteTweet(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	tweet := models.Tweet{}
	if _, err := tweet.FindTweetByID(server.dbc(c), tid); err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}
	if tweet.AuthorID != uid {
		responses.Error(c, http.StatusUnauthorized, "You can only delete your own tweets")
		return
	}

	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		_, err := tweet.DeleteTweet(tx)
		return err
	})
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error deleting tweet")
		return
	}

	// Media cleanup is best-effort; an orphaned object never blocks deletion.
	if tweet.MediaURL != "" && server.Media != nil {
		if err := server.Media.Delete(c.Request.Context(), tweet.MediaURL); err != nil {
			log.Printf("media delete failed for tweet %d: %v", tid, err)
		}
	}

	invalidateFeedCache()

	responses.JSON(c, http.StatusOK, "Tweet deleted successfully", nil)
}

// LikeTweet records a like row and bumps the tweet's counter in the same
// transaction, so the counter can never drift from the rows. A second like
// from the same user hits the unique index and reports a conflict.
func (server *Server) LikeTweet(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	tweet := models.Tweet{}
	if _, err := tweet.FindTweetByID(server.dbc(c), tid); err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}

	liked := false
	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: uid, TweetID: tid}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		liked = true

		return tx.Model(&models.Tweet{}).
			Where("id = ?", tid).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error liking tweet")
		return
	}
	if !liked {
		responses.Error(c, http.StatusConflict, "You have already liked this tweet")
		return
	}

	server.notifyLike(uid, &tweet)

	responses.JSON(c, http.StatusCreated, "Tweet liked successfully", gin.H{
		"tweet_id":    tid,
		"likes_count": tweet.LikesCount + 1,
	})
}

// UnlikeTweet removes the like row and decrements the counter, never below
// zero.
func (server *Server) UnlikeTweet(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	tweet := models.Tweet{}
	if _, err := tweet.FindTweetByID(server.dbc(c), tid); err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}

	removed := false
	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND tweet_id = ?", uid, tid).Delete(&models.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true

		return tx.Model(&models.Tweet{}).
			Where("id = ? AND likes_count > 0", tid).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error unliking tweet")
		return
	}
	if !removed {
		responses.Error(c, http.StatusNotFound, "Like not found")
		return
	}

	responses.JSON(c, http.StatusOK, "Tweet unliked successfully", gin.H{
		"tweet_id": tid,
	})
}

func (server *Server) GetTweetLikes(c *gin.Context) {
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	tweet := models.Tweet{}
	if _, err := tweet.FindTweetByID(server.dbc(c), tid); err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}

	like := models.Like{}
	likes, err := like.GetTweetLikes(server.dbc(c), tid)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading likes")
		return
	}

	users := make([]UserDTO, len(*likes))
	for i := range *likes {
		users[i] = userToResponse(&(*likes)[i].User)
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{
		"tweet_id": tid,
		"count":    len(*likes),
		"users":    users,
	})
}
