package controllers

import (
	"errors"
	"net/http"

	"Chirp/models"
	"Chirp/responses"
	"Chirp/utils/formaterror"
	httpctx "Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errDuplicateRetweet = errors.New("duplicate plain retweet")

// CreateRetweet records a retweet of the given tweet. A plain retweet (no
// comment) is unique per user and tweet; quote retweets carry a comment and
// are exempt from that rule. The duplicate check runs inside the same
// transaction as the insert and counter bump, with the partial unique index
// as the backstop under concurrency.
func (server *Server) CreateRetweet(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		TweetID uint    `json:"tweet_id"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}
	if input.TweetID == 0 {
		responses.Error(c, http.StatusBadRequest, "Tweet is required")
		return
	}

	retweet := models.Retweet{
		UserID:  uid,
		TweetID: input.TweetID,
		Comment: input.Comment,
	}
	retweet.Prepare()

	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Tweet{}, input.TweetID).Error; err != nil {
			return err
		}

		if retweet.Comment == nil {
			var existing int64
			err := tx.Model(&models.Retweet{}).
				Where("user_id = ? AND tweet_id = ? AND comment IS NULL", uid, input.TweetID).
				Count(&existing).Error
			if err != nil {
				return err
			}
			if existing > 0 {
				return errDuplicateRetweet
			}
		}

		if err := tx.Create(&retweet).Error; err != nil {
			return err
		}

		return tx.Model(&models.Tweet{}).
			Where("id = ?", input.TweetID).
			UpdateColumn("retweets_count", gorm.Expr("retweets_count + 1")).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}
	if errors.Is(err, errDuplicateRetweet) {
		responses.Error(c, http.StatusConflict, "You have already retweeted this tweet")
		return
	}
	if err != nil {
		if formaterror.IsUniqueViolation(err.Error()) {
			responses.Error(c, http.StatusConflict, "You have already retweeted this tweet")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Error creating retweet")
		return
	}

	responses.JSON(c, http.StatusCreated, "Retweet created successfully", retweet)
}

// DeleteRetweet removes the caller's retweet and decrements the counter,
// floored at zero.
func (server *Server) DeleteRetweet(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid retweet ID")
		return
	}

	retweet := models.Retweet{}
	if err := server.dbc(c).First(&retweet, rid).Error; err != nil {
		responses.Error(c, http.StatusNotFound, "Retweet not found")
		return
	}
	if retweet.UserID != uid {
		responses.Error(c, http.StatusUnauthorized, "You can only delete your own retweets")
		return
	}

	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", rid).Delete(&models.Retweet{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Tweet{}).
			Where("id = ? AND retweets_count > 0", retweet.TweetID).
			UpdateColumn("retweets_count", gorm.Expr("retweets_count - 1")).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		responses.Error(c, http.StatusNotFound, "Retweet not found")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error deleting retweet")
		return
	}

	responses.JSON(c, http.StatusOK, "Retweet deleted successfully", nil)
}

func (server *Server) GetTweetRetweets(c *gin.Context) {
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	if err := server.dbc(c).Select("id").First(&models.Tweet{}, tid).Error; err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}

	retweet := models.Retweet{}
	retweets, err := retweet.GetTweetRetweets(server.dbc(c), tid)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading retweets")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{"retweets": retweets})
}

// GetRetweetCount counts live over retweet rows rather than trusting the
// denormalized counter.
func (server *Server) GetRetweetCount(c *gin.Context) {
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	if err := server.dbc(c).Select("id").First(&models.Tweet{}, tid).Error; err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}

	var count int64
	if err := server.dbc(c).Model(&models.Retweet{}).Where("tweet_id = ?", tid).Count(&count).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error counting retweets")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{
		"tweet_id":       tid,
		"retweets_count": count,
	})
}

func (server *Server) GetUserRetweets(c *gin.Context) {
	uid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := ensureUserExists(server.dbc(c), uid); err != nil {
		responses.Error(c, http.StatusNotFound, "User not found")
		return
	}

	retweet := models.Retweet{}
	retweets, err := retweet.GetUserRetweets(server.dbc(c), uid)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading retweets")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{"retweets": retweets})
}
