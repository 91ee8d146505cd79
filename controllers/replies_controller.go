package controllers

import (
	"errors"
	"net/http"

	"Chirp/models"
	"Chirp/responses"
	httpctx "Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateReply attaches a comment to a tweet. Row insert and the tweet's
// reply counter move in one transaction; the comment notification follows
// after commit.
func (server *Server) CreateReply(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reply := models.Reply{}
	if err := c.ShouldBindJSON(&reply); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}
	reply.UserID = uid
	reply.Prepare()

	if errorMessages := reply.Validate(); len(errorMessages) > 0 {
		responses.Error(c, http.StatusBadRequest, "Reply body is required")
		return
	}

	var tweet models.Tweet
	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tweet, reply.TweetID).Error; err != nil {
			return err
		}
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.Tweet{}).
			Where("id = ?", reply.TweetID).
			UpdateColumn("replies_count", gorm.Expr("replies_count + 1")).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error creating reply")
		return
	}

	server.notifyComment(uid, &tweet)

	responses.JSON(c, http.StatusCreated, "Reply created successfully", reply)
}

func (server *Server) GetTweetReplies(c *gin.Context) {
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	if err := server.dbc(c).Select("id").First(&models.Tweet{}, tid).Error; err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}

	reply := models.Reply{}
	replies, err := reply.GetTweetReplies(server.dbc(c), tid)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading replies")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{"replies": replies})
}
