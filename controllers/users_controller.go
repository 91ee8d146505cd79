package controllers

import (
	"net/http"
	"strings"

	"Chirp/models"
	"Chirp/responses"
	"Chirp/utils/fileformat"
	"Chirp/utils/formaterror"
	httpctx "Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (server *Server) CreateUser(c *gin.Context) {
	user := models.User{}
	if err := c.ShouldBindJSON(&user); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}

	user.Prepare()
	if errorMessages := user.Validate(""); len(errorMessages) > 0 {
		responses.Error(c, http.StatusBadRequest, strings.Join(collectMessages(errorMessages), "; "))
		return
	}

	createdUser, err := user.SaveUser(server.dbc(c))
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		if formaterror.IsUniqueViolation(err.Error()) {
			responses.Error(c, http.StatusConflict, strings.Join(collectMessages(formattedError), "; "))
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Error creating user")
		return
	}

	responses.JSON(c, http.StatusCreated, "User created successfully", userToResponse(createdUser))
}

func (server *Server) GetUsers(c *gin.Context) {
	user := models.User{}
	users, err := user.FindAllUsers(server.dbc(c))
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading users")
		return
	}

	out := make([]UserDTO, len(*users))
	for i := range *users {
		out[i] = userToResponse(&(*users)[i])
	}
	responses.JSON(c, http.StatusOK, "Success", gin.H{"users": out})
}

func (server *Server) GetUser(c *gin.Context) {
	uid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user := models.User{}
	found, err := user.FindUserByID(server.dbc(c), uid)
	if err != nil {
		responses.Error(c, http.StatusNotFound, "User not found")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", userToResponse(found))
}

func (server *Server) UpdateUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	uid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if requestorID != uid {
		responses.Error(c, http.StatusUnauthorized, "You can only update your own profile")
		return
	}

	user := models.User{}
	if err := c.ShouldBindJSON(&user); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}

	user.Prepare()
	if errorMessages := user.Validate("update"); len(errorMessages) > 0 {
		responses.Error(c, http.StatusBadRequest, strings.Join(collectMessages(errorMessages), "; "))
		return
	}

	updatedUser, err := user.UpdateAUser(server.dbc(c), uid)
	if err != nil {
		if formaterror.IsUniqueViolation(err.Error()) {
			responses.Error(c, http.StatusConflict, "Email already taken")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Error updating user")
		return
	}

	responses.JSON(c, http.StatusOK, "User updated successfully", userToResponse(updatedUser))
}

// UpdateAvatar stores the uploaded image and points the profile at it.
func (server *Server) UpdateAvatar(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	uid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if requestorID != uid {
		responses.Error(c, http.StatusUnauthorized, "You can only update your own avatar")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Avatar file is required")
		return
	}
	if fileHeader.Size > maxMediaSize {
		responses.Error(c, http.StatusBadRequest, "Avatar file too large")
		return
	}
	if server.Media == nil {
		responses.Error(c, http.StatusInternalServerError, "Media uploads are not configured")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error reading avatar file")
		return
	}
	defer file.Close()

	key := "ProfilePics/" + fileformat.UniqueFormat(fileHeader.Filename)
	avatarURL, err := server.Media.Upload(c.Request.Context(), key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error uploading avatar")
		return
	}

	user := models.User{AvatarPath: avatarURL}
	updatedUser, err := user.UpdateAUserAvatar(server.dbc(c), uid)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error saving avatar")
		return
	}

	responses.JSON(c, http.StatusOK, "Avatar updated successfully", userToResponse(updatedUser))
}

// DeleteUser removes the account and everything attached to it in one
// transaction: follow edges with their counter fixups, likes with the liked
// tweets' counters, replies and retweets the same way, then the user's own
// tweets and inbox.
func (server *Server) DeleteUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	uid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if requestorID != uid {
		responses.Error(c, http.StatusUnauthorized, "You can only delete your own account")
		return
	}

	user := models.User{}
	if _, err := user.FindUserByID(server.dbc(c), uid); err != nil {
		responses.Error(c, http.StatusNotFound, "User not found")
		return
	}

	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		if err := removeUserFollowEdges(tx, uid); err != nil {
			return err
		}

		if err := tx.Exec(
			"UPDATE tweets SET likes_count = likes_count - 1 WHERE likes_count > 0 AND id IN (SELECT tweet_id FROM likes WHERE user_id = ?)",
			uid,
		).Error; err != nil {
			return err
		}
		like := models.Like{}
		if _, err := like.DeleteUserLikes(tx, uid); err != nil {
			return err
		}

		if err := tx.Exec(
			"UPDATE tweets SET replies_count = replies_count - 1 WHERE replies_count > 0 AND id IN (SELECT tweet_id FROM replies WHERE user_id = ?)",
			uid,
		).Error; err != nil {
			return err
		}
		reply := models.Reply{}
		if _, err := reply.DeleteUserReplies(tx, uid); err != nil {
			return err
		}

		if err := tx.Exec(
			"UPDATE tweets SET retweets_count = retweets_count - 1 WHERE retweets_count > 0 AND id IN (SELECT tweet_id FROM retweets WHERE user_id = ?)",
			uid,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", uid).Delete(&models.Retweet{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", uid).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}

		tweet := models.Tweet{}
		if err := tweet.DeleteUserTweets(tx, uid); err != nil {
			return err
		}

		notification := models.Notification{}
		if _, err := notification.DeleteUserNotifications(tx, uid); err != nil {
			return err
		}

		_, err := user.DeleteAUser(tx, uid)
		return err
	})
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error deleting user")
		return
	}

	invalidateFeedCache()

	responses.JSON(c, http.StatusOK, "User deleted successfully", nil)
}

func collectMessages(errorMessages map[string]string) []string {
	out := make([]string, 0, len(errorMessages))
	for _, message := range errorMessages {
		out = append(out, message)
	}
	return out
}
