package controllers

import (
	"errors"
	"net/http"

	"Chirp/models"
	"Chirp/responses"
	httpctx "Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowUser creates a follow edge from the authenticated user to :id.
// Edge insert and both counter updates share one transaction; the follow
// notification is dispatched best-effort after commit.
func (server *Server) FollowUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if requestorID == targetID {
		responses.Error(c, http.StatusConflict, "Users cannot follow themselves")
		return
	}

	created := false
	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, targetID).Error; err != nil {
			return err
		}

		follow := models.Follow{
			FollowerID: requestorID,
			FollowedID: targetID,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true

		if err := tx.Model(&models.User{}).
			Where("id = ?", requestorID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", targetID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error; err != nil {
			return err
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		responses.Error(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error following user")
		return
	}

	if !created {
		responses.Error(c, http.StatusConflict, "Already following this user")
		return
	}

	server.notifyFollow(requestorID, targetID)

	responses.JSON(c, http.StatusCreated, "Successfully followed user", gin.H{
		"follower_id": requestorID,
		"followed_id": targetID,
	})
}

// UnfollowUser removes the edge and decrements both counters, floored at zero.
func (server *Server) UnfollowUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if requestorID == targetID {
		responses.Error(c, http.StatusConflict, "Users cannot unfollow themselves")
		return
	}

	removed := false
	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, targetID).Error; err != nil {
			return err
		}

		result := tx.Where("follower_id = ? AND followed_id = ?", requestorID, targetID).
			Delete(&models.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true

		if err := tx.Model(&models.User{}).
			Where("id = ? AND following_count > 0", requestorID).
			UpdateColumn("following_count", gorm.Expr("following_count - 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("id = ? AND followers_count > 0", targetID).
			UpdateColumn("followers_count", gorm.Expr("followers_count - 1")).Error; err != nil {
			return err
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		responses.Error(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error unfollowing user")
		return
	}

	if !removed {
		responses.Error(c, http.StatusNotFound, "Follow relationship not found")
		return
	}

	responses.JSON(c, http.StatusOK, "Successfully unfollowed user", gin.H{
		"follower_id": requestorID,
		"followed_id": targetID,
	})
}

// GetFollowers lists the users following :id. The full set is returned; the
// follower lists in this app are unpaginated by contract.
func (server *Server) GetFollowers(c *gin.Context) {
	server.listFollowEdges(c, "follows.followed_id = ?", "users.id = follows.follower_id")
}

// GetFollowing lists the users :id follows.
func (server *Server) GetFollowing(c *gin.Context) {
	server.listFollowEdges(c, "follows.follower_id = ?", "users.id = follows.followed_id")
}

func (server *Server) listFollowEdges(c *gin.Context, whereClause, joinClause string) {
	targetID, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := ensureUserExists(server.dbc(c), targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Error(c, http.StatusNotFound, "User not found")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Error loading user")
		return
	}

	var users []models.User
	err := server.dbc(c).Table("follows").
		Select("users.*").
		Joins("JOIN users ON "+joinClause).
		Where(whereClause, targetID).
		Order("follows.created_at DESC, follows.id DESC").
		Scan(&users).Error
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error fetching follow list")
		return
	}

	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = userToResponse(&users[i])
	}
	responses.JSON(c, http.StatusOK, "Success", gin.H{"users": out})
}

// CountFollowers returns a live count over edges. It deliberately does not
// read users.followers_count, so it stays correct even if that counter is
// ever out of step.
func (server *Server) CountFollowers(c *gin.Context) {
	server.countFollowEdges(c, "followed_id = ?", "followers_count")
}

// CountFollowing returns a live count over edges.
func (server *Server) CountFollowing(c *gin.Context) {
	server.countFollowEdges(c, "follower_id = ?", "following_count")
}

func (server *Server) countFollowEdges(c *gin.Context, whereClause, field string) {
	targetID, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := ensureUserExists(server.dbc(c), targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Error(c, http.StatusNotFound, "User not found")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Error loading user")
		return
	}

	var count int64
	if err := server.dbc(c).Model(&models.Follow{}).Where(whereClause, targetID).Count(&count).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error counting follows")
		return
	}
	responses.JSON(c, http.StatusOK, "Success", gin.H{field: count})
}

func ensureUserExists(db *gorm.DB, userID uint) error {
	var user models.User
	return db.Select("id").First(&user, userID).Error
}

// removeUserFollowEdges fixes up counters on both sides before dropping the
// edges themselves; used by the account-deletion cascade.
func removeUserFollowEdges(tx *gorm.DB, userID uint) error {
	if err := tx.Exec(
		"UPDATE users SET followers_count = followers_count - 1 WHERE followers_count > 0 AND id IN (SELECT followed_id FROM follows WHERE follower_id = ?)",
		userID,
	).Error; err != nil {
		return err
	}
	if err := tx.Exec(
		"UPDATE users SET following_count = following_count - 1 WHERE following_count > 0 AND id IN (SELECT follower_id FROM follows WHERE followed_id = ?)",
		userID,
	).Error; err != nil {
		return err
	}
	return tx.Where("follower_id = ? OR followed_id = ?", userID, userID).
		Delete(&models.Follow{}).Error
}
