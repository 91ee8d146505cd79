package controllers

import (
	"net/http"

	"Chirp/models"
	"Chirp/responses"
	httpctx "Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first, with an
// optional ?status= filter and the unread count alongside.
func (server *Server) GetNotifications(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status := c.Query("status")
	switch status {
	case "", models.NotificationStatusCreated, models.NotificationStatusRead, models.NotificationStatusArchived:
	default:
		responses.Error(c, http.StatusBadRequest, "Invalid notification status")
		return
	}

	page, limit := parsePagination(c)

	notification := models.Notification{}
	notifications, total, err := notification.FindUserNotifications(server.dbc(c), uid, status, (page-1)*limit, limit)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading notifications")
		return
	}

	unread, err := notification.CountUnread(server.dbc(c), uid)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading notifications")
		return
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{
		"notifications": notifications,
		"total":         total,
		"unread_count":  unread,
	})
}

func (server *Server) MarkNotificationRead(c *gin.Context) {
	server.updateNotificationStatus(c, models.NotificationStatusRead, "Notification marked as read")
}

func (server *Server) ArchiveNotification(c *gin.Context) {
	server.updateNotificationStatus(c, models.NotificationStatusArchived, "Notification archived")
}

// updateNotificationStatus moves one of the caller's notifications to the
// given status. Scoping the update to recipient_id keeps users out of each
// other's inboxes without a separate ownership query.
func (server *Server) updateNotificationStatus(c *gin.Context, status, message string) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	nid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	notification := models.Notification{}
	affected, err := notification.UpdateStatus(server.dbc(c), nid, uid, status)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error updating notification")
		return
	}
	if affected == 0 {
		responses.Error(c, http.StatusNotFound, "Notification not found")
		return
	}

	responses.JSON(c, http.StatusOK, message, gin.H{
		"id":     nid,
		"status": status,
	})
}

func (server *Server) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notification := models.Notification{}
	if err := notification.MarkAllRead(server.dbc(c), uid); err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error updating notifications")
		return
	}

	responses.JSON(c, http.StatusOK, "All notifications marked as read", nil)
}
