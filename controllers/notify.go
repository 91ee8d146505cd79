package controllers

import (
	"log"

	"Chirp/models"
)

// Notification dispatch is fire-and-forget: it runs after the triggering
// transaction has committed and a failure only logs. A lost notification
// must never fail a follow, like or reply.

func (server *Server) notifyFollow(actorID, recipientID uint) {
	notification := models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        models.NotificationTypeFollow,
		Content:     "started following you",
	}
	if _, err := notification.SaveNotification(server.DB); err != nil {
		log.Printf("follow notification not delivered: %v", err)
	}
}

func (server *Server) notifyLike(actorID uint, tweet *models.Tweet) {
	if actorID == tweet.AuthorID {
		return
	}
	tweetID := tweet.ID
	notification := models.Notification{
		RecipientID: tweet.AuthorID,
		ActorID:     actorID,
		Type:        models.NotificationTypeLike,
		Content:     "liked your tweet",
		TweetID:     &tweetID,
	}
	if _, err := notification.SaveNotification(server.DB); err != nil {
		log.Printf("like notification not delivered: %v", err)
	}
}

func (server *Server) notifyComment(actorID uint, tweet *models.Tweet) {
	if actorID == tweet.AuthorID {
		return
	}
	tweetID := tweet.ID
	notification := models.Notification{
		RecipientID: tweet.AuthorID,
		ActorID:     actorID,
		Type:        models.NotificationTypeComment,
		Content:     "commented on your tweet",
		TweetID:     &tweetID,
	}
	if _, err := notification.SaveNotification(server.DB); err != nil {
		log.Printf("comment notification not delivered: %v", err)
	}
}
