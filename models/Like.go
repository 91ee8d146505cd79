package models

import (
	"time"

	"gorm.io/gorm"
)

// Like is a row per (user, tweet) so the same user can never like a tweet
// twice; tweets.likes_count is maintained in the same transaction as the row.
type Like struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_likes_user_tweet" json:"user_id"`
	TweetID   uint      `gorm:"not null;index;uniqueIndex:idx_likes_user_tweet" json:"tweet_id"`
	User      User      `json:"user"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Like) GetTweetLikes(db *gorm.DB, tid uint) (*[]Like, error) {
	likes := []Like{}
	err := db.Preload("User").Where("tweet_id = ?", tid).Find(&likes).Error
	if err != nil {
		return &[]Like{}, err
	}
	return &likes, nil
}

// When a user is deleted, we also delete the likes that the user had
func (l *Like) DeleteUserLikes(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Like{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
