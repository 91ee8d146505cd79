package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Reply struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TweetID   uint      `gorm:"not null;index" json:"tweet_id"`
	Author    User      `gorm:"foreignKey:UserID" json:"author"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Reply) Prepare() {
	r.ID = 0
	r.Body = html.EscapeString(strings.TrimSpace(r.Body))
	r.Author = User{}
}

func (r *Reply) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if r.Body == "" {
		errorMessages["Required_body"] = "Body is required"
	}
	if r.TweetID == 0 {
		errorMessages["Required_tweet"] = "Tweet is required"
	}
	return errorMessages
}

func (r *Reply) GetTweetReplies(db *gorm.DB, tid uint) (*[]Reply, error) {
	replies := []Reply{}
	err := db.Preload("Author").Where("tweet_id = ?", tid).
		Order("created_at desc").Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return &replies, nil
}

// When a user is deleted, we also delete the replies that the user had
func (r *Reply) DeleteUserReplies(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Reply{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
