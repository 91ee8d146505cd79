package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Retweet is either a plain retweet (Comment nil, unique per user and tweet)
// or a quote retweet (Comment set, any number allowed). The plain-retweet
// uniqueness is checked in the create transaction; on Postgres a partial
// unique index backs it as well.
type Retweet struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index;index:idx_retweets_user_tweet,priority:1" json:"user_id"`
	TweetID   uint      `gorm:"not null;index;index:idx_retweets_user_tweet,priority:2" json:"tweet_id"`
	User      User      `json:"user"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Retweet) Prepare() {
	if r.Comment != nil {
		trimmed := html.EscapeString(strings.TrimSpace(*r.Comment))
		if trimmed == "" {
			r.Comment = nil
		} else {
			r.Comment = &trimmed
		}
	}
	r.User = User{}
}

func (r *Retweet) GetTweetRetweets(db *gorm.DB, tid uint) (*[]Retweet, error) {
	retweets := []Retweet{}
	err := db.Preload("User").Where("tweet_id = ?", tid).
		Order("created_at desc").Find(&retweets).Error
	if err != nil {
		return nil, err
	}
	return &retweets, nil
}

func (r *Retweet) GetUserRetweets(db *gorm.DB, uid uint) (*[]Retweet, error) {
	retweets := []Retweet{}
	err := db.Preload("User").Where("user_id = ?", uid).
		Order("created_at desc").Find(&retweets).Error
	if err != nil {
		return nil, err
	}
	return &retweets, nil
}
