package models

import (
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const (
	TweetTypeText  = "text"
	TweetTypeMedia = "media"
	TweetTypeMixed = "mixed"
)

type Tweet struct {
	ID            uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID      string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Content       string    `gorm:"type:text" json:"content"`
	MediaURL      string    `gorm:"size:255" json:"media_url"`
	MediaType     string    `gorm:"size:50" json:"media_type"`
	Type          string    `gorm:"size:10;not null;default:text" json:"type"`
	AuthorID      uint      `gorm:"not null;index;index:idx_tweets_author_created,priority:1" json:"author_id"`
	Author        User      `gorm:"foreignKey:AuthorID" json:"author"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likes_count"`
	RetweetsCount int64     `gorm:"not null;default:0" json:"retweets_count"`
	RepliesCount  int64     `gorm:"not null;default:0" json:"replies_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index;index:idx_tweets_author_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(t.PublicID) == "" {
		t.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (t *Tweet) Prepare() {
	t.Content = html.EscapeString(strings.TrimSpace(t.Content))
	t.Author = User{}
}

// ResolveType derives the tweet type tag from what the tweet carries.
func (t *Tweet) ResolveType(hasMedia bool) {
	hasContent := strings.TrimSpace(t.Content) != ""
	switch {
	case hasContent && hasMedia:
		t.Type = TweetTypeMixed
	case hasMedia:
		t.Type = TweetTypeMedia
	default:
		t.Type = TweetTypeText
	}
}

func (t *Tweet) SaveTweet(db *gorm.DB) (*Tweet, error) {
	if err := db.Create(&t).Error; err != nil {
		return nil, err
	}
	if err := db.Model(t).Association("Author").Find(&t.Author); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tweet) FindTweetByID(db *gorm.DB, tid uint) (*Tweet, error) {
	err := db.Preload("Author").Where("id = ?", tid).Take(&t).Error
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tweet) FindUserTweets(db *gorm.DB, uid uint, offset, limit int) ([]Tweet, int64, error) {
	var total int64
	if err := db.Model(&Tweet{}).Where("author_id = ?", uid).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tweets := []Tweet{}
	err := db.Preload("Author").Where("author_id = ?", uid).
		Order("created_at desc, id desc").
		Offset(offset).Limit(limit).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}

func (t *Tweet) UpdateTweet(db *gorm.DB) (*Tweet, error) {
	err := db.Model(&Tweet{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"content":    t.Content,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	err = db.Preload("Author").Where("id = ?", t.ID).Take(&t).Error
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTweet removes the tweet and every row that hangs off it. Caller is
// expected to run this inside a transaction.
func (t *Tweet) DeleteTweet(db *gorm.DB) (int64, error) {
	if err := db.Where("tweet_id = ?", t.ID).Delete(&Like{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("tweet_id = ?", t.ID).Delete(&Reply{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("tweet_id = ?", t.ID).Delete(&Retweet{}).Error; err != nil {
		return 0, err
	}
	var polls []Poll
	if err := db.Where("tweet_id = ?", t.ID).Find(&polls).Error; err != nil {
		return 0, err
	}
	for i := range polls {
		if _, err := polls[i].DeletePoll(db); err != nil {
			return 0, err
		}
	}
	if err := db.Where("tweet_id = ?", t.ID).Delete(&Notification{}).Error; err != nil {
		return 0, err
	}

	result := db.Where("id = ?", t.ID).Delete(&Tweet{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a user is deleted, we also delete the tweets that the user had
func (t *Tweet) DeleteUserTweets(db *gorm.DB, uid uint) error {
	var tweets []Tweet
	if err := db.Where("author_id = ?", uid).Find(&tweets).Error; err != nil {
		return err
	}
	for i := range tweets {
		if _, err := tweets[i].DeleteTweet(db); err != nil {
			return err
		}
	}
	return nil
}
