package models

import (
	"html"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	PollMinOptions = 2
	PollMaxOptions = 4
)

// Poll belongs to exactly one tweet; the unique index on tweet_id makes a
// concurrent double-create fail at the database instead of racing the
// existence check.
type Poll struct {
	ID        uint         `gorm:"primary_key;autoIncrement" json:"id"`
	TweetID   uint         `gorm:"not null;uniqueIndex:idx_polls_tweet" json:"tweet_id"`
	AuthorID  uint         `gorm:"not null;index" json:"author_id"`
	ExpiresAt *time.Time   `json:"expires_at"`
	Options   []PollOption `gorm:"foreignKey:PollID" json:"options"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

type PollOption struct {
	ID     uint   `gorm:"primary_key;autoIncrement" json:"id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Label  string `gorm:"size:255;not null" json:"label"`
}

// PollVote is unique per (poll, user); the index closes the double-vote race
// the application-level check alone would leave open.
type PollVote struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PollID    uint      `gorm:"not null;index;uniqueIndex:idx_poll_votes_poll_user" json:"poll_id"`
	OptionID  uint      `gorm:"not null;index" json:"option_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_votes_poll_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PollOptionResult struct {
	ID         uint   `json:"id"`
	Label      string `json:"label"`
	VoteCount  int64  `json:"vote_count"`
	Percentage int    `json:"percentage"`
}

type PollResult struct {
	ID               uint               `json:"id"`
	TweetID          uint               `json:"tweet_id"`
	AuthorID         uint               `json:"author_id"`
	CreatedAt        time.Time          `json:"created_at"`
	ExpiresAt        *time.Time         `json:"expires_at"`
	Options          []PollOptionResult `json:"options"`
	TotalVotes       int64              `json:"total_votes"`
	IsExpired        bool               `json:"is_expired"`
	UserVoted        bool               `json:"user_voted"`
	UserVoteOptionID *uint              `json:"user_vote_option_id"`
}

func (p *Poll) Prepare() {
	for i := range p.Options {
		p.Options[i].Label = html.EscapeString(strings.TrimSpace(p.Options[i].Label))
	}
}

func (p *Poll) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.TweetID == 0 {
		errorMessages["Required_tweet"] = "Tweet is required"
	}
	if len(p.Options) < PollMinOptions || len(p.Options) > PollMaxOptions {
		errorMessages["Invalid_options"] = "A poll needs between 2 and 4 options"
	}
	for _, option := range p.Options {
		if option.Label == "" {
			errorMessages["Required_option_label"] = "Option labels cannot be empty"
		}
	}
	return errorMessages
}

func (p *Poll) FindPollByID(db *gorm.DB, pid uint) (*Poll, error) {
	err := db.Preload("Options").Where("id = ?", pid).Take(&p).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// Tally computes the live result for the poll. Vote counts come from the vote
// rows, never from a cached counter. Each option's percentage is rounded
// independently, so the percentages may not sum to exactly 100.
func (p *Poll) Tally(db *gorm.DB, viewerID *uint) (*PollResult, error) {
	result := &PollResult{
		ID:        p.ID,
		TweetID:   p.TweetID,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		ExpiresAt: p.ExpiresAt,
		IsExpired: p.IsExpired(time.Now()),
		Options:   make([]PollOptionResult, len(p.Options)),
	}

	for i, option := range p.Options {
		var count int64
		if err := db.Model(&PollVote{}).Where("option_id = ?", option.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		result.Options[i] = PollOptionResult{
			ID:        option.ID,
			Label:     option.Label,
			VoteCount: count,
		}
		result.TotalVotes += count
	}

	if result.TotalVotes > 0 {
		for i := range result.Options {
			share := float64(result.Options[i].VoteCount) / float64(result.TotalVotes) * 100
			result.Options[i].Percentage = int(math.Round(share))
		}
	}

	if viewerID != nil {
		var vote PollVote
		err := db.Where("poll_id = ? AND user_id = ?", p.ID, *viewerID).Take(&vote).Error
		if err == nil {
			result.UserVoted = true
			optionID := vote.OptionID
			result.UserVoteOptionID = &optionID
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	return result, nil
}

// DeletePoll removes the poll with its options and votes.
func (p *Poll) DeletePoll(db *gorm.DB) (int64, error) {
	if err := db.Where("poll_id = ?", p.ID).Delete(&PollVote{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("poll_id = ?", p.ID).Delete(&PollOption{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("id = ?", p.ID).Delete(&Poll{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
