package controllers

import (
	"errors"
	"net/http"
	"time"

	"Chirp/auth"
	"Chirp/models"
	"Chirp/responses"
	"Chirp/utils/formaterror"
	httpctx "Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errPollExists      = errors.New("tweet already has a poll")
	errPollExpired     = errors.New("poll has expired")
	errPollOptionOther = errors.New("option belongs to another poll")
	errPollDoubleVote  = errors.New("user already voted")
)

type createPollInput struct {
	TweetID       uint       `json:"tweet_id"`
	Options       []string   `json:"options"`
	ExpiresAt     *time.Time `json:"expires_at"`
	DurationHours int        `json:"duration_hours"`
}

// CreatePoll attaches a poll to a tweet. A tweet carries at most one poll;
// the existence check runs in the create transaction and the unique index on
// tweet_id settles any concurrent tie. Expiry comes from expires_at, or from
// duration_hours as a convenience when no timestamp is given.
func (server *Server) CreatePoll(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input createPollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Cannot unmarshal body")
		return
	}

	poll := models.Poll{
		TweetID:  input.TweetID,
		AuthorID: uid,
		Options:  make([]models.PollOption, len(input.Options)),
	}
	for i, label := range input.Options {
		poll.Options[i] = models.PollOption{Label: label}
	}
	if input.ExpiresAt != nil {
		expires := input.ExpiresAt.UTC()
		poll.ExpiresAt = &expires
	} else if input.DurationHours > 0 {
		expires := time.Now().Add(time.Duration(input.DurationHours) * time.Hour)
		poll.ExpiresAt = &expires
	}
	poll.Prepare()

	if errorMessages := poll.Validate(); len(errorMessages) > 0 {
		responses.Error(c, http.StatusBadRequest, "A poll needs a tweet and between 2 and 4 non-empty options")
		return
	}

	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Tweet{}, input.TweetID).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Poll{}).Where("tweet_id = ?", input.TweetID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errPollExists
		}

		return tx.Create(&poll).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	case errors.Is(err, errPollExists):
		responses.Error(c, http.StatusConflict, "This tweet already has a poll")
		return
	case err != nil:
		if formaterror.IsUniqueViolation(err.Error()) {
			responses.Error(c, http.StatusConflict, "This tweet already has a poll")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Error creating poll")
		return
	}

	responses.JSON(c, http.StatusCreated, "Poll created successfully", poll)
}

type voteInput struct {
	OptionID uint `json:"option_id"`
}

// VoteOnPoll records one vote per user per poll. Expiry is checked against
// the wall clock at vote time; the vote row and its unique index carry the
// one-vote rule.
func (server *Server) VoteOnPoll(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	pid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid poll ID")
		return
	}

	var input voteInput
	if err := c.ShouldBindJSON(&input); err != nil || input.OptionID == 0 {
		responses.Error(c, http.StatusBadRequest, "Option is required")
		return
	}

	err := server.dbc(c).Transaction(func(tx *gorm.DB) error {
		poll := models.Poll{}
		if _, err := poll.FindPollByID(tx, pid); err != nil {
			return err
		}
		if poll.IsExpired(time.Now()) {
			return errPollExpired
		}

		optionBelongs := false
		for _, option := range poll.Options {
			if option.ID == input.OptionID {
				optionBelongs = true
				break
			}
		}
		if !optionBelongs {
			return errPollOptionOther
		}

		var existing int64
		if err := tx.Model(&models.PollVote{}).
			Where("poll_id = ? AND user_id = ?", pid, uid).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errPollDoubleVote
		}

		vote := models.PollVote{PollID: pid, OptionID: input.OptionID, UserID: uid}
		return tx.Create(&vote).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		responses.Error(c, http.StatusNotFound, "Poll not found")
		return
	case errors.Is(err, errPollExpired):
		responses.Error(c, http.StatusBadRequest, "This poll has expired")
		return
	case errors.Is(err, errPollOptionOther):
		responses.Error(c, http.StatusNotFound, "Option not found in this poll")
		return
	case errors.Is(err, errPollDoubleVote):
		responses.Error(c, http.StatusConflict, "You have already voted in this poll")
		return
	case err != nil:
		if formaterror.IsUniqueViolation(err.Error()) {
			responses.Error(c, http.StatusConflict, "You have already voted in this poll")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Error recording vote")
		return
	}

	server.respondWithTally(c, pid, &uid, http.StatusCreated, "Vote recorded successfully")
}

// GetPoll returns the poll with its live tally.
func (server *Server) GetPoll(c *gin.Context) {
	pid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid poll ID")
		return
	}

	server.respondWithTally(c, pid, optionalViewer(c), http.StatusOK, "Success")
}

// optionalViewer identifies the caller on routes that work with or without a
// token; anonymous viewers just get the tally without the user_voted flag.
func optionalViewer(c *gin.Context) *uint {
	if uid, ok := httpctx.CurrentUserID(c); ok {
		return &uid
	}
	if uid, err := auth.ExtractTokenID(c.Request); err == nil {
		return &uid
	}
	return nil
}

// GetTweetPolls returns the poll attached to a tweet, tallied.
func (server *Server) GetTweetPolls(c *gin.Context) {
	tid, ok := parseUintParam(c, "id")
	if !ok {
		responses.Error(c, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	if err := server.dbc(c).Select("id").First(&models.Tweet{}, tid).Error; err != nil {
		responses.Error(c, http.StatusNotFound, "Tweet not found")
		return
	}

	viewer := optionalViewer(c)

	polls := []models.Poll{}
	if err := server.dbc(c).Preload("Options").Where("tweet_id = ?", tid).Find(&polls).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error loading polls")
		return
	}

	results := make([]*models.PollResult, 0, len(polls))
	for i := range polls {
		tally, err := polls[i].Tally(server.dbc(c), viewer)
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Error tallying poll")
			return
		}
		results = append(results, tally)
	}

	responses.JSON(c, http.StatusOK, "Success", gin.H{"polls": results})
}

func (server *Server) respondWithTally(c *gin.Context, pid uint, viewer *uint, status int, message string) {
	poll := models.Poll{}
	if _, err := poll.FindPollByID(server.dbc(c), pid); err != nil {
		responses.Error(c, http.StatusNotFound, "Poll not found")
		return
	}

	tally, err := poll.Tally(server.dbc(c), viewer)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Error tallying poll")
		return
	}

	responses.JSON(c, status, message, tally)
}
