package seed

import (
	"log"

	"Chirp/models"

	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username:    "ada",
		Email:       "ada@example.com",
		Password:    "password",
		DisplayName: "Ada Lovelace",
		Bio:         "First of the programmers",
	},
	{
		Username:    "grace",
		Email:       "grace@example.com",
		Password:    "password",
		DisplayName: "Grace Hopper",
		Bio:         "It's easier to ask forgiveness than permission",
	},
}

var tweets = []models.Tweet{
	{
		Content: "The Analytical Engine weaves algebraic patterns just as the Jacquard loom weaves flowers and leaves.",
		Type:    models.TweetTypeText,
	},
	{
		Content: "A ship in port is safe, but that is not what ships are built for.",
		Type:    models.TweetTypeText,
	},
}

// Load wipes the dev database and plants two users who each posted a tweet
// and follow one another.
func Load(db *gorm.DB) {
	err := db.Migrator().DropTable(
		&models.PollVote{}, &models.PollOption{}, &models.Poll{},
		&models.Notification{}, &models.Reply{}, &models.Retweet{},
		&models.Like{}, &models.Follow{}, &models.Tweet{},
		&models.ResetPassword{}, &models.User{},
	)
	if err != nil {
		log.Fatalf("cannot drop tables: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{}, &models.Follow{}, &models.Tweet{}, &models.Like{},
		&models.Retweet{}, &models.Reply{}, &models.Poll{}, &models.PollOption{},
		&models.PollVote{}, &models.Notification{}, &models.ResetPassword{},
	)
	if err != nil {
		log.Fatalf("cannot migrate tables: %v", err)
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("cannot seed users table: %v", err)
		}
		tweets[i].AuthorID = users[i].ID

		if err := db.Create(&tweets[i]).Error; err != nil {
			log.Fatalf("cannot seed tweets table: %v", err)
		}
	}

	follows := []models.Follow{
		{FollowerID: users[0].ID, FollowedID: users[1].ID},
		{FollowerID: users[1].ID, FollowedID: users[0].ID},
	}
	for i := range follows {
		if err := db.Create(&follows[i]).Error; err != nil {
			log.Fatalf("cannot seed follows table: %v", err)
		}
	}
	err = db.Model(&models.User{}).
		Where("id IN ?", []uint{users[0].ID, users[1].ID}).
		Updates(map[string]interface{}{"followers_count": 1, "following_count": 1}).Error
	if err != nil {
		log.Fatalf("cannot seed follow counters: %v", err)
	}
}
