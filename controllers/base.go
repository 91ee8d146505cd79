package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"Chirp/cache"
	"Chirp/middlewares"
	"Chirp/models"
	"Chirp/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MediaUploader is the contract the media host must satisfy. Tests stub it;
// production wires the S3 client.
type MediaUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

type Server struct {
	DB     *gorm.DB
	Router *gin.Engine
	Media  MediaUploader
}

const requestTimeout = 3 * time.Second

// ===============================
// SERVER INITIALIZATION
// ===============================
func (server *Server) Initialize(DbUser, DbPassword, DbPort, DbHost, DbName string) {
	var dsn string

	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		dsn = os.Getenv("DATABASE_URL")
		if dsn != "" && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
	} else {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			DbHost, DbUser, DbPassword, DbName, DbPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Cannot connect to Postgres: %v", err)
	}
	server.DB = db

	if err := server.Migrate(); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	if err := ensureFollowConstraints(server.DB); err != nil {
		log.Printf("warning: follow constraints not ensured: %v", err)
	}
	if err := ensureRetweetConstraints(server.DB); err != nil {
		log.Printf("warning: retweet constraints not ensured: %v", err)
	}

	// Redis init (safe failure)
	if err := cache.InitFromEnv(); err != nil {
		log.Printf("warning: could not connect to redis: %v", err)
	}

	// S3 media host (safe failure; uploads rejected until configured)
	media, err := storage.NewS3FromEnv(context.Background())
	if err != nil {
		log.Printf("warning: media uploads disabled: %v", err)
	} else {
		server.Media = media
	}

	server.Router = gin.Default()
	server.Router.Use(middlewares.CORSMiddleware())
	server.Router.Use(middlewares.RateLimitMiddleware())
	server.Router.Use(middlewares.TimeoutMiddleware(requestTimeout))
	server.initializeRoutes()
}

// Migrate creates the schema; also used by tests against sqlite.
func (server *Server) Migrate() error {
	return server.DB.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tweet{},
		&models.Like{},
		&models.Retweet{},
		&models.Reply{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Notification{},
		&models.ResetPassword{},
	)
}

func (server *Server) Run(addr string) {
	log.Fatal(http.ListenAndServe(addr, server.Router))
}

// dbc binds queries to the request context so the global timeout aborts them.
func (server *Server) dbc(c *gin.Context) *gorm.DB {
	return server.DB.WithContext(c.Request.Context())
}

func ensureFollowConstraints(db *gorm.DB) error {
	var count int64
	if err := db.Raw(
		"SELECT COUNT(1) FROM pg_constraint WHERE conname = ?",
		"follows_no_self_follow",
	).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Exec(
			"ALTER TABLE follows ADD CONSTRAINT follows_no_self_follow CHECK (follower_id <> followed_id)",
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// Plain retweets are unique per (user, tweet); quote retweets are exempt.
// AutoMigrate cannot express a partial index, so it is created here for
// Postgres. The create transaction carries the portable duplicate check.
func ensureRetweetConstraints(db *gorm.DB) error {
	var count int64
	if err := db.Raw(
		"SELECT COUNT(1) FROM pg_indexes WHERE indexname = ?",
		"idx_retweets_plain_unique",
	).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Exec(
			"CREATE UNIQUE INDEX idx_retweets_plain_unique ON retweets (user_id, tweet_id) WHERE comment IS NULL",
		).Error; err != nil {
			return err
		}
	}
	return nil
}
