package controllers

import (
	"Chirp/middlewares"
)

func (s *Server) initializeRoutes() {

	v1 := s.Router.Group("/api/v1")
	authed := middlewares.TokenAuthMiddleware(s.DB)
	{
		// Auth routes
		v1.POST("/login", middlewares.LoginRateLimitMiddleware(), s.Login)
		v1.POST("/password/forgot", middlewares.LoginRateLimitMiddleware(), s.ForgotPassword)
		v1.POST("/password/reset", middlewares.LoginRateLimitMiddleware(), s.ResetPassword)

		// Users routes
		v1.POST("/users", s.CreateUser)
		v1.GET("/users", s.GetUsers)
		v1.GET("/users/:id", s.GetUser)
		v1.PUT("/users/:id", authed, s.UpdateUser)
		v1.PUT("/users/:id/avatar", authed, s.UpdateAvatar)
		v1.DELETE("/users/:id", authed, s.DeleteUser)

		// Follow routes
		v1.POST("/follows/:id", authed, s.FollowUser)
		v1.DELETE("/follows/:id", authed, s.UnfollowUser)
		v1.GET("/follows/followers/:id", s.GetFollowers)
		v1.GET("/follows/following/:id", s.GetFollowing)
		v1.GET("/follows/followers/count/:id", s.CountFollowers)
		v1.GET("/follows/following/count/:id", s.CountFollowing)

		// Feed routes
		v1.GET("/feeds", authed, s.GetFollowingFeed)
		v1.GET("/feeds/for-you", authed, s.GetForYouFeed)

		// Tweet routes
		v1.POST("/tweets", authed, s.CreateTweet)
		v1.GET("/tweets", s.GetTweets)
		v1.GET("/tweets/:id", s.GetTweet)
		v1.GET("/tweets/user/:id", s.GetUserTweets)
		v1.PUT("/tweets/:id", authed, s.UpdateTweet)
		v1.DELETE("/tweets/:id", authed, s.DeleteTweet)

		// Like routes
		v1.POST("/tweets/:id/like", authed, s.LikeTweet)
		v1.DELETE("/tweets/:id/like", authed, s.UnlikeTweet)
		v1.GET("/tweets/:id/likes", s.GetTweetLikes)

		// Retweet routes
		v1.POST("/retweets", authed, s.CreateRetweet)
		v1.DELETE("/retweets/:id", authed, s.DeleteRetweet)
		v1.GET("/retweets/tweet/:id", s.GetTweetRetweets)
		v1.GET("/retweets/count/:id", s.GetRetweetCount)
		v1.GET("/retweets/user/:id", s.GetUserRetweets)

		// Reply routes
		v1.POST("/replies", authed, s.CreateReply)
		v1.GET("/replies/tweet/:id", s.GetTweetReplies)

		// Poll routes
		v1.POST("/polls", authed, s.CreatePoll)
		v1.POST("/polls/:id/vote", authed, s.VoteOnPoll)
		v1.GET("/polls/:id", s.GetPoll)
		v1.GET("/polls/tweet/:id", s.GetTweetPolls)

		// Notification routes
		v1.GET("/notifications", authed, s.GetNotifications)
		v1.PATCH("/notifications/read-all", authed, s.MarkAllNotificationsRead)
		v1.PATCH("/notifications/:id/read", authed, s.MarkNotificationRead)
		v1.PATCH("/notifications/:id/archive", authed, s.ArchiveNotification)
	}
}
