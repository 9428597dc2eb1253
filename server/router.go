package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "feedhub/interfaces/http"
	"feedhub/interfaces/middleware"
)

func InitiateRouter(
	feedHandler httpHandler.IFeedHandler,
	subscriptionHandler httpHandler.ISubscriptionHandler,
	playlistHandler httpHandler.IPlaylistHandler,
	searchHandler httpHandler.ISearchHandler,
	authHandler httpHandler.IAuthHandler,
	healthHandler httpHandler.IHealthHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)

	// OAuth flow lives outside /api: the browser is redirected here.
	if authHandler != nil {
		router.GET("/auth/youtube", authHandler.GetAuthURL)
		router.GET("/auth/youtube/callback", authHandler.HandleCallback)
	}

	api := router.Group("api")
	if authHandler != nil {
		api.GET("/auth/status", authHandler.Status)
		api.POST("/auth/logout", authHandler.Logout)
	}

	api.GET("/feed", feedHandler.GetFeed)

	api.GET("/subscriptions", subscriptionHandler.GetSubscriptions)
	api.POST("/subscriptions", subscriptionHandler.Subscribe)
	api.DELETE("/subscriptions/:subscriptionId", subscriptionHandler.Unsubscribe)

	api.GET("/playlists", playlistHandler.GetPlaylists)
	api.POST("/playlists", playlistHandler.CreatePlaylist)
	api.GET("/playlists/:playlistId/videos", playlistHandler.GetPlaylistVideos)
	api.DELETE("/playlists/:playlistId", playlistHandler.DeletePlaylist)
	api.POST("/playlists/:playlistId/videos", playlistHandler.AddVideo)
	api.DELETE("/playlists/:playlistId/videos/:videoId", playlistHandler.RemoveVideo)

	api.GET("/videos/:videoId/playlists", playlistHandler.GetMembership)
	api.POST("/videos/:videoId/save", playlistHandler.ToggleSave)

	api.GET("/search/channels", searchHandler.SearchChannels)
	api.GET("/search/videos", searchHandler.SearchVideos)
	api.POST("/search/channels/follow", searchHandler.FollowSelected)

	return router
}
