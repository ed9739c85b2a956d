package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"reelpilot/domain/repository"
	"reelpilot/infrastructure/realtime"
	httpHandler "reelpilot/interfaces/http"
	"reelpilot/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	seriesHandler httpHandler.ISeriesHandler,
	videoHandler httpHandler.IVideoHandler,
	publishHandler httpHandler.IPublishHandler,
	connectHandler httpHandler.IConnectHandler,
	statusHub *realtime.Hub,
	userRepository repository.IUser,
	mediaDir string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:4201", "https://localhost:4200", "https://localhost:4201"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// OAuth callbacks land here unauthenticated; the user identity comes from
	// the stored handshake state, not from a session.
	router.GET("/auth/:platform/callback", connectHandler.Callback)

	// Render artifacts must be URL-reachable for platforms that ingest by URL.
	if mediaDir != "" {
		router.Static("/media", mediaDir)
	}

	// Render service callback; not behind user auth.
	internal := router.Group("internal")
	internal.POST("/videos/:videoId/render-complete", videoHandler.RenderComplete)

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	api.GET("/auth/:platform", connectHandler.Connect)
	api.GET("/connections", connectHandler.List)
	api.DELETE("/connections/:platform", connectHandler.Disconnect)

	series := api.Group("/series")
	{
		series.POST("", seriesHandler.Create)
		series.GET("", seriesHandler.List)
		series.GET("/:seriesId", seriesHandler.Get)
		series.PATCH("/:seriesId", seriesHandler.Update)
		series.DELETE("/:seriesId", seriesHandler.Delete)
		series.GET("/:seriesId/videos", videoHandler.ListBySeries)
		series.POST("/:seriesId/generate", videoHandler.GenerateNow)
	}

	videos := api.Group("/videos")
	{
		videos.GET("/:videoId", videoHandler.Get)
		videos.POST("/:videoId/publish", publishHandler.PublishVideo)
	}

	api.GET("/publish/platforms", publishHandler.VerifyPlatforms)

	// SSE endpoint for real-time publish and generation status
	if statusHub != nil {
		api.GET("/events/stream", statusHub.Serve)
	}

	return router
}
