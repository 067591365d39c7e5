package api

import (
	"Quad/internal/api/middleware"
	"Quad/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		feedGroup := apiGroup.Group("/feed")
		{
			// 未登录也能刷，只是退化成时间序
			authOptGroup := feedGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.FeedHandler.GetFeed)
			}

			authGroup := feedGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/interactions", group.FeedHandler.TrackInteraction)
			}
		}

		engagementGroup := apiGroup.Group("/engagement")
		{
			engagementGroup.GET("/levels", group.EngagementHandler.ListLevels)

			authGroup := engagementGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/actions", group.EngagementHandler.TrackAction)
				authGroup.GET("/summary", group.EngagementHandler.GetSummary)
				authGroup.GET("/streaks", group.EngagementHandler.GetStreaks)
				authGroup.GET("/achievements", group.EngagementHandler.GetAchievements)
				authGroup.GET("/level", group.EngagementHandler.GetUserLevel)
			}
		}

		notificationGroup := apiGroup.Group("/notifications")
		{
			notificationGroup.Use(middleware.AuthMiddleware())
			{
				notificationGroup.GET("", group.NotificationHandler.GetNotifications)
				notificationGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
				notificationGroup.POST("/read", group.NotificationHandler.MarkRead)
			}
		}

		hideGroup := apiGroup.Group("/hides")
		{
			hideGroup.Use(middleware.AuthMiddleware())
			{
				hideGroup.POST("/posts/:post_id", group.HideHandler.HidePost)
				hideGroup.POST("/users/:user_id", group.HideHandler.HideAuthor)
			}
		}

		apiGroup.GET("/ws", group.WsHandler.Connect)
	}

	return r
}
