package api

import (
	"Palisade/internal/api/middleware"
	"Palisade/internal/pkg/logger"
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

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/detail/:post_id", group.PostHandler.GetPostDetail)
				authOptGroup.GET("/:post_id/revisions", group.RevisionHandler.ListRevisions)
				authOptGroup.GET("/:post_id/revisions/:version", group.RevisionHandler.GetRevision)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.RevisionHandler.UpdatePost)
				authGroup.POST("/:post_id/restore", group.RevisionHandler.RestoreVersion)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
			}

			auditGroup := authGroup.Group("/audit")
			auditGroup.Use(middleware.CheckRoles("AUDIT", "ADMIN"))
			{
				auditGroup.PUT("/:post_id/status", group.PostHandler.UpdatePostStatus)
			}
		}

		postActionGroup := apiGroup.Group("/post/action")
		{
			authOptGroup := postActionGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/state/:post_id", group.PostActionHandler.GetPostActionState)
			}

			authActionGroup := postActionGroup.Group("")
			authActionGroup.Use(middleware.AuthMiddleware())
			{
				authActionGroup.POST("/likes/:post_id", group.PostActionHandler.LikePost)
				authActionGroup.POST("/collects/:post_id", group.PostActionHandler.CollectPost)

				authActionGroup.GET("/liked", group.PostActionHandler.GetUserLikes)
				authActionGroup.GET("/collections", group.PostActionHandler.GetUserCollections)
			}
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(middleware.AuthMiddleware())
		{
			sysbox.GET("/list", group.NotificationHandler.GetNotificationList)
			sysbox.POST("/read", group.NotificationHandler.MarkAsRead)
			sysbox.POST("/read/all", group.NotificationHandler.MarkAllAsRead)
		}
	}

	return r
}
