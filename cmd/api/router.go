package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moments-backend/internal/infrastructure/metrics"
	"moments-backend/internal/shared/middleware"
	"moments-backend/pkg/container"
)

func SetupRouter(c *container.Container, ipLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(c.Config.App.CORSOrigins),
		middleware.ClientIPMiddleware(),
		ipLimiter.Handler(),
	)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))
		v1.GET("/ws", c.RealtimeHandler.Serve)

		setupAuthRoutes(v1, c)
		setupProfileRoutes(v1, c)
		setupMomentRoutes(v1, c)
		setupApplicationRoutes(v1, c)
		setupConversationRoutes(v1, c)
		setupReportRoutes(v1, c)
		setupBlockRoutes(v1, c)
		setupNotificationRoutes(v1, c)
		setupPostRoutes(v1, c)
		setupCommentRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.ProfileHandler.Register)
		auth.POST("/login", c.ProfileHandler.Login)
		auth.POST("/refresh", c.ProfileHandler.Refresh)
	}
}

// ========================================
// PROFILE ROUTES (incl. follows and reviews)
// ========================================
func setupProfileRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	profiles := v1.Group("/profiles")
	{
		profiles.GET("/me", auth, c.ProfileHandler.GetMe)
		profiles.PUT("/me", auth, c.ProfileHandler.UpdateMe)
		profiles.POST("/me/avatar", auth, c.ProfileHandler.UploadAvatar)

		profiles.GET("/:id", c.ProfileHandler.GetPublic)
		profiles.GET("/:id/reviews", c.ReviewHandler.ListProfileReviews)
		profiles.GET("/:id/followers", c.FollowHandler.Followers)
		profiles.GET("/:id/following", c.FollowHandler.Following)
		profiles.GET("/:id/posts", auth, c.PostHandler.ListByAuthor)

		profiles.GET("/:id/following-status", auth, c.FollowHandler.Status)
		profiles.POST("/:id/follow", auth, c.FollowHandler.Follow)
		profiles.DELETE("/:id/follow", auth, c.FollowHandler.Unfollow)
	}
}

// ========================================
// MOMENT ROUTES
// ========================================
func setupMomentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	moments := v1.Group("/moments")
	{
		// Public, personalised when a token is present
		moments.GET("/feed", middleware.OptionalAuth(c.JWTManager), c.MomentHandler.Feed)
		moments.GET("/categories", c.MomentHandler.Categories)
		moments.GET("/mine", auth, c.MomentHandler.Mine)
		moments.GET("/:id", middleware.OptionalAuth(c.JWTManager), c.MomentHandler.Get)

		moments.POST("", auth, c.MomentHandler.Create)
		moments.POST("/:id/cancel", auth, c.MomentHandler.Cancel)

		moments.POST("/:id/applications", auth, c.ApplicationHandler.Apply)
		moments.GET("/:id/applications", auth, c.ApplicationHandler.ListForMoment)

		moments.POST("/:id/reviews", auth, c.ReviewHandler.CreateReview)
	}
}

// ========================================
// APPLICATION ROUTES
// ========================================
func setupApplicationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	applications := v1.Group("/applications")
	applications.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		applications.GET("/mine", c.ApplicationHandler.ListMine)
		applications.POST("/:id/accept", c.ApplicationHandler.Accept)
		applications.POST("/:id/reject", c.ApplicationHandler.Reject)
		applications.POST("/:id/withdraw", c.ApplicationHandler.Withdraw)
	}
}

// ========================================
// CONVERSATION ROUTES
// ========================================
func setupConversationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	conversations := v1.Group("/conversations")
	conversations.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		conversations.GET("", c.ConversationHandler.List)
		conversations.GET("/:id", c.ConversationHandler.Get)
		conversations.GET("/:id/messages", c.ConversationHandler.Messages)
		conversations.POST("/:id/messages", c.ConversationHandler.Send)
		conversations.POST("/:id/close", c.ConversationHandler.Close)
	}
}

// ========================================
// REPORT ROUTES
// ========================================
func setupReportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reports := v1.Group("/reports")
	reports.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		reports.POST("", c.ReportHandler.Create)
		reports.GET("/mine", c.ReportHandler.ListMine)
	}
}

// ========================================
// BLOCK ROUTES
// ========================================
func setupBlockRoutes(v1 *gin.RouterGroup, c *container.Container) {
	blocks := v1.Group("/blocks")
	blocks.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		blocks.GET("", c.BlockHandler.List)
		blocks.POST("", c.BlockHandler.Create)
		blocks.DELETE("/:userId", c.BlockHandler.Delete)
	}
}

// ========================================
// NOTIFICATION ROUTES
// ========================================
func setupNotificationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	notifications := v1.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		notifications.GET("", c.NotificationHandler.List)
		notifications.GET("/unread-count", c.NotificationHandler.UnreadCount)
		notifications.POST("/read-all", c.NotificationHandler.MarkAllRead)
		notifications.POST("/:id/read", c.NotificationHandler.MarkRead)
	}
}

// ========================================
// POST ROUTES
// ========================================
func setupPostRoutes(v1 *gin.RouterGroup, c *container.Container) {
	posts := v1.Group("/posts")
	posts.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		posts.GET("/feed", c.PostHandler.Feed)
		posts.POST("", c.PostHandler.Create)
		posts.GET("/saved", c.PostHandler.ListSaved)
		posts.GET("/:id", c.PostHandler.Get)
		posts.PUT("/:id", c.PostHandler.Update)
		posts.DELETE("/:id", c.PostHandler.Delete)

		posts.PUT("/:id/reaction", c.PostHandler.React)
		posts.POST("/:id/save", c.PostHandler.Save)
		posts.DELETE("/:id/save", c.PostHandler.Unsave)

		posts.GET("/:id/attachments", c.PostHandler.ListAttachments)
		posts.POST("/:id/attachments", c.PostHandler.UploadAttachment)
		posts.DELETE("/:id/attachments/:attachmentId", c.PostHandler.DeleteAttachment)

		posts.GET("/:id/comments", c.CommentHandler.List)
		posts.POST("/:id/comments", c.CommentHandler.Create)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	comments := v1.Group("/comments")
	comments.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		comments.PUT("/:id", c.CommentHandler.Update)
		comments.DELETE("/:id", c.CommentHandler.Delete)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.GET("/reports", c.ReportHandler.AdminList)
		admin.GET("/reports/export", c.ReportHandler.Export)
		admin.PUT("/reports/:id/status", c.ReportHandler.UpdateStatus)

		admin.PUT("/profiles/:id/role", c.ProfileHandler.SetRole)
		admin.PUT("/profiles/:id/verify", c.ProfileHandler.SetVerification)

		admin.POST("/expiry/run", c.ExpiryHandler.Run)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
			if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = stats
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
