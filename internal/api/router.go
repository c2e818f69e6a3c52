package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
	Post       *handler.PostHandler
	Comment    *handler.CommentHandler
	Newsletter *handler.NewsletterHandler
	Upload     *handler.UploadHandler
}

func SetupRouter(
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter middleware.RateLimiter,
	uploadDir string,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	_ = r.SetTrustedProxies(nil)

	limit := middleware.RateLimit(rateLimiter, logger)
	requireAuth := authMiddleware.RequireAuth()

	// Public routes
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API do blog funcionando! 🚀")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/uploads", uploadDir)

	// Auth routes
	r.POST("/register", limit, h.Auth.Register)
	r.POST("/login", limit, h.Auth.Login)
	r.POST("/refresh-token", h.Auth.RefreshToken)
	r.POST("/logout", h.Auth.Logout)
	r.GET("/auth/verify", requireAuth, h.Auth.Verify)
	r.GET("/admin", requireAuth, h.Admin.Panel)

	// Posts
	posts := r.Group("/posts")
	{
		posts.GET("", h.Post.List)
		posts.GET("/:id", h.Post.Get)
		posts.GET("/:id/comments", h.Comment.List)
		posts.POST("/:id/comments", limit, h.Comment.Create)

		posts.POST("", requireAuth, h.Post.Create)
		posts.PUT("/:id", requireAuth, h.Post.Update)
		posts.DELETE("/:id", requireAuth, h.Post.Delete)
	}
	r.GET("/categories", h.Post.Categories)

	// Newsletter
	r.POST("/newsletter", limit, h.Newsletter.Subscribe)
	r.GET("/newsletter", requireAuth, h.Admin.Subscribers)

	// Media
	r.POST("/upload", requireAuth, h.Upload.Upload)

	return r
}
