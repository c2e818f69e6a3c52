package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/mailer"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/middleware"
)

// Deps are the long-lived resources opened by main.
type Deps struct {
	Store       *database.Store
	Cache       database.PostCache
	RateLimiter middleware.RateLimiter
	Mailer      mailer.EmailSender
	Runner      service.BackgroundRunner
	AuthOptions []service.AuthOption
}

// App is the wired HTTP application.
type App struct {
	Engine  *gin.Engine
	Handler http.Handler
	Auth    service.AuthService
	Tags    service.TagRegistry
	Posts   service.PostService
}

// NewApp builds repositories, services, handlers and the router.
func NewApp(cfg *config.Config, logger *slog.Logger, deps Deps) (*App, error) {
	db := deps.Store.DB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, logger, deps.AuthOptions...)
	tagRegistry := service.NewTagRegistry(deps.Store, tagRepo, logger)
	postService := service.NewPostService(deps.Store, postRepo, tagRepo, tagRegistry, deps.Cache, logger)
	commentService := service.NewCommentService(commentRepo, postRepo, logger)
	newsletterService := service.NewNewsletterService(newsletterRepo, deps.Mailer, deps.Runner, logger)
	mediaService, err := service.NewMediaService(cfg.UploadDir, cfg.MaxFileSize, logger)
	if err != nil {
		return nil, err
	}

	// Handlers & Middleware
	handlers := Handlers{
		Auth:       handler.NewAuthHandler(authService, logger),
		Admin:      handler.NewAdminHandler(newsletterService, logger),
		Post:       handler.NewPostHandler(postService, logger),
		Comment:    handler.NewCommentHandler(commentService, logger),
		Newsletter: handler.NewNewsletterHandler(newsletterService, logger),
		Upload:     handler.NewUploadHandler(mediaService, cfg.PublicURL, cfg.MaxFileSize, logger),
	}
	authMiddleware := middleware.NewAuthMiddleware(authService, logger)

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewNoOpRateLimiter(logger)
	}

	engine := SetupRouter(handlers, authMiddleware, rateLimiter, cfg.UploadDir, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	})

	return &App{
		Engine:  engine,
		Handler: corsHandler.Handler(engine),
		Auth:    authService,
		Tags:    tagRegistry,
		Posts:   postService,
	}, nil
}
