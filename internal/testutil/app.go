package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/api"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/middleware"
)

// ==================== ROUTER SETUP HELPERS ====================

// TestApp is the fully wired application over in-memory SQLite.
type TestApp struct {
	*api.App
	Config *config.Config
	Store  *database.Store
	Clock  *Clock
	Mailer *RecordingSender
}

// AppOption adjusts the dependencies before the app is built.
type AppOption func(cfg *config.Config, deps *api.Deps)

// WithRateLimiter swaps the no-op limiter.
func WithRateLimiter(limiter middleware.RateLimiter) AppOption {
	return func(cfg *config.Config, deps *api.Deps) {
		deps.RateLimiter = limiter
	}
}

// WithPostCache swaps the no-op post cache.
func WithPostCache(cache database.PostCache) AppOption {
	return func(cfg *config.Config, deps *api.Deps) {
		deps.Cache = cache
	}
}

// NewTestApp wires the real services against a fresh database and a manual clock.
func NewTestApp(t *testing.T, opts ...AppOption) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	cfg.UploadDir = t.TempDir()

	store := NewTestStore(t)
	clock := NewClock()
	sender := &RecordingSender{}

	deps := api.Deps{
		Store:       store,
		Cache:       database.NoOpPostCache{},
		RateLimiter: &middleware.NoOpRateLimiter{},
		Mailer:      sender,
		Runner:      InlineRunner{},
		AuthOptions: []service.AuthOption{service.WithClock(clock.Now)},
	}
	for _, opt := range opts {
		opt(cfg, &deps)
	}

	app, err := api.NewApp(cfg, TestLogger(), deps)
	require.NoError(t, err)

	return &TestApp{
		App:    app,
		Config: cfg,
		Store:  store,
		Clock:  clock,
		Mailer: sender,
	}
}
