package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
)

// ==================== TEST CONFIGURATION ====================

// TestConfig returns a configuration backed by in-memory SQLite
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		LogLevel:               slog.LevelError,
		ApiServicePort:         "3001",
		DBDriver:               config.DriverSQLite,
		SQLitePath:             ":memory:",
		JWTSecret:              "test-secret-key-for-testing-purposes",
		AccessTokenExpiration:  900,
		RefreshTokenExpiration: 604800,
		TokenCleanupInterval:   3600,
		PostCacheTTL:           300,
		RateLimitRequests:      10,
		RateLimitWindow:        3600,
		MaxFileSize:            1 << 20,
		CORSAllowedOrigins:     []string{"*"},
		MailFrom:               "blog@example.com",
	}
}

// TestLogger returns a silent logger for testing
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ==================== DATABASE ====================

// NewTestStore opens a migrated in-memory SQLite store and closes it with the test.
// Goose keeps global state, so tests using this must not run in parallel.
func NewTestStore(t *testing.T) *database.Store {
	t.Helper()

	store, err := database.Open(TestConfig(), TestLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// TestPasswordHash is the bcrypt hash of "password"
const TestPasswordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

// CreateUser inserts a user with a cheap bcrypt hash of password.
func CreateUser(t *testing.T, store *database.Store, nome, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Nome: nome, Email: email, Senha: string(hash)}
	require.NoError(t, store.DB().Create(user).Error)
	return user
}

// CreatePost inserts a post directly, bypassing the service layer.
func CreatePost(t *testing.T, store *database.Store, titulo, categoria string) *models.Post {
	t.Helper()

	post := &models.Post{
		Titulo:    titulo,
		Conteudo:  "Conteúdo de " + titulo,
		Categoria: categoria,
		Resumo:    "Resumo de " + titulo,
		Imagem:    "http://localhost/uploads/" + titulo + ".png",
	}
	require.NoError(t, store.DB().Create(post).Error)
	return post
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, store *database.Store, table string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, store.DB().Table(table).Count(&count).Error)
	return count
}

// ==================== CLOCK ====================

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at a whole second so JWT second precision does not skew boundaries.
func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ==================== BACKGROUND RUNNER ====================

// InlineRunner runs submitted tasks synchronously.
type InlineRunner struct{}

func (InlineRunner) SubmitWithTimeout(timeout time.Duration, task func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	task(ctx)
}
