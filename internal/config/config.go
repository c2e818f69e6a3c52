package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv         string     `env:"APP_ENV" envDefault:"development"`
	LogLevel       slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	ApiServicePort string     `env:"API_SERVICE_PORT" envDefault:"3001"`
	PublicURL      string     `env:"PUBLIC_URL"` // Base URL for uploaded files; derived from the request when empty

	DBDriver           string `env:"DB_DRIVER" envDefault:"postgres"`
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"db"`
	PostgreSQLPort     int64  `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"blog_user"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"blog_password"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"blog_db"`
	SQLitePath         string `env:"SQLITE_PATH" envDefault:"blog.db"`

	JWTSecret              string `env:"JWT_SECRET" envDefault:"blog_secret"`
	AccessTokenExpiration  int64  `env:"ACCESS_TOKEN_EXPIRATION" envDefault:"900"`     // 15 minutes
	RefreshTokenExpiration int64  `env:"REFRESH_TOKEN_EXPIRATION" envDefault:"604800"` // 7 days
	TokenCleanupInterval   int64  `env:"TOKEN_CLEANUP_INTERVAL" envDefault:"3600"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"redis"`
	RedisPort     int64  `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDatabase int64  `env:"REDIS_DATABASE" envDefault:"0"`
	PostCacheTTL  int64  `env:"POST_CACHE_TTL" envDefault:"300"`

	RateLimitRequests int64 `env:"RATE_LIMIT_REQUESTS" envDefault:"10"`
	RateLimitWindow   int64 `env:"RATE_LIMIT_WINDOW" envDefault:"60"`

	UploadDir   string `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	MaxFileSize int64  `env:"MAX_FILE_SIZE" envDefault:"5242880"` // 5 MB

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"blog@example.com"`
}

// LoadConfig reads .env (if any) and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiration) * time.Second
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpiration) * time.Second
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.PostgreSQLHost,
		c.PostgreSQLUser,
		c.PostgreSQLPassword,
		c.PostgreSQLDatabase,
		c.PostgreSQLPort,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
