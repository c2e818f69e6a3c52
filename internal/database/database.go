package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedMigrations embed.FS

// Store owns the connection pool. It is opened once at startup and closed on shutdown.
type Store struct {
	db     *gorm.DB
	driver string
	logger *slog.Logger
}

// Open connects to the configured database and applies pending migrations.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err = openSQLite(cfg.SQLitePath, gormCfg, logger)
	default:
		db, err = openPostgres(cfg, gormCfg, logger)
	}
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, driver: cfg.DBDriver, logger: logger}

	logger.Info("🔄 [Database] Running migrations...", "driver", cfg.DBDriver)
	if err := store.migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("✅ [Database] Migrations completed successfully")

	return store, nil
}

// NewStore wraps an already opened gorm handle without running migrations.
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, driver: db.Dialector.Name(), logger: logger}
}

func openPostgres(cfg *config.Config, gormCfg *gorm.Config, logger *slog.Logger) (*gorm.DB, error) {
	logger.Info("🔌 [Database] Connecting to PostgreSQL...",
		"host", cfg.PostgreSQLHost,
		"port", cfg.PostgreSQLPort,
		"database", cfg.PostgreSQLDatabase,
	)

	var db *gorm.DB
	var err error
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			} else {
				err = dbErr
			}
		}

		if i < maxRetries-1 {
			logger.Warn("⏳ [Database] Connection failed, retrying...",
				"attempt", i+1,
				"max_retries", maxRetries,
				"retry_in", retryDelay,
				"error", err,
			)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", maxRetries, err)
	}

	logger.Info("✅ [Database] Database connection established")
	return db, nil
}

func openSQLite(path string, gormCfg *gorm.Config, logger *slog.Logger) (*gorm.DB, error) {
	logger.Info("🔌 [Database] Opening SQLite database...", "path", path)

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// One connection: writers serialize, and ":memory:" stays a single database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	logger.Info("✅ [Database] Database connection established")
	return db, nil
}

// sqliteDSN turns on foreign keys for every connection the driver opens.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func (s *Store) migrate() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	dialect, dir := "postgres", "migrations/postgres"
	if s.driver == config.DriverSQLite {
		dialect, dir = "sqlite3", "migrations/sqlite"
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	return nil
}

// DB returns the root gorm handle for non-transactional work.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithTx begins a transaction, runs fn, and commits when fn returns nil.
// Any error or panic from fn rolls back; a panic is re-raised afterwards.
// The connection goes back to the pool on every path, even if rollback fails.
func (s *Store) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback().Error
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				s.logger.Error("❌ [Database] Rollback failed", "error", rbErr)
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := tx.Commit().Error; commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return err
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.logger.Info("🛑 [Database] Closing connection pool")
	return sqlDB.Close()
}
