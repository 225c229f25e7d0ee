package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/arturocg96/EduTrackAPI/internal/model"
)

// ErrPersistence wraps every failed save against the store.
var ErrPersistence = errors.New("persistence error")

// Options configures the database connection
type Options struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	LogLevel     string
}

// IsPostgresURL reports whether url should be opened with the postgres driver.
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://") ||
		strings.Contains(url, "host=")
}

func dialector(url string) (gorm.Dialector, error) {
	if IsPostgresURL(url) {
		return postgres.Open(url), nil
	}

	path := url
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "file:")
	if path != "" && path != ":memory:" {
		// Ensure data directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := url
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}
	return sqlite.Open(dsn), nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

// Open connects to the store and migrates the schema.
func Open(opts Options) (*gorm.DB, error) {
	d, err := dialector(opts.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Set connection pool parameters
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Migrate creates or updates all tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Category{},
		&model.Course{},
		&model.RoleRecord{},
		&model.User{},
	)
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx executes fn within a transaction; a returned error or panic rolls it back.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// SeedAdmin creates the configured admin account when no user with that
// username exists. hash is the already hashed password.
func SeedAdmin(ctx context.Context, users *UserRepository, username, name, hash string, log *zap.Logger) error {
	log.Debug("Starting admin user initialization", zap.String("username", username))

	if err := users.EnsureRoles(ctx, model.AllRoles...); err != nil {
		return err
	}

	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check if admin user exists: %w", err)
	}
	if existing != nil {
		log.Info("Admin user already exists, skipping creation")
		return nil
	}

	admin := &model.User{
		Username:     username,
		Name:         name,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	if err := users.AddToRole(ctx, admin, model.RoleAdmin); err != nil {
		return fmt.Errorf("failed to assign admin role: %w", err)
	}

	log.Info("Admin user created successfully", zap.String("username", username))
	return nil
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
