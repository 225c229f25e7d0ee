package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/config"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/logger"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
	"github.com/arturocg96/EduTrackAPI/internal/service"
)

// database-service migrates the schema, seeds the roles and the configured
// admin account, then exits.
func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zlog, err := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting EduTrack database migration")

	// Open runs the migrations
	db, err := repository.Open(repository.Options{
		URL:      cfg.Database.URL,
		LogLevel: cfg.Log.Level,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer repository.Close(db)

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	if cfg.Admin.Password == "" {
		if err := users.EnsureRoles(ctx, model.AllRoles...); err != nil {
			logger.Fatal("Failed to seed roles", zap.Error(err))
		}
		logger.Warn("admin.password is empty, skipping admin seed")
	} else {
		hash, err := service.NewBcryptHasher().Hash(cfg.Admin.Password)
		if err != nil {
			logger.Fatal("Failed to hash admin password", zap.Error(err))
		}
		if err := repository.SeedAdmin(ctx, users, cfg.Admin.Username, cfg.Admin.Name, hash, zlog.Named("seed")); err != nil {
			logger.Fatal("Failed to seed admin user", zap.Error(err))
		}
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Database ready (tables migrated, roles seeded)")
	fmt.Println(strings.Repeat("=", 60))
}
