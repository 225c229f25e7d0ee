package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arturocg96/EduTrackAPI/internal/api"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/cache"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/config"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/jwt"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/logger"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/redis"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
	"github.com/arturocg96/EduTrackAPI/internal/service"
	"github.com/arturocg96/EduTrackAPI/internal/storage"
)

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

	logger.Info("Starting EduTrack API")

	tokens, err := jwt.NewManager(cfg.JWT.SecretKey, cfg.TokenTTL())
	if err != nil {
		logger.Fatal("Invalid JWT configuration", zap.Error(err))
	}

	// Initialize database
	db, err := repository.Open(repository.Options{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		LogLevel:     cfg.Log.Level,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer repository.Close(db)

	hasher := service.NewBcryptHasher()
	ctx := context.Background()

	if cfg.Admin.Password != "" {
		if err := seedAdmin(ctx, cfg, db, hasher, zlog); err != nil {
			logger.Fatal("Failed to seed admin user", zap.Error(err))
		}
	}

	// Response cache: Redis when enabled, in-process otherwise
	var store cache.Store
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis, logger.Component("redis"))
		if err != nil {
			logger.Warn("Redis initialization failed, using in-memory response cache", zap.Error(err))
		} else {
			defer client.Close()
			store = cache.NewRedisStore(client, "edutrack:")
		}
	}
	if store == nil {
		memory := cache.NewMemoryStore(cache.MemoryStoreOptions{
			MaxSize:         cfg.Cache.MaxEntries,
			CleanupInterval: cfg.CacheCleanupInterval(),
		})
		defer memory.Close()
		store = memory
	}

	images := storage.NewLocalImageStore(cfg.Storage.ImageDir, cfg.Storage.PublicPath,
		cfg.MaxUploadBytes(), logger.Component("storage"))

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Create router
	r := gin.New()
	r.Use(gin.Recovery())

	// Setup routes
	api.SetupRouter(r, api.Dependencies{
		Config: cfg,
		Log:    zlog,
		DB:     db,
		Tokens: tokens,
		Cache:  store,
		Images: images,
		Hasher: hasher,
	})

	// Print startup info
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Starting EduTrack API")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("URL:      http://%s\n", cfg.GetServerAddr())
	fmt.Printf("Versions: %s\n", strings.Join(cfg.API.Versions, ", "))
	fmt.Printf("Images:   %s -> %s\n", images.PublicPath(), images.Dir())
	fmt.Println(strings.Repeat("=", 60))

	// Start server
	if err := r.Run(cfg.GetServerAddr()); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func seedAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB, hasher service.PasswordHasher, log *zap.Logger) error {
	hash, err := hasher.Hash(cfg.Admin.Password)
	if err != nil {
		return err
	}
	return repository.SeedAdmin(ctx, repository.NewUserRepository(db),
		cfg.Admin.Username, cfg.Admin.Name, hash, log.Named("seed"))
}
