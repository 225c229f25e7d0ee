package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arturocg96/EduTrackAPI/internal/api/auth"
	"github.com/arturocg96/EduTrackAPI/internal/api/category"
	"github.com/arturocg96/EduTrackAPI/internal/api/course"
	"github.com/arturocg96/EduTrackAPI/internal/api/user"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/cache"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/config"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/jwt"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
	"github.com/arturocg96/EduTrackAPI/internal/service"
	"github.com/arturocg96/EduTrackAPI/internal/storage"
)

// Dependencies are the collaborators the route table is built from
type Dependencies struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Tokens *jwt.Manager
	Cache  cache.Store
	Images *storage.LocalImageStore
	Hasher service.PasswordHasher
}

// SetupRouter configures all routes
func SetupRouter(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	log := deps.Log

	registerValidators()

	r.MaxMultipartMemory = cfg.MaxUploadBytes()
	r.Use(RequestLogger(log.Named("http")))
	r.Use(cors.New(corsConfig(cfg.CORS)))

	categoryRepo := repository.NewCategoryRepository(deps.DB)
	courseRepo := repository.NewCourseRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)

	courseSvc := service.NewCourseService(courseRepo, deps.Images, log.Named("course"))
	userSvc := service.NewUserService(userRepo, deps.Hasher, deps.Tokens, log.Named("user"))
	limiter := service.NewLoginRateLimit(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)

	categories := category.NewHandler(categoryRepo, log.Named("category"))
	courses := course.NewHandler(courseRepo, categoryRepo, courseSvc, log.Named("course"))
	users := user.NewHandler(userSvc, limiter, log.Named("user"))

	authenticated := auth.AuthMiddleware(deps.Tokens)
	admin := auth.AdminMiddleware()
	cached := ResponseCache(deps.Cache, cfg.CacheTTL(), log.Named("cache"))
	invalidate := InvalidateCache(deps.Cache, log.Named("cache"))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	r.Static(deps.Images.PublicPath(), deps.Images.Dir())

	setupCategoryRoutes := func(g *gin.RouterGroup) {
		g.GET("", cached, categories.List)
		g.GET("/:categoryId", categories.Get)
		g.POST("", authenticated, admin, invalidate, categories.Create)
		g.PATCH("/:categoryId", authenticated, admin, invalidate, categories.Update)
		g.PUT("/:categoryId", authenticated, admin, invalidate, categories.Update)
		g.DELETE("/:categoryId", authenticated, admin, invalidate, categories.Delete)
	}

	// Unversioned category routes
	setupCategoryRoutes(r.Group("/api/categories"))

	for i, version := range cfg.API.Versions {
		v := r.Group("/api/" + version)

		setupCategoryRoutes(v.Group("/categories"))

		// The first version returns the whole catalogue unless paging is asked for
		courseGroup := v.Group("/courses")
		{
			courseGroup.GET("", cached, courses.List(i > 0))
			courseGroup.GET("/:courseId", courses.Get)
			courseGroup.GET("/GetCoursesInCategory/:categoryId", courses.ListByCategory)
			courseGroup.GET("/SearchCourse", courses.Search)
			courseGroup.POST("", authenticated, admin, invalidate, courses.Create)
			courseGroup.PATCH("/:courseId", authenticated, admin, invalidate, courses.Update)
			courseGroup.DELETE("/:courseId", authenticated, admin, invalidate, courses.Delete)
		}

		userGroup := v.Group("/users")
		{
			userGroup.GET("", authenticated, admin, cached, users.List)
			userGroup.GET("/:userId", users.Get)
			userGroup.POST("/register", invalidate, users.Register)
			userGroup.POST("/login", users.Login)
		}
	}
}

func corsConfig(c config.CORSConfig) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.ExposeHeaders = []string{"Location"}

	allowAll := len(c.AllowedOrigins) == 0
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = c.AllowedOrigins
	}
	return cfg
}
