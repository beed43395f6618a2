package api

import (
	"net/http" // HTTP status codes
	"time"     // Cache lifetime

	"blog_system/internal/cache"      // Read-model cache
	"blog_system/internal/metrics"    // Prometheus collectors
	"blog_system/internal/middleware" // Custom middleware
	"blog_system/internal/service"    // Use cases
	"blog_system/internal/utils"      // JWT options

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"github.com/redis/go-redis/v9"                            // Redis client
	"github.com/sirupsen/logrus"                              // Logrus for structured logging
	"gorm.io/gorm"                                            // GORM ORM library
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	DB           *gorm.DB                // Database session
	Redis        *redis.Client           // Optional, checked by /healthz
	Cache        cache.Cache             // Read-model cache, disabled when nil
	CacheTTL     time.Duration           // Lifetime of cached entries
	Metrics      *metrics.Metrics        // Optional collectors and /metrics
	Tokens       utils.TokenOptions      // Bearer token issuing and validation
	LoginLimiter *middleware.RateLimiter // Throttles login and registration
}

// NewRouter builds the gin engine with every route of the blog
func NewRouter(deps Deps) *gin.Engine {
	setupValidator()

	opts := service.Options{Cache: deps.Cache, CacheTTL: deps.CacheTTL, Metrics: deps.Metrics}
	posts := service.NewPostService(deps.DB, opts)
	comments := service.NewCommentService(deps.DB, opts)
	tags := service.NewTagService(deps.DB, opts)
	users := service.NewUserService(deps.DB, opts)
	auth := service.NewAuthService(deps.DB, deps.Tokens)

	limiter := deps.LoginLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(1, 5)
	}

	r := gin.New() // Gin router instance
	r.Use(middleware.RequestIDMiddleware(), middleware.LoggerMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"panic":      recovered,
		}).Error("Handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	// Pages and probes
	r.GET("/", HomeHandler)
	r.GET("/about", AboutHandler)
	r.GET("/healthz", HealthHandler(deps.DB, deps.Redis))
	r.StaticFS("/static", staticFS())
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	apiGroup := r.Group("/api")

	// Auth routes (rate limited)
	apiGroup.POST("/login", limiter.Handler(), LoginHandler(auth))
	apiGroup.POST("/users/register", limiter.Handler(), RegisterHandler(users))

	// Public reads
	apiGroup.GET("/posts", ListPostsHandler(posts))
	apiGroup.GET("/posts/:id", GetPostHandler(posts))
	apiGroup.GET("/posts/:id/comments", ListPostCommentsHandler(comments))
	apiGroup.GET("/comments", ListCommentsHandler(comments))
	apiGroup.GET("/comments/:id", GetCommentHandler(comments))
	apiGroup.GET("/tags", ListTagsHandler(tags))
	apiGroup.GET("/tags/:id", GetTagHandler(tags))
	apiGroup.GET("/tags/:id/posts", ListTagPostsHandler(posts))
	apiGroup.GET("/users", ListUsersHandler(users))
	apiGroup.GET("/users/:id", GetUserHandler(users))

	// Writes (protected by JWT)
	authGroup := apiGroup.Group("")
	authGroup.Use(middleware.JWTAuthMiddleware(deps.Tokens), middleware.CurrentUserMiddleware(deps.DB))
	authGroup.POST("/posts", CreatePostHandler(posts))
	authGroup.PUT("/posts/:id", UpdatePostHandler(posts))
	authGroup.DELETE("/posts/:id", DeletePostHandler(posts))
	authGroup.POST("/comments", CreateCommentHandler(comments))
	authGroup.PUT("/comments/:id", UpdateCommentHandler(comments))
	authGroup.DELETE("/comments/:id", DeleteCommentHandler(comments))
	authGroup.POST("/tags", CreateTagHandler(tags))
	authGroup.POST("/tags/bulk", CreateTagsBulkHandler(tags))
	authGroup.PATCH("/tags/:id", PatchTagHandler(tags))
	authGroup.DELETE("/tags/:id", DeleteTagHandler(tags))
	authGroup.PUT("/users/:id", UpdateUserHandler(users))
	authGroup.DELETE("/users/:id", DeleteUserHandler(users))

	// Admin routes
	authGroup.POST("/users", middleware.AdminOnlyMiddleware(), CreateUserHandler(users))

	return r
}
