package api

import (
	"context"  // Health check deadline
	"embed"    // Bundled static assets
	"io/fs"    // Sub-tree of the assets
	"net/http" // HTTP status codes
	"time"     // Health check timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

//go:embed static
var staticFiles embed.FS

// HomeHandler greets visitors
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to Blog System!")
}

// AboutHandler describes the site
func AboutHandler(c *gin.Context) {
	c.String(http.StatusOK, "This is a simple Go blog!")
}

// staticFS serves the embedded static directory
func staticFS() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // The directory is embedded at build time
	}
	return http.FS(sub)
}

// HealthHandler answers 200 when the database and Redis respond
func HealthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		healthy := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "down"
			healthy = false
		} else {
			checks["database"] = "up"
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = "down"
				healthy = false
			} else {
				checks["redis"] = "up"
			}
		}
		if !healthy {
			logrus.WithField("checks", checks).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
	}
}
