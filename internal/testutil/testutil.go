// Package testutil builds throwaway databases and caches for tests.
package testutil

import (
	"strings"
	"testing"

	"blog_system/internal/cache"
	"blog_system/internal/db"
	"blog_system/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain password of every user made by NewUser
const Password = "password123"

// NewDB opens a migrated in-memory SQLite database private to the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), db.Config(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // One connection keeps the shared memory database alive and serialized
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// NewRedis starts a miniredis server and returns a client for it
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// NewCache returns a Redis cache backed by miniredis
func NewCache(t *testing.T) (*miniredis.Miniredis, *cache.RedisCache) {
	t.Helper()
	mr, rdb := NewRedis(t)
	return mr, cache.NewRedis(rdb)
}

// CachedKeys lists the keys stored under prefix, ignoring bookkeeping keys
func CachedKeys(mr *miniredis.Miniredis, prefix string) []string {
	var keys []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// NewUser stores a user with the given email and role, using Password
func NewUser(t *testing.T, gdb *gorm.DB, email, role string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		FirstName:      "Test",
		LastName:       "User",
		Email:          email,
		PasswordDigest: string(hash),
		Role:           role,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

// NewTag stores a tag
func NewTag(t *testing.T, gdb *gorm.DB, name string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name}
	require.NoError(t, gdb.Create(tag).Error)
	return tag
}

// NewPost stores a post by author with the given slug and tags
func NewPost(t *testing.T, gdb *gorm.DB, author *domain.User, slug string, tags ...domain.Tag) *domain.Post {
	t.Helper()
	post := &domain.Post{
		AuthorID:  author.ID,
		Slug:      slug,
		Title:     "Title of " + slug,
		Content:   "Content long enough for " + slug,
		Published: true,
		Tags:      tags,
	}
	require.NoError(t, gdb.Omit("Tags.*").Create(post).Error)
	return post
}
