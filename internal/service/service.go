// Package service implements the blog use cases on top of GORM. Services
// return transfer objects and apperr kinds; read models are cached and the
// cache is invalidated after every write.
package service

import (
	"context" // Request context
	"time"    // Cache TTL

	"blog_system/internal/apperr"  // Error kinds
	"blog_system/internal/cache"   // Read-model cache
	"blog_system/internal/domain"  // Persistent models
	"blog_system/internal/metrics" // Prometheus collectors

	"github.com/go-faster/errors" // Error wrapping
	"github.com/sirupsen/logrus"  // Logging
	"gorm.io/gorm"                // ORM
)

// Options are the collaborators shared by all services.
type Options struct {
	Cache    cache.Cache      // Read-model cache, no caching when nil
	CacheTTL time.Duration    // Lifetime of cached entries
	Metrics  *metrics.Metrics // Optional collectors
}

type base struct {
	db      *gorm.DB
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

func newBase(db *gorm.DB, opts Options) base {
	c := opts.Cache
	if c == nil {
		c = cache.Nop{}
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return base{db: db, cache: c, ttl: ttl, metrics: opts.Metrics}
}

// cached serves dest from the cache under name, or fills it with load and
// stores the result. The key carries the generation of prefix read before
// load, so a value loaded across an invalidation lands under a key no later
// read uses. Cache failures only degrade to a database read.
func (b *base) cached(ctx context.Context, prefix, name string, dest any, load func() error) error {
	gen, err := b.cache.Generation(ctx, prefix)
	if err != nil {
		logrus.WithFields(logrus.Fields{"prefix": prefix, "error": err.Error()}).Warn("Cache generation read failed")
		return load()
	}
	key := cache.Key(prefix, gen, name)
	found, err := b.cache.Get(ctx, key, dest)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
	}
	b.metrics.ObserveCache(prefix, found)
	if found {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	if err := b.cache.Set(ctx, key, dest, b.ttl); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
	}
	return nil
}

// invalidate drops every cached entry under the given prefixes
func (b *base) invalidate(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		if err := b.cache.DeletePrefix(ctx, p); err != nil {
			logrus.WithFields(logrus.Fields{"prefix": p, "error": err.Error()}).Warn("Cache invalidation failed")
		}
	}
}

// authorize allows admins and the owner of a resource
func authorize(actor *domain.User, ownerID uint, action string) error {
	if actor == nil {
		return apperr.New(apperr.ErrUnauthorized, "authentication required")
	}
	if actor.IsAdmin() || actor.ID == ownerID {
		return nil
	}
	return apperr.New(apperr.ErrForbidden, "not allowed to %s", action)
}

// dbError wraps an unexpected database error as internal
func dbError(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.ErrConflict, err, "%s: duplicate value", op)
	}
	return apperr.Wrap(apperr.ErrInternal, errors.Wrap(err, op), "internal error")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func orderByID(column string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB { return tx.Order(column) }
}
