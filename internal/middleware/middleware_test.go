package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"blog_system/internal/domain"
	"blog_system/internal/metrics"
	"blog_system/internal/testutil"
	"blog_system/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

var tokens = utils.TokenOptions{Secret: "middleware-secret", TTL: time.Hour}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withBearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/private", JWTAuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetUint(UserIDKey)})
	})

	w := serve(r, withBearer(""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Bearer realm="api"`, w.Header().Get("WWW-Authenticate"))

	w = serve(r, withBearer("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(tokens.Secret))
	require.NoError(t, err)
	w = serve(r, withBearer(expired))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Bearer error="invalid_token"`, w.Header().Get("WWW-Authenticate"))

	valid, err := utils.GenerateJWT(7, "a@b.c", tokens)
	require.NoError(t, err)
	w = serve(r, withBearer(valid))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":7}`, w.Body.String())
}

func TestCurrentUserAndAdminOnly(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db, "user@example.com", domain.RoleUser)
	admin := testutil.NewUser(t, db, "admin@example.com", domain.RoleAdmin)
	r := gin.New()
	r.GET("/private", JWTAuthMiddleware(tokens), CurrentUserMiddleware(db), AdminOnlyMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Email)
	})

	userToken, err := utils.GenerateJWT(user.ID, user.Email, tokens)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, serve(r, withBearer(userToken)).Code)

	adminToken, err := utils.GenerateJWT(admin.ID, admin.Email, tokens)
	require.NoError(t, err)
	w := serve(r, withBearer(adminToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.com", w.Body.String())

	ghostToken, err := utils.GenerateJWT(999, "ghost@example.com", tokens)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, withBearer(ghostToken)).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Now()

	assert.True(t, rl.allow("a", now))
	assert.True(t, rl.allow("a", now))
	assert.False(t, rl.allow("a", now))
	assert.True(t, rl.allow("b", now), "clients are limited separately")
	assert.True(t, rl.allow("a", now.Add(time.Second)), "tokens refill over time")
}

func TestRateLimiter_Prune(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.allow("old", time.Now().Add(-time.Hour))
	rl.allow("fresh", time.Now())

	rl.Prune(time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.limiters, "old")
	assert.Contains(t, rl.limiters, "fresh")
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	w = serve(r, req)
	assert.Equal(t, "caller-id", w.Header().Get(RequestIDHeader))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(MetricsMiddleware(m), LoggerMiddleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(r, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/items/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 2.0, promtest.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/items/:id", "204")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.HTTPInFlight))
}
