package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/mycfo/backend/internal/domain/error"
)

func newLimitedEngine(rl *RateLimiter, orgID uuid.UUID) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(string(OrganizationIDKey), orgID)
		c.Next()
	})
	engine.Use(rl.Middleware())
	engine.POST("/imports", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return engine
}

func doPost(engine *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/imports", nil))
	return rec
}

func TestRateLimiter_LimitsPerOrganization(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(client, "imports", 2, time.Minute)
	fixed := time.Date(2024, 3, 10, 12, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	orgA := newLimitedEngine(rl, uuid.New())
	orgB := newLimitedEngine(rl, uuid.New())

	assert.Equal(t, http.StatusNoContent, doPost(orgA).Code)
	assert.Equal(t, http.StatusNoContent, doPost(orgA).Code)

	limited := doPost(orgA)
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), string(domainerror.ErrCodeImportRateLimited))
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	// Another tenant has its own budget.
	assert.Equal(t, http.StatusNoContent, doPost(orgB).Code)

	// The next window starts fresh.
	fixed = fixed.Add(time.Minute)
	assert.Equal(t, http.StatusNoContent, doPost(orgA).Code)
}

func TestRateLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	engine := newLimitedEngine(NewRateLimiter(client, "imports", 1, time.Minute), uuid.New())

	assert.Equal(t, http.StatusNoContent, doPost(engine).Code)
	assert.Equal(t, http.StatusNoContent, doPost(engine).Code)
}

func TestRateLimiter_DisabledWithoutClient(t *testing.T) {
	engine := newLimitedEngine(NewRateLimiter(nil, "imports", 1, time.Minute), uuid.New())

	assert.Equal(t, http.StatusNoContent, doPost(engine).Code)
	assert.Equal(t, http.StatusNoContent, doPost(engine).Code)
}
