package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	InitRedisRateLimiter(addr, pass, db)

	// small window so consecutive runs don't interfere
	window := 2 * time.Second
	max := 2

	r := gin.New()
	r.GET("/test", RedisRateLimit("test", max, window), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < max; i++ {
		res, err := http.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != 200 {
			t.Fatalf("request %d: expected 200 got %d", i+1, res.StatusCode)
		}
	}

	res, err := http.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}

// Distinct scopes must keep distinct counters in Redis even when the windows
// match.
func TestRedisRateLimitScopedKeysIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	InitRedisRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), 0)

	window := 2 * time.Second

	r := gin.New()
	r.GET("/a", RedisRateLimit("scope-a", 1, window), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/b", RedisRateLimit("scope-b", 1, window), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/a")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("scope-a: expected 200 got %d", res.StatusCode)
	}

	// scope-b must still have a fresh budget
	res, err = http.Get(srv.URL + "/b")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("scope-b: expected 200 got %d", res.StatusCode)
	}
}

// Without a configured client the in-memory fallback still enforces limits.
func TestRedisRateLimitInMemoryFallback(t *testing.T) {
	saved := redisClient
	redisClient = nil
	defer func() { redisClient = saved }()

	r := gin.New()
	r.GET("/test", RedisRateLimit("fallback", 2, time.Minute), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	do := func() int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(); code != 200 {
		t.Fatalf("first request: expected 200 got %d", code)
	}
	if code := do(); code != 200 {
		t.Fatalf("second request: expected 200 got %d", code)
	}
	if code := do(); code != 429 {
		t.Fatalf("third request: expected 429 got %d", code)
	}
}

// A group limiter stacked with a stricter per-route limiter must not drain
// the stricter budget: ordinary API traffic may not lock a client out of
// login.
func TestStackedLimitersKeepSeparateBudgets(t *testing.T) {
	saved := redisClient
	redisClient = nil
	defer func() { redisClient = saved }()

	r := gin.New()
	api := r.Group("/api")
	api.Use(RedisRateLimit("api", 60, time.Minute))
	api.GET("/quests", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	api.POST("/auth/login", RedisRateLimit("auth", 5, time.Minute), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	do := func(method, path string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, path, nil)
		req.RemoteAddr = "10.0.0.7:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 5; i++ {
		if code := do("GET", "/api/quests"); code != 200 {
			t.Fatalf("api request %d: expected 200 got %d", i+1, code)
		}
	}

	if code := do("POST", "/api/auth/login"); code != 200 {
		t.Fatalf("first login after 5 api requests: got %d, want 200", code)
	}

	// the auth budget itself still applies
	for i := 0; i < 4; i++ {
		if code := do("POST", "/api/auth/login"); code != 200 {
			t.Fatalf("login %d: expected 200 got %d", i+2, code)
		}
	}
	if code := do("POST", "/api/auth/login"); code != 429 {
		t.Fatalf("sixth login: expected 429 got %d", code)
	}
}
