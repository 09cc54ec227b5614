package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterFixedWindow(t *testing.T) {
	now := time.Now()
	limiter := NewLimiter(100, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		require.True(t, limiter.Allow("10.0.0.1"), "request %d should be admitted", i+1)
	}
	assert.False(t, limiter.Allow("10.0.0.1"), "101st request must be rejected")

	// a different key has its own window
	assert.True(t, limiter.Allow("10.0.0.2"))

	// once the window elapses the counter resets wholesale
	now = now.Add(time.Minute + time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestLimiterBotKeyAcrossIPs(t *testing.T) {
	limiter := NewLimiter(60, time.Minute)
	router := gin.New()
	router.POST("/ask-gemini", BotRateLimiter(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// 61 requests for the same bot from rotating addresses: the 61st is
	// rejected regardless of network identity
	for i := 0; i < 61; i++ {
		req := httptest.NewRequest(http.MethodPost, "/ask-gemini",
			strings.NewReader(`{"botId":"bot_shared"}`))
		req.RemoteAddr = fmt.Sprintf("10.0.%d.%d:1234", i/250, i%250+1)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if i < 60 {
			assert.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
			assert.Contains(t, rec.Body.String(), "Too many requests for this bot")
		}
	}
}

func TestBotLimiterFallsBackToIP(t *testing.T) {
	limiter := NewLimiter(1, time.Minute)
	router := gin.New()
	router.POST("/ask-gemini", BotRateLimiter(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/ask-gemini", strings.NewReader(`{}`))
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.1.1.1:99"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.1.1.1:99"))
	assert.Equal(t, http.StatusOK, send("10.1.1.2:99"))
}

func TestIPLimiterMessage(t *testing.T) {
	limiter := NewLimiter(0, time.Minute)
	router := gin.New()
	router.POST("/ask-gemini", IPRateLimiter(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/ask-gemini", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests from this IP")
}

func TestLimiterConcurrentCounting(t *testing.T) {
	limiter := NewLimiter(1000, time.Minute)

	var wg sync.WaitGroup
	admitted := make(chan bool, 2000)
	for i := 0; i < 2000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- limiter.Allow("same-key")
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	// per-key increments are serialized: exactly the limit is admitted
	assert.Equal(t, 1000, count)
}
