package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func hit(r *gin.Engine, client string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if client != "" {
		req.Header.Set("X-Client-ID", client)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(time.Minute).Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	if code := hit(r, "a"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := hit(r, "a"); code != http.StatusTooManyRequests {
		t.Fatalf("second request within limit: %d", code)
	}
	// another client is unaffected
	if code := hit(r, "b"); code != http.StatusOK {
		t.Fatalf("other client: %d", code)
	}
}
