package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/golfgang/backend/internal/config"
)

func wsRequest(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestWebSocketCORSCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		env    string
		origin string
		want   int
	}{
		{"dev localhost", "development", "http://localhost:5173", http.StatusOK},
		{"dev foreign", "development", "https://evil.example", http.StatusForbidden},
		{"prod site", "production", "https://golfgang.gg", http.StatusOK},
		{"prod frontend url", "production", "https://staging.golfgang.gg", http.StatusOK},
		{"prod localhost", "production", "http://localhost:5173", http.StatusForbidden},
		{"no origin", "production", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{Environment: tc.env, FrontendURL: "https://staging.golfgang.gg"}
			r := gin.New()
			r.GET("/ws", WebSocketCORSCheck(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, wsRequest(tc.origin))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Environment: "production"}

	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.GET("/api", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api", nil)
	req.Header.Set("Origin", "https://play.golfgang.gg")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://play.golfgang.gg", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
