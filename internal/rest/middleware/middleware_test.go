package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/middleware"
	"github.com/stretchr/testify/assert"
)

type staticResolver map[string]*domain.Viewer

func (s staticResolver) Viewer(token string) (*domain.Viewer, error) {
	if v, ok := s[token]; ok {
		return v, nil
	}
	return nil, domain.ErrUnauthenticated
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestViewer(t *testing.T) {
	r := newEngine()
	r.Use(middleware.Viewer(staticResolver{"good": {ID: "u1", Email: "ada@example.com"}}))
	r.GET("/", func(c *gin.Context) {
		v := middleware.ViewerOf(c)
		if v == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, v.Handle())
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "ada"},
		{"lower case scheme", "bearer good", http.StatusOK, "ada"},
		{"other scheme", "Basic abc", http.StatusOK, "anonymous"},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequireViewer(t *testing.T) {
	r := newEngine()
	r.Use(middleware.Viewer(staticResolver{"good": {ID: "u1", Email: "ada@example.com"}}), middleware.RequireViewer())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSetRequestContextWithTimeout(t *testing.T) {
	r := newEngine()
	r.Use(middleware.SetRequestContextWithTimeout(50 * time.Millisecond))
	var deadline time.Time
	var ok bool
	r.GET("/", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		<-c.Request.Context().Done()
		assert.ErrorIs(t, c.Request.Context().Err(), context.DeadlineExceeded)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, ok)
	assert.False(t, deadline.IsZero())
}

func TestCORS(t *testing.T) {
	r := newEngine()
	r.Use(middleware.CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://dialect.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
