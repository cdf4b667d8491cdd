package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/rest/middleware"
	"github.com/stretchr/testify/assert"
)

func newRouter(viewer *domain.Viewer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if viewer != nil {
			c.Set(middleware.ViewerKey, viewer)
		}
		c.Next()
	})
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

var ada = &domain.Viewer{ID: "u1", Email: "ada@example.com"}

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, http.StatusOK},
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrBadParamInput, http.StatusBadRequest},
		{domain.ErrEmptyContent, http.StatusBadRequest},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrSessionClosed, http.StatusGone},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, getStatusCode(tt.err), fmt.Sprint(tt.err))
	}
}

func TestHealth(t *testing.T) {
	r := newRouter(nil)
	h := NewHealthHandler(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
	})
	r.GET("/health", h.Health)

	rec := doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", decode[map[string]string](t, rec)["database"])

	h.Checks["cache"] = PingFunc(func(context.Context) error { return errors.New("refused") })
	rec = doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "refused", decode[map[string]string](t, rec)["cache"])
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
