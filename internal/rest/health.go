package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler reports the reachability of every backend dependency
type HealthHandler struct {
	Checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{Checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	res := make(gin.H, len(h.Checks))
	for name, p := range h.Checks {
		if err := p.Ping(c.Request.Context()); err != nil {
			res[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		res[name] = "up"
	}
	c.JSON(status, res)
}
