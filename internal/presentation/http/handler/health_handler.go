package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/declaramei/express-api/internal/presentation/http/dto/response"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service liveness
type HealthHandler struct {
	name    string
	store   string
	pinger  Pinger
	started time.Time
}

// NewHealthHandler creates a new health handler. pinger may be nil for
// backends that cannot be unreachable.
func NewHealthHandler(name, store string, pinger Pinger) *HealthHandler {
	return &HealthHandler{
		name:    name,
		store:   store,
		pinger:  pinger,
		started: time.Now(),
	}
}

// Check handles the health probe
func (h *HealthHandler) Check(c *gin.Context) {
	data := gin.H{
		"status":  "ok",
		"service": h.name,
		"store":   h.store,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			_ = c.Error(err)
			data["status"] = "degraded"
			response.Success(c, http.StatusServiceUnavailable, "Store unreachable", data)
			return
		}
	}

	response.OK(c, "Service is healthy", data)
}
