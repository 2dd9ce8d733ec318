package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Check is one dependency pinged by the readiness endpoint.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checks []Check
	info   func() map[string]any
}

// NewHealthHandler creates a new health handler. info is rendered by the
// info endpoint on every call.
func NewHealthHandler(info func() map[string]any, checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks, info: info}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			results[check.Name] = "unhealthy: " + err.Error()
			continue
		}
		results[check.Name] = "healthy"
	}

	body := gin.H{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	c.JSON(status, body)
}

// Info handles GET /health/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.info())
}
