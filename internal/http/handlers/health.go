package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the document store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping           Pinger
	isShuttingDown func() bool
	timeout        time.Duration
}

// NewHealthHandler takes a nil ping when there is no external store to check
// and a nil isShuttingDown when the process never drains.
func NewHealthHandler(ping Pinger, isShuttingDown func() bool) *HealthHandler {
	return &HealthHandler{ping: ping, isShuttingDown: isShuttingDown, timeout: 2 * time.Second}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.isShuttingDown != nil && h.isShuttingDown() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}

	if h.ping != nil {
		c, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
		defer cancel()

		if err := h.ping(c); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
