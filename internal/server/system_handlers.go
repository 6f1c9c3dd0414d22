package server

import (
	"context"
	"net/http"
	"time"

	"cardledger/internal/invoice"
	"cardledger/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notifier is the notification queue as seen by the HTTP layer.
type Notifier interface {
	invoice.Notifier
	Ping(ctx context.Context) error
	QueueLength(ctx context.Context) int64
}

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthStatus struct {
	Status       string `json:"status" example:"ok"`
	Database     string `json:"database" example:"ok"`
	Queue        string `json:"queue" example:"ok"`
	QueuedEmails int64  `json:"queued_emails"`
}

// @Summary      Health check
// @Description  Reports database and notification queue reachability.
// @Tags         system
// @Produce      json
// @Success      200 {object} server.HealthStatus
// @Failure      503 {object} server.HealthStatus
// @Router       /health [get]
func Health(db pinger, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := HealthStatus{Status: "ok", Database: "ok", Queue: "ok"}
		code := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check: database unreachable", "error", err)
			status.Status, status.Database = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}

		// the queue only carries notifications, so losing it does not fail the check
		if err := notifier.Ping(ctx); err != nil {
			logger.Warn("health check: queue unreachable", "error", err)
			status.Queue = "unreachable"
		} else {
			status.QueuedEmails = notifier.QueueLength(ctx)
		}

		c.JSON(code, status)
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
