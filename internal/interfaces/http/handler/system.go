package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports database connectivity
type Pinger interface {
	Ping() error
}

// SystemHandler serves health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db     Pinger
	logger *zap.Logger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{db: db, logger: logger}
}

// Health reports service and database health. Returns 503 when the
// database is unreachable so load balancers stop routing traffic here.
func (h *SystemHandler) Health(c *gin.Context) {
	status := "healthy"
	dbStatus := "up"
	code := http.StatusOK

	if err := h.db.Ping(); err != nil {
		h.logger.Warn("health check database ping failed", zap.Error(err))
		status = "unhealthy"
		dbStatus = "down"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
