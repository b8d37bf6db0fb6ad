package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/infrastructure/config"
)

// Version is set at build time via -ldflags
var Version = "dev"

// SystemHandler handles system endpoints
type SystemHandler struct {
	BaseHandler
	cfg       *config.Config
	startedAt time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cfg *config.Config, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(logger),
		cfg:         cfg,
		startedAt:   time.Now(),
	}
}

// Info returns basic service information
// @Summary Service info
// @Tags system
// @Produce json
// @Success 200 {object} dto.Response
// @Router /api/v1/system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":    h.cfg.App.Name,
		"version": Version,
		"env":     h.cfg.App.Env,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ping is a trivial liveness endpoint
// @Summary Ping
// @Tags system
// @Produce json
// @Success 200 {object} dto.Response
// @Router /api/v1/system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong", "time": time.Now().UTC()})
}
