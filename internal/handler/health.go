package handler

import (
	"context"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const cachePingTimeout = 2 * time.Second

// HealthHandler reports liveness and, when configured, the extraction cache.
type HealthHandler struct {
	cache domain.Cache
}

// NewHealthHandler accepts a nil cache when caching is disabled.
func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health godoc
// @Summary Liveness and cache status
// @Description An unreachable cache reports "degraded"; quiz generation keeps working without it.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), cachePingTimeout)
	defer cancel()
	if err := h.cache.Ping(ctx); err != nil {
		logger.Get().Warn("Cache health check failed", zap.Error(err))
		return c.JSON(dto.HealthResponse{Status: "degraded", Cache: "unavailable"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Cache: "ok"})
}
