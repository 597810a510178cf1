package db

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// PoolStats represents database connection statistics.
type PoolStats struct {
	Driver        string `json:"driver"`
	TotalConns    int32  `json:"total_conns"`
	IdleConns     int32  `json:"idle_conns"`
	AcquiredConns int32  `json:"acquired_conns"`
	MaxConns      int32  `json:"max_conns"`
	Healthy       bool   `json:"healthy"`
}

// GetPoolStats returns connection statistics for whichever driver is open.
func GetPoolStats(h *Handle) *PoolStats {
	if h.Pool != nil {
		stat := h.Pool.Stat()
		return &PoolStats{
			Driver:        h.Driver,
			TotalConns:    stat.TotalConns(),
			IdleConns:     stat.IdleConns(),
			AcquiredConns: stat.AcquiredConns(),
			MaxConns:      stat.MaxConns(),
			Healthy:       stat.TotalConns() > 0,
		}
	}
	stat := h.SQL.Stats()
	return &PoolStats{
		Driver:        h.Driver,
		TotalConns:    int32(stat.OpenConnections),
		IdleConns:     int32(stat.Idle),
		AcquiredConns: int32(stat.InUse),
		MaxConns:      int32(stat.MaxOpenConnections),
		Healthy:       true,
	}
}

// HealthHandler returns a handler for the database health check endpoint.
func HealthHandler(h *Handle) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		err := h.Ping(ctx)
		stats := GetPoolStats(h)

		if err != nil {
			stats.Healthy = false
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
				"pool":   stats,
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"pool":   stats,
		})
	}
}
