package handler

import (
	"context"
	"net/http"
	"time"

	"posmorales/internal/events"
	"posmorales/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health reports gateway liveness: Redis connectivity, the state of the
// backend circuit breaker, and how many SSE clients are attached.
func Health(rdb *redis.Client, cb *infra.CircuitBreaker, broker *events.Broker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":          status == http.StatusOK,
			"redis":       redisStatus,
			"backend":     cb.State().String(),
			"subscribers": broker.SubscriberCount(),
		})
	}
}
