package middleware

import (
	"net/http"
	"time"

	"posmorales/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// checkoutLockTTL caps how long a stale lock can block the terminal if the
// process dies mid-request.
const checkoutLockTTL = 30 * time.Second

// CheckoutGuard serializes checkout attempts per terminal. A double tap on
// the cobrar button must not produce two sales, so the second request is
// rejected while the first is still in flight.
func CheckoutGuard(rdb *redis.Client, terminalID string) gin.HandlerFunc {
	key := "checkout:inflight:" + terminalID
	return func(c *gin.Context) {
		ok, err := rdb.SetNX(c.Request.Context(), key, "1", checkoutLockTTL).Result()
		if err != nil {
			// Redis down must not block sales; fall through without the guard
			log.Warn().Err(err).Msg("checkout guard unavailable")
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, apierror.New("Ya hay un cobro en proceso"))
			return
		}
		defer rdb.Del(c.Request.Context(), key)
		c.Next()
	}
}
