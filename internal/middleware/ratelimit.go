package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/oakwellhq/webstarter/internal/config"
)

// RateLimit returns a fixed-window request limiter keyed on client IP.
// With the limiter disabled or no Redis client available it degrades to a
// passthrough.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	// The window key is derived in whole seconds; anything shorter would
	// divide by zero below.
	windowSecs := int64(cfg.Window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}
	window := time.Duration(windowSecs) * time.Second

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			slot := time.Now().Unix() / windowSecs
			key := cfg.Prefix + ":" + c.RealIP() + ":" + strconv.FormatInt(slot, 10)

			pipe := rdb.TxPipeline()
			count := pipe.Incr(c.Request().Context(), key)
			pipe.Expire(c.Request().Context(), key, window)
			if _, err := pipe.Exec(c.Request().Context()); err != nil {
				// Redis trouble never blocks traffic.
				return next(c)
			}
			if count.Val() > int64(cfg.Requests) {
				c.Response().Header().Set("Retry-After",
					strconv.FormatInt(windowSecs, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
