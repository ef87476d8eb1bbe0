package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-hotel-booking/internal/config"
)

// takeToken refills the bucket stored at KEYS[1] by whole intervals and
// then tries to take one token.  ARGV: now_ms, capacity, refill, every_ms,
// ttl_s.  Returns {granted, left, wait_ms}.
var takeToken = redis.NewScript(`
local now, cap, refill, every, ttl =
  tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local left = tonumber(redis.call('HGET', KEYS[1], 'left'))
local stamp = tonumber(redis.call('HGET', KEYS[1], 'stamp'))
if left == nil or stamp == nil then
  left, stamp = cap, now
end
local n = math.floor(math.max(0, now - stamp) / every)
if n > 0 then
  left = math.min(cap, left + n * refill)
  stamp = stamp + n * every
end
local granted, wait = 0, 0
if left >= 1 then
  granted, left = 1, left - 1
else
  wait = math.max(0, every - (now - stamp))
end
redis.call('HSET', KEYS[1], 'left', left, 'stamp', stamp)
redis.call('EXPIRE', KEYS[1], ttl)
return {granted, left, wait}
`)

// decision is the outcome of one token request.
type decision struct {
	granted bool
	left    int64
	wait    time.Duration
}

// bucket is a token bucket per key kept in Redis.
type bucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

func (b bucket) take(ctx context.Context, key string, now time.Time) (decision, bool, error) {
	raw, err := takeToken.Run(ctx, b.rdb, []string{key},
		now.UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL/time.Second),
	).Result()
	if err != nil {
		return decision{}, false, err
	}
	d, ok := parseDecision(raw)
	return d, ok, nil
}

// NewTokenBucket limits booking writes per key (see rateKey).  Without
// Redis, or when Redis fails, requests go through: the row lock in the
// store protects capacity, the limiter only sheds load.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	b := bucket{cfg: cfg, rdb: rdb}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			d, ok, err := b.take(c.Request().Context(), key, time.Now())
			if err != nil || !ok {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: key=%s err=%v ok=%t", key, err, ok)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.left, 10))
			if d.granted {
				return next(c)
			}
			retry := int(math.Ceil(d.wait.Seconds()))
			h.Set("Retry-After", strconv.Itoa(retry))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":      "too many booking requests",
				"retryAfter": retry,
			})
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func parseDecision(raw interface{}) (decision, bool) {
	vals, ok := raw.([]interface{})
	if !ok || len(vals) != 3 {
		return decision{}, false
	}
	nums := make([]int64, 3)
	for i, v := range vals {
		switch n := v.(type) {
		case int64:
			nums[i] = n
		case string:
			p, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return decision{}, false
			}
			nums[i] = p
		default:
			return decision{}, false
		}
	}
	return decision{
		granted: nums[0] == 1,
		left:    nums[1],
		wait:    time.Duration(nums[2]) * time.Millisecond,
	}, true
}

// rateKey scopes a bucket.  "user" strategies fall back to the client IP
// for anonymous callers so they do not share one bucket.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	who := principal(c)
	if who == "anon" {
		who = "ip=" + c.RealIP()
	}
	op := c.Request().Method + " " + c.Path()

	var scope []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		scope = []string{"ip=" + c.RealIP()}
	case "user":
		scope = []string{who}
	case "route":
		scope = []string{op}
	case "ip_user":
		scope = []string{"ip=" + c.RealIP(), who}
	default: // "user_route"
		scope = []string{who, op}
	}
	return cfg.Prefix + ":" + strings.Join(scope, "|")
}
