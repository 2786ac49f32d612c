package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepSize = 1024
	limiterIdleTTL   = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client key.
type clientLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newClientLimiter(perSecond float64) *clientLimiter {
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *clientLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.visitors) >= limiterSweepSize {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, k)
			}
		}
	}
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit throttles each client to perSecond requests with a small
// burst. Clients are keyed by player id when present, else by address.
// A non-positive rate disables limiting.
func RateLimit(perSecond float64) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newClientLimiter(perSecond)
	return func(c *gin.Context) {
		key := c.GetHeader(constants.HeaderPlayerID)
		if key == "" {
			key = c.ClientIP()
		}
		if !l.allow(key, time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{constants.JSONKeyError: constants.ErrRateLimited})
			return
		}
		c.Next()
	}
}
