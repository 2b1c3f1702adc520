package handicaphandlers

import (
	"context"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	handicapjwt "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/jwt"
	"golang.org/x/time/rate"
)

// Idle client buckets are dropped once they have been quiet for clientIdleTTL;
// the sweep runs at most once per clientSweepEvery.
const (
	clientIdleTTL    = 10 * time.Minute
	clientSweepEvery = time.Minute
)

type clientBucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// ClientThrottle hands out one token bucket per client host.
type ClientThrottle struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	perSecond rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewClientThrottle(perSecond rate.Limit, burst int) *ClientThrottle {
	return &ClientThrottle{
		buckets:   make(map[string]*clientBucket),
		perSecond: perSecond,
		burst:     burst,
		now:       time.Now,
	}
}

// Allow spends one token from the bucket of the host in remoteAddr.
func (c *ClientThrottle) Allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= clientSweepEvery {
		for key, b := range c.buckets {
			if now.Sub(b.lastSeen) > clientIdleTTL {
				delete(c.buckets, key)
			}
		}
		c.lastSweep = now
	}

	b, ok := c.buckets[host]
	if !ok {
		b = &clientBucket{tokens: rate.NewLimiter(c.perSecond, c.burst)}
		c.buckets[host] = b
	}
	b.lastSeen = now
	return b.tokens.AllowN(now, 1)
}

func (c *ClientThrottle) tracked() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}

// ThrottleMiddleware answers 429 once a client host has spent its burst.
func ThrottleMiddleware(throttle *ClientThrottle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !throttle.Allow(r.RemoteAddr) {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	corsMethods = "GET, POST, PUT, DELETE"
	corsHeaders = "Authorization, Content-Type"
)

// OriginMiddleware echoes allowed browser origins and short-circuits preflights.
// With no origins configured it only answers preflights.
func OriginMiddleware(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")
			origin := r.Header.Get("Origin")
			if origin != "" && slices.Contains(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type claimsKey struct{}

// BearerAuthMiddleware rejects requests without a valid "Authorization: Bearer" token
// and stores the token's claims on the request context.
func BearerAuthMiddleware(provider handicapjwt.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := provider.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// ClaimsFromContext returns the claims stored by BearerAuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*handicapjwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*handicapjwt.Claims)
	return claims, ok
}
