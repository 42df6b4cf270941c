package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"fuelease-be/internal/utils"

	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Login (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// Frontend-heavy apps
	limitFrontend = rate.Limit(20)
	burstFrontend = 40
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// getVisitor retrieves or creates a rate limiter for the given key.
func (rl *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		rl.visitors[key] = &visitor{limiter, rl.now()}
		return limiter
	}

	v.lastSeen = rl.now()
	return v.limiter
}

// Cleanup evicts idle visitors until ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}
}

// Middleware rejects requests over their tier's budget with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := resolveRateTier(r)

		var identity string
		if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
			identity = fmt.Sprintf("user:%d", userID)
		} else if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
			identity = "device:" + deviceID
		} else {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			identity = "ip:" + ip
		}

		// Separate quotas per tier for the same caller, e.g. "user:1:strict".
		key := fmt.Sprintf("%s:%s", identity, tier)

		if !rl.getVisitor(key, limit, burst).Allow() {
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resolveRateTier determines which rate limit policy applies to the request.
func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if r.URL.Path == "/auth/login" {
		return limitStrict, burstStrict, "strict"
	}

	if r.Header.Get("X-Client-Type") == "frontend-heavy" {
		return limitFrontend, burstFrontend, "frontend"
	}

	return limitGeneral, burstGeneral, "general"
}
