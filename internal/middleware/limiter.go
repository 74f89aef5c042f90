package middleware

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"storefront-be/internal/utils"

	"golang.org/x/time/rate"
)

// tier is a named rate-limit policy.
type tier struct {
	name  string
	limit rate.Limit
	burst int
}

var (
	// Auth actions and the payment webhook.
	tierStrict = tier{"strict", rate.Limit(2), burstStrict}
	// Default for anything unclassified.
	tierGeneral = tier{"general", rate.Limit(10), 20}
	// Frontend-heavy clients that batch many queries.
	tierFrontend = tier{"frontend", rate.Limit(20), 40}
	// Trusted internal services.
	tierInternal = tier{"internal", rate.Limit(100), 200}
)

const burstStrict = 5

// bucket holds a limiter and the last time its key was seen.
type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	buckets   = make(map[string]*bucket)
	bucketsMu sync.Mutex
)

func init() {
	go sweepBuckets()
}

func limiterFor(key string, t tier) *rate.Limiter {
	bucketsMu.Lock()
	defer bucketsMu.Unlock()

	b, ok := buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

// sweepBuckets drops idle entries so the map does not grow unbounded.
func sweepBuckets() {
	for {
		time.Sleep(time.Minute)

		bucketsMu.Lock()
		for key, b := range buckets {
			if time.Since(b.lastSeen) > 3*time.Minute {
				delete(buckets, key)
			}
		}
		bucketsMu.Unlock()
	}
}

// RateLimitMiddleware rejects requests exceeding their tier's quota with 429.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := resolveTier(r)

		// Quotas are per identity and per tier, so the same caller keeps
		// separate quotas for strict and general actions.
		key := fmt.Sprintf("%s:%s", identityKey(r), t.name)

		if !limiterFor(key, t).Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// identityKey prefers the authenticated user, then a client-supplied device
// id, then the remote IP.
func identityKey(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%d", userID)
	}
	if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
		return "device:" + deviceID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func resolveTier(r *http.Request) tier {
	if key := os.Getenv("INTERNAL_SECRET_KEY"); key != "" && r.Header.Get("X-Service-Auth") == key {
		return tierInternal
	}
	if r.URL.Path == "/webhooks/stripe" || r.Header.Get("X-Action") == "auth" {
		return tierStrict
	}
	if r.Header.Get("X-Client-Type") == "frontend-heavy" {
		return tierFrontend
	}
	return tierGeneral
}
