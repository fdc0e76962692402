package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
)

const storePrefix = "office-ops:ratelimit"

type RateLimitConfig struct {
	RequestsPerPeriod int
	Period            time.Duration
	Store             limiter.Store
	// KeyFunc overrides the client ip as the limiter key.
	KeyFunc func(r *http.Request) string
}

func NewMemoryStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          storePrefix,
		CleanUpInterval: time.Minute,
	})
}

func NewRedisStore(url string) (limiter.Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	store, err := sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
		Prefix: storePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	return store, nil
}

// callerKey limits identified callers per user and everyone else per ip.
func callerKey(r *http.Request) string {
	if c, err := composables.UseCaller(r.Context()); err == nil {
		return fmt.Sprintf("user:%d", c.UserID)
	}
	if p, ok := composables.UseParams(r.Context()); ok && p.IP != "" {
		return "ip:" + p.IP
	}
	return "ip:" + r.RemoteAddr
}

func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	period := cfg.Period
	if period <= 0 {
		period = time.Second
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = callerKey
	}
	instance := limiter.New(store, limiter.Rate{Period: period, Limit: int64(cfg.RequestsPerPeriod)})

	mw := stdlib.NewMiddleware(
		instance,
		stdlib.WithKeyGetter(keyFunc),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			_ = httpapi.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", map[string]string{
				"request_id": composables.UseRequestID(r.Context()),
			})
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			composables.UseLogger(r.Context()).WithError(err).Error("rate limiter store failed")
			_ = httpapi.WriteError(w, http.StatusServiceUnavailable, "RATE_LIMITER_UNAVAILABLE", "service unavailable", nil)
		}),
	)
	return mw.Handler
}
