package ratelimit

import (
	"fmt"
	"net/http"

	libredis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Middleware builds a Redis-backed rate limiting middleware for public
// routes. The rate uses limiter's formatted syntax, e.g. "120-M" for 120
// requests per minute per client IP.
func Middleware(client *libredis.Client, formatted string) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "ratelimit",
	})
	if err != nil {
		return nil, fmt.Errorf("init rate limit store: %w", err)
	}
	mw := stdlib.NewMiddleware(limiter.New(store, rate, limiter.WithTrustForwardHeader(false)))
	return mw.Handler, nil
}
