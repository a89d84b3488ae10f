package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"pxltravel/shared"
	"pxltravel/shared/constant"
	"pxltravel/transport/http/response"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownAgent      = "unknown"
)

// RateLimit counts requests per client address and user agent in a fixed window. The address
// is r.RemoteAddr, so chi's RealIP must run first behind a proxy. A cache outage lets requests through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limit := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		if !limit.Enable {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := shared.BuildCacheKey(cacheKeyRateLimit, clientAddr(r), userAgent(r))

			count, err := a.cache.Increment(r.Context(), key, limit.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limit.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limit.MaxRequests)-count), 10))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limit.WindowSeconds))

			if count > int64(limit.MaxRequests) {
				log.Debug().Str("key", key).Int64("count", count).Msg("request limit exceeded")
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != constant.Empty {
		return ua
	}

	return unknownAgent
}

// clientAddr drops the port so reconnects from one client share a bucket.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
