package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/utils"
	"github.com/resetgate/resetgate/internal/utils/ratelimit"
)

// RateLimit throttles requests per client IP using the token buckets in the
// given store. The category selects the bucket parameters, so validation and
// submission endpoints can carry different limits.
func RateLimit(limiters *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExemptedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := GetClientIP(r)

			limiter := limiters.GetLimiter(clientIP, category)
			if !limiter.Allow() {
				retryAfter := int(math.Ceil(limiter.RetryAfter().Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}

				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Msg("Rate limit exceeded")

				w.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
				utils.TooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
