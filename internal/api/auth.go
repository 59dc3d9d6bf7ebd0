package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/emeprobe/emeprobe/internal/log"
)

// authMiddleware enforces bearer-token auth on the API routes. When no token
// is configured the middleware is a pass-through: the server logs a warning
// at startup instead.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.APIToken)) != 1 {
			logger := log.FromContext(r.Context())
			logger.Warn().
				Str("event", "auth.failed").
				Str(log.FieldPath, r.URL.Path).
				Msg("rejected request with missing or invalid token")
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
